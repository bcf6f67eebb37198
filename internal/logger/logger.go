package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// LogFilePath is the default log file, relative to the working directory (project root when
// run via go run ./cmd/solarsystem).
const LogFilePath = "logs/solarsystem.log"

// maxLines bounds the in-memory history shown by the HUD.
const maxLines = 256

// Logger stores timestamped lines in memory and appends them to a file on disk. It is an
// io.Writer so it can sit behind a slog handler.
type Logger struct {
	mu      sync.Mutex
	path    string
	lines   []string
	partial []byte
}

// New returns a Logger that mirrors to path and ensures its directory exists. An empty
// path keeps lines in memory only.
func New(path string) *Logger {
	if path != "" {
		_ = os.MkdirAll(filepath.Dir(path), 0755)
	}
	return &Logger{path: path, lines: make([]string, 0, maxLines)}
}

// Log appends a line prefixed with [timestamp] using computer time.
func (l *Logger) Log(line string) {
	ts := time.Now().Format("2006-01-02 15:04:05")
	stamped := "[" + ts + "] " + line

	l.mu.Lock()
	if len(l.lines) == maxLines {
		copy(l.lines, l.lines[1:])
		l.lines = l.lines[:maxLines-1]
	}
	l.lines = append(l.lines, stamped)
	path := l.path
	l.mu.Unlock()

	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	_, _ = f.WriteString(stamped + "\n")
	_ = f.Close()
}

// Write logs every complete line in p. A trailing partial line is held until its newline
// arrives.
func (l *Logger) Write(p []byte) (int, error) {
	l.mu.Lock()
	buf := append(l.partial, p...)
	var complete []string
	for {
		i := bytes.IndexByte(buf, '\n')
		if i < 0 {
			break
		}
		complete = append(complete, string(buf[:i]))
		buf = buf[i+1:]
	}
	l.partial = append(l.partial[:0:0], buf...)
	l.mu.Unlock()

	for _, line := range complete {
		l.Log(line)
	}
	return len(p), nil
}

// Lines returns a copy of all stored lines.
func (l *Logger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// Tail returns a copy of the last n lines.
func (l *Logger) Tail(n int) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n > len(l.lines) {
		n = len(l.lines)
	}
	if n <= 0 {
		return nil
	}
	out := make([]string, n)
	copy(out, l.lines[len(l.lines)-n:])
	return out
}

// Slog returns a text-format structured logger writing through l. The handler drops its
// own time attribute since every line is already stamped.
func (l *Logger) Slog(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(l, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}
