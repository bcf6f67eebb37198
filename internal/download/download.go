// Package download fetches remote image files into a local cache directory.
package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const userAgent = "solarsystem/1.0"

// Client is the HTTP client used by Fetch.
var Client = &http.Client{Timeout: 60 * time.Second}

// IsURL reports whether path names an http(s) resource.
func IsURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// Fetch downloads url into destDir and returns the saved path. The file name is derived
// from the URL; the extension from the URL or the Content-Type. If a file for url already
// exists in destDir it is returned without a request.
func Fetch(ctx context.Context, url, destDir string) (string, error) {
	name := CacheName(url)
	if ext := extensionFromURL(url); ext != "" {
		saved := filepath.Join(destDir, name+ext)
		if _, err := os.Stat(saved); err == nil {
			return saved, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download %s: HTTP %d", url, resp.StatusCode)
	}

	ext := extensionFromURL(url)
	if ext == "" {
		ext = extensionFromContentType(resp.Header.Get("Content-Type"))
	}
	if ext == "" {
		return "", fmt.Errorf("download %s: not an image (%q)", url, resp.Header.Get("Content-Type"))
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	saved := filepath.Join(destDir, name+ext)
	tmp, err := os.CreateTemp(destDir, name+"-*.part")
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	_, err = io.Copy(tmp, resp.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp.Name(), saved)
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("download: %w", err)
	}
	return saved, nil
}

var safeNameRe = regexp.MustCompile(`[^a-zA-Z0-9_.-]+`)

// CacheName maps url to a file-system safe base name without extension.
func CacheName(url string) string {
	u := strings.TrimPrefix(strings.TrimPrefix(url, "https://"), "http://")
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	u = strings.TrimSuffix(u, filepath.Ext(u))
	name := strings.Trim(safeNameRe.ReplaceAllString(u, "_"), "_.")
	if name == "" {
		return "download"
	}
	if len(name) > 96 {
		name = name[len(name)-96:]
	}
	return name
}

func extensionFromContentType(ct string) string {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	switch ct {
	case "image/png":
		return ".png"
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/bmp":
		return ".bmp"
	}
	return ""
}

func extensionFromURL(url string) string {
	path := url
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png", ".jpg", ".jpeg", ".bmp":
		return ext
	}
	return ""
}
