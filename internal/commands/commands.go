package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
)

// ErrUnknown is returned by Execute for a name nobody registered.
var ErrUnknown = errors.New("unknown command")

// Command is a console command with its own flags. Run receives the positional arguments
// left after flag parsing.
type Command struct {
	Name    string
	Usage   string
	FlagSet *flag.FlagSet
	Run     func(args []string) error
}

// Registry holds commands by name. Add commands with Register; run with Execute.
type Registry struct {
	cmds map[string]*Command
}

// NewRegistry returns an empty command registry.
func NewRegistry() *Registry {
	return &Registry{cmds: make(map[string]*Command)}
}

// Register adds a command. A nil fs gets an empty flag set. Flag errors are returned from
// Execute and never printed.
func (r *Registry) Register(name, usage string, fs *flag.FlagSet, run func(args []string) error) {
	if fs == nil {
		fs = flag.NewFlagSet(name, flag.ContinueOnError)
	}
	fs.SetOutput(io.Discard)
	r.cmds[name] = &Command{Name: name, Usage: usage, FlagSet: fs, Run: run}
}

// Parse splits a console line into tokens. Blank lines yield nil.
func Parse(line string) []string {
	return strings.Fields(line)
}

// Execute runs the command in args[0] with args[1:] as flag/positional arguments.
func (r *Registry) Execute(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing command")
	}
	cmd, ok := r.cmds[args[0]]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknown, args[0])
	}
	cmd.FlagSet.VisitAll(func(f *flag.Flag) { _ = f.Value.Set(f.DefValue) })
	if err := cmd.FlagSet.Parse(args[1:]); err != nil {
		return fmt.Errorf("%s: %w (usage: %s)", cmd.Name, err, cmd.Usage)
	}
	return cmd.Run(cmd.FlagSet.Args())
}

// Help returns one usage line per command, sorted by name.
func (r *Registry) Help() []string {
	out := make([]string, 0, len(r.cmds))
	for _, c := range r.cmds {
		out = append(out, c.Usage)
	}
	sort.Strings(out)
	return out
}
