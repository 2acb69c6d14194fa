package main

import (
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Command is one subcommand of the highbar CLI.
type Command struct {
	Name    string
	Usage   string
	FlagSet *flag.FlagSet
	Run     func(args []string) error
}

// Registry maps subcommand names to commands.
type Registry struct {
	cmds map[string]*Command
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{cmds: make(map[string]*Command)}
}

// Register adds a command. Flag parsing errors are returned, not fatal.
func (r *Registry) Register(name, usage string, fs *flag.FlagSet, run func(args []string) error) {
	fs.SetOutput(io.Discard)
	r.cmds[name] = &Command{Name: name, Usage: usage, FlagSet: fs, Run: run}
}

// Names returns the registered command names in order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.cmds))
	for name := range r.cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute parses args[0] as the command name and hands the rest to it.
func (r *Registry) Execute(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("missing subcommand (one of %s)", strings.Join(r.Names(), ", "))
	}
	cmd, ok := r.cmds[args[0]]
	if !ok {
		return fmt.Errorf("unknown command: %s", args[0])
	}
	if err := cmd.FlagSet.Parse(args[1:]); err != nil {
		return fmt.Errorf("%s: %w (usage: %s)", cmd.Name, err, cmd.Usage)
	}
	return cmd.Run(cmd.FlagSet.Args())
}

// Usage writes a one-line summary per command.
func (r *Registry) Usage(w io.Writer) {
	fmt.Fprintln(w, "usage: highbar [-config file] [-log-level level] <command> [flags] [args]")
	for _, name := range r.Names() {
		fmt.Fprintf(w, "  %s\n", r.cmds[name].Usage)
	}
}
