package shell

import (
	"slices"
	"strings"
	"sync"
)

// Command describes one shell command
type Command struct {
	Name    string
	Usage   string // i.e. "mkdir <path>"
	Summary string
	MinArgs int
	MaxArgs int
	Run     func(sh *Shell, args []string) (Output, error)
}

var (
	mu       sync.RWMutex
	commands = map[string]Command{}
)

func init() {
	RegisterBuiltins()
}

// Register ties a command to its name, replacing any previous one
func Register(cmd Command) {
	mu.Lock()
	commands[cmd.Name] = cmd
	mu.Unlock()
}

// Lookup returns the command registered under name
func Lookup(name string) (Command, bool) {
	mu.RLock()
	defer mu.RUnlock()
	cmd, ok := commands[name]
	return cmd, ok
}

// Commands returns every registered command sorted by name
func Commands() []Command {
	mu.RLock()
	all := make([]Command, 0, len(commands))
	for _, cmd := range commands {
		all = append(all, cmd)
	}
	mu.RUnlock()
	slices.SortFunc(all, func(a, b Command) int { return strings.Compare(a.Name, b.Name) })
	return all
}

// Names returns the names of every registered command, sorted
func Names() []string {
	all := Commands()
	names := make([]string, len(all))
	for i, cmd := range all {
		names[i] = cmd.Name
	}
	return names
}
