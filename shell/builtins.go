package shell

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/brettbedarf/elfshelf"
	"github.com/brettbedarf/elfshelf/filesystem"
	"github.com/brettbedarf/elfshelf/internal/util"
	"github.com/dustin/go-humanize"
)

// TreeFlag switches du to the nested tree view
const TreeFlag = "-t"

// RegisterBuiltins registers all built-in commands by default
// or only the specific ones if names are provided
func RegisterBuiltins(names ...string) {
	builtins := []Command{
		{Name: "mkdir", Usage: "mkdir <path>", Summary: "Create a directory", MinArgs: 1, MaxArgs: 1, Run: mkdir},
		{Name: "fallocate", Usage: "fallocate <path> <size>", Summary: "Create a file of the given size", MinArgs: 2, MaxArgs: 2, Run: fallocate},
		{Name: "cd", Usage: "cd [path]", Summary: "Change the current directory", MinArgs: 0, MaxArgs: 1, Run: cd},
		{Name: "ls", Usage: "ls [path]", Summary: "List a directory", MinArgs: 0, MaxArgs: 1, Run: ls},
		{Name: "rm", Usage: "rm <path>", Summary: "Remove a file or a directory and its contents", MinArgs: 1, MaxArgs: 1, Run: rm},
		{Name: "du", Usage: "du [-t]", Summary: "Show disk usage, -t as a tree", MinArgs: 0, MaxArgs: 1, Run: du},
		{Name: "pwd", Usage: "pwd", Summary: "Print the current directory", MinArgs: 0, MaxArgs: 0, Run: pwd},
		{Name: "analyze", Usage: "analyze [threshold] [target]", Summary: "Sum small directories and find the smallest one to delete; omitted values come from the config", MinArgs: 0, MaxArgs: 2, Run: analyze},
		{Name: "reset", Usage: "reset", Summary: "Remove everything and start over", MinArgs: 0, MaxArgs: 0, Run: reset},
		{Name: "help", Usage: "help", Summary: "Show this help", MinArgs: 0, MaxArgs: 0, Run: help},
		{Name: "exit", Usage: "exit", Summary: "Leave the shell", MinArgs: 0, MaxArgs: 0, Run: exit},
	}

	for _, cmd := range builtins {
		if len(names) == 0 || slices.Contains(names, cmd.Name) {
			Register(cmd)
		}
	}
}

func mkdir(sh *Shell, args []string) (Output, error) {
	id, err := sh.sess.MakeDirectory(args[0])
	switch {
	case err == nil:
		return sh.text(sh.r.Created(id)), nil
	case errors.Is(err, elfshelf.ErrAlreadyExists):
		return sh.abort(fmt.Sprintf("Path %s already exists.", sh.display(args[0]))), err
	case errors.Is(err, elfshelf.ErrNotFound):
		return sh.abort(fmt.Sprintf("No such path %s", sh.display(args[0]).Parent())), err
	default:
		return sh.fail(err)
	}
}

func fallocate(sh *Shell, args []string) (Output, error) {
	size, err := parseSize(args[1])
	if err != nil {
		return sh.abort(fmt.Sprintf("Invalid size '%s'", args[1])), err
	}

	id, err := sh.sess.Allocate(args[0], size)
	switch {
	case err == nil:
		return sh.text(sh.r.Created(id)), nil
	case errors.Is(err, elfshelf.ErrAlreadyExists):
		return sh.abort(fmt.Sprintf("File %s already exists", sh.display(args[0]).AsFile())), err
	case errors.Is(err, elfshelf.ErrNotFound):
		return sh.abort(fmt.Sprintf("No such path %s", sh.display(args[0]).Parent())), err
	case errors.Is(err, elfshelf.ErrQuotaExceeded):
		return sh.abort(fmt.Sprintf("Not enough space for %s: %d bytes needed, %d bytes available",
			sh.display(args[0]).AsFile(), size, sh.sess.FS().Available())), err
	default:
		return sh.fail(err)
	}
}

func cd(sh *Shell, args []string) (Output, error) {
	id, err := sh.sess.ChangeDirectory(optArg(args))
	switch {
	case err == nil:
		return sh.text("Changing path to " + sh.r.Path(id)), nil
	case errors.Is(err, elfshelf.ErrNotFound):
		return sh.abort(fmt.Sprintf("No such path %s", sh.display(optArg(args)))), err
	default:
		return sh.fail(err)
	}
}

func ls(sh *Shell, args []string) (Output, error) {
	listing, err := sh.sess.List(optArg(args))
	switch {
	case err == nil:
		return sh.text(sh.r.Listing(listing)), nil
	case errors.Is(err, elfshelf.ErrNotFound):
		return sh.abort(fmt.Sprintf("No such path %s", sh.display(optArg(args)))), err
	default:
		return sh.fail(err)
	}
}

func rm(sh *Shell, args []string) (Output, error) {
	removal, err := sh.sess.Remove(args[0])
	switch {
	case err == nil:
		return sh.text(sh.r.Removal(removal, sh.sess.FS().Available())), nil
	case errors.Is(err, elfshelf.ErrRootRemovalForbidden):
		return sh.text("Come on... You know what you're doing ;)"), err
	case errors.Is(err, elfshelf.ErrNotFound):
		return sh.abort(fmt.Sprintf("No such path or file '%s'", args[0])), err
	default:
		return sh.fail(err)
	}
}

func du(sh *Shell, args []string) (Output, error) {
	asTree := false
	if flag := optArg(args); flag != "" {
		if flag != TreeFlag {
			return sh.abort("Usage: du [-t]"), fmt.Errorf("du flag %q: %w", flag, ErrUsage)
		}
		asTree = true
	}

	usage := sh.sess.DiskUsage()
	if !asTree {
		return sh.text(sh.r.Usage(usage)), nil
	}

	var rows []TreeRow
	err := sh.sess.FS().Walk(filesystem.Root(), func(info elfshelf.NodeInfo, depth int) error {
		rows = append(rows, TreeRow{Info: info, Depth: depth})
		return nil
	})
	if err != nil {
		return sh.fail(err)
	}
	return sh.text(sh.r.UsageTree(rows)), nil
}

func pwd(sh *Shell, _ []string) (Output, error) {
	return sh.text(sh.r.Path(sh.sess.WorkingDirectory())), nil
}

func analyze(sh *Shell, args []string) (Output, error) {
	cfg := sh.sess.Config()
	limits := [2]uint64{cfg.SmallThreshold, cfg.TargetFree}
	for i, arg := range args {
		v, err := parseSize(arg)
		if err != nil {
			return sh.abort(fmt.Sprintf("Invalid size '%s'", arg)), err
		}
		limits[i] = v
	}
	return sh.text(sh.r.Analysis(sh.sess.Analyze(limits[0], limits[1]))), nil
}

func reset(sh *Shell, _ []string) (Output, error) {
	sh.sess.Reset()
	return sh.text("Everything is gone. Back to " + sh.r.Path(filesystem.Root())), nil
}

func help(sh *Shell, _ []string) (Output, error) {
	return sh.text(sh.r.Help(sh.sess.Stats(), Commands())), nil
}

func exit(_ *Shell, _ []string) (Output, error) {
	return Output{Signal: SignalExit}, nil
}

// display resolves arg against the current directory for messages; unparsable
// text falls back to the current directory
func (sh *Shell) display(arg string) filesystem.Identity {
	id, err := filesystem.Resolve(arg, sh.sess.WorkingDirectory())
	if err != nil {
		return sh.sess.WorkingDirectory()
	}
	return id
}

func (sh *Shell) fail(err error) (Output, error) {
	logger := util.GetLogger("Shell.Exec")
	logger.Debug().Err(err).Msg("Command failed")
	return sh.abort(err.Error()), err
}

func optArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// parseSize accepts plain byte counts as well as "10kB" or "1.5MiB"
func parseSize(arg string) (uint64, error) {
	if strings.HasPrefix(arg, "-") {
		return 0, fmt.Errorf("size %q is negative: %w", arg, ErrUsage)
	}
	size, err := humanize.ParseBytes(arg)
	if err != nil {
		return 0, fmt.Errorf("size %q: %v: %w", arg, err, ErrUsage)
	}
	return size, nil
}
