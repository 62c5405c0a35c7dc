// Package cli wires the shell, the analytics and the FUSE view into the
// elfshelf command line.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/brettbedarf/elfshelf/config"
	"github.com/brettbedarf/elfshelf/internal/util"
	"github.com/brettbedarf/elfshelf/script"
	"github.com/brettbedarf/elfshelf/session"
	"github.com/brettbedarf/elfshelf/shell"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// options are the persistent flags shared by every command
type options struct {
	configPath string
	seed       string
	verbose    int
	capacity   uint64
	noColor    bool

	cfg *config.Config
}

// NewRootCmd builds the command tree. Without a subcommand it starts the
// shell.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   config.AppName,
		Short: "An emulated disk for the elves' device",
		Long: `elfshelf emulates a small disk as an in-memory directory tree.

Create directories and sized files, walk around with cd and ls, remove
subtrees and ask how much space they take up. Scripts replay the same
commands for bulk loading, and the tree can be mounted read-only.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShell(cmd, opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to a .yaml or .json config file")
	flags.StringVarP(&opts.seed, "seed", "s", "", "Script replayed into the tree at startup")
	flags.IntVarP(&opts.verbose, "verbose", "v", config.WarnVerbose,
		"Log verbosity level between 1 (error) and 5 (trace)")
	flags.Uint64Var(&opts.capacity, "capacity", config.DefaultCapacity, "Disk capacity in bytes")
	flags.BoolVar(&opts.noColor, "no-color", false, "Render plain text")

	root.AddCommand(
		newShellCmd(opts),
		newRunCmd(opts),
		newAnalyzeCmd(opts),
		newMountCmd(opts),
	)
	return root
}

// Execute runs the command line in os.Args
func Execute() error {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
		return err
	}
	return nil
}

// load builds the config from the file, then applies explicitly set flags
func (o *options) load(cmd *cobra.Command) error {
	path := o.configPath
	if path == "" {
		path, _ = config.DefaultConfigFile()
	}

	override := &config.ConfigOverride{}
	if path != "" {
		fileOverride, err := config.LoadConfigOverrideFile(path)
		if err != nil {
			return fmt.Errorf("config %s: %w", path, err)
		}
		override = fileOverride
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		override.SeedScript = &o.seed
	}
	if flags.Changed("verbose") || override.LogLvl == nil {
		override.LogLvl = &o.verbose
	}
	if flags.Changed("capacity") {
		override.Capacity = &o.capacity
	}
	if flags.Changed("no-color") {
		override.NoColor = &o.noColor
	}

	cfg := config.NewConfig(override)
	if err := cfg.Validate(); err != nil {
		return err
	}
	o.cfg = cfg

	util.InitializeLogger(cfg.LogLvl, nil)
	util.GetLogger("CLI").Debug().
		Str("config", path).
		Str("seed", cfg.SeedScript).
		Uint64("capacity", cfg.Capacity).
		Msg("Configuration loaded")
	return nil
}

// newShell creates a session, replaying the seed script when configured
func (o *options) newShell(out io.Writer) (*shell.Shell, error) {
	sh := shell.New(session.New(o.cfg), o.renderer(out))
	if o.cfg.SeedScript == "" {
		return sh, nil
	}

	cmds, err := script.ParseFile(o.cfg.SeedScript)
	if err != nil {
		return nil, fmt.Errorf("seed script: %w", err)
	}
	if err := sh.Load(cmds); err != nil {
		return nil, fmt.Errorf("seed script %s: %w", o.cfg.SeedScript, err)
	}
	return sh, nil
}

// renderer styles output only for a color-capable terminal
func (o *options) renderer(out io.Writer) shell.Renderer {
	if o.cfg.NoColor || !isTerminal(out) {
		return shell.PlainRenderer{}
	}
	return shell.NewStyledRenderer()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
