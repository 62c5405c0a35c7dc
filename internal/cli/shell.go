package cli

import (
	"github.com/brettbedarf/elfshelf/internal/tui"
	"github.com/spf13/cobra"
)

func newShellCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start the interactive shell (default)",
		Long: `Start the interactive shell. On a terminal this is a full screen prompt
with completion; piped input is executed line by line.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShell(cmd, opts)
		},
	}
}

func runShell(cmd *cobra.Command, opts *options) error {
	sh, err := opts.newShell(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if tui.IsInteractive() {
		return tui.Run(sh)
	}
	return sh.Run(cmd.InOrStdin(), cmd.OutOrStdout())
}
