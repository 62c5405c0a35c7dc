package cli

import (
	"os"

	"github.com/brettbedarf/elfshelf/internal/util"
	"github.com/spf13/cobra"
)

func newRunCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run <script>",
		Short: "Execute a script and print each command's output",
		Long: `Execute a script non-interactively. Every line runs exactly as if typed
into the shell; refused commands print their message and the script goes on.
An exit line stops the script.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := util.GetLogger("CLI.Run")

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			sh, err := opts.newShell(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			logger.Debug().Str("script", args[0]).Msg("Running script")
			return sh.Run(f, cmd.OutOrStdout())
		},
	}
}
