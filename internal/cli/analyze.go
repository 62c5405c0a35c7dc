package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAnalyzeCmd(opts *options) *cobra.Command {
	var threshold, target uint64

	cmd := &cobra.Command{
		Use:   "analyze [script]",
		Short: "Load a script and report directory sizes",
		Long: `Load a script (or the seed script) and report the total size of all
small directories, and the smallest directory whose removal frees enough
space for the target.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.cfg.SeedScript = args[0]
			}
			if opts.cfg.SeedScript == "" {
				return fmt.Errorf("nothing to analyze: pass a script or --seed")
			}

			if !cmd.Flags().Changed("threshold") {
				threshold = opts.cfg.SmallThreshold
			}
			if !cmd.Flags().Changed("target") {
				target = opts.cfg.TargetFree
			}

			sh, err := opts.newShell(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			out, err := sh.Exec(fmt.Sprintf("analyze %d %d", threshold, target))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out.Text)
			return err
		},
	}

	cmd.Flags().Uint64Var(&threshold, "threshold", 0, "Small directory bound in bytes, exclusive (config value when unset)")
	cmd.Flags().Uint64Var(&target, "target", 0, "Free space wanted in bytes (config value when unset)")
	return cmd
}
