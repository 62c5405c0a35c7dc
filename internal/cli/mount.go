package cli

import (
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/brettbedarf/elfshelf/internal/util"
	"github.com/brettbedarf/elfshelf/mount"
	"github.com/brettbedarf/elfshelf/session"
	"github.com/spf13/cobra"
)

func newMountCmd(opts *options) *cobra.Command {
	var umount bool

	cmd := &cobra.Command{
		Use:   "mount <dir>",
		Short: "Mount the tree read-only with FUSE",
		Long: `Seed the tree and mount it read-only at dir. Files read as zeros up to
their size. The filesystem is unmounted on SIGINT, SIGTERM or SIGQUIT.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := util.GetLogger("CLI.Mount")
			mnt := args[0]

			// Try unmount if requested
			if umount {
				// we ignore error here if not already mounted
				exec.Command("fusermount", "-u", mnt).Run() // nolint:errcheck
			}

			sh, err := opts.newShell(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			srv := mount.New(session.NewShared(sh.Session()), opts.cfg)
			if err := srv.Serve(mnt); err != nil {
				return err
			}

			// Setup signal handling for graceful shutdown
			signalChan := make(chan os.Signal, 1)
			signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
			defer signal.Stop(signalChan)

			unmounted := make(chan struct{})
			go func() {
				srv.Wait()
				close(unmounted)
			}()

			select {
			case sig := <-signalChan:
				logger.Info().Str("signal", sig.String()).Msg("Received signal, unmounting filesystem")
			case <-unmounted:
				logger.Info().Msg("Filesystem unmounted externally")
				return nil
			}

			if err := srv.Unmount(); err != nil {
				logger.Error().Err(err).Msg("Failed to unmount filesystem")
				return err
			}
			logger.Info().Msg("Filesystem unmounted successfully")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&umount, "umount", "u", false,
		"Unmount the dir first if needed before mounting again. Useful for debuggers that don't exit properly.")
	return cmd
}
