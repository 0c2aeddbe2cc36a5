package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/movey-network/movey/pkg/deps"
	"github.com/movey-network/movey/pkg/lockfile"
)

func (c *CLI) lockCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lock",
		Short: "Inspect Move.lock",
	}
	cmd.AddCommand(c.lockShowCommand())
	return cmd
}

func (c *CLI) lockShowCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the packages recorded in Move.lock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(dir, deps.LockFile)
			lock, err := lockfile.Read(path)
			if err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Debug("read lock file", "path", path, "packages", lock.Len())

			if lock.Len() == 0 {
				printInfo("No packages locked in %s", path)
				return nil
			}
			return writeLockTable(cmd.OutOrStdout(), lock)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Move package root directory")
	return cmd
}
