package cli

import (
	"github.com/spf13/cobra"

	"github.com/movey-network/movey/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// The CLI's logger is attached to the command context before any subcommand
// runs, so commands fetch it with loggerFromContext.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Movey resolves Move package dependencies",
		Long: `Movey reads the [dependencies.movey] section of Move.toml, resolves every
declared dependency against the Movey registry in one batch request, and
writes the results to Move.lock.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.lockCommand())
	root.AddCommand(c.loginCommand())
	root.AddCommand(c.registryCommand())
	root.AddCommand(c.completionCommand())

	return root
}
