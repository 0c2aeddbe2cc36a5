package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/movey-network/movey/pkg/errors"
)

// tokenEnv overrides the saved token when set.
const tokenEnv = "MOVEY_REGISTRY_TOKEN"

func (c *CLI) loginCommand() *cobra.Command {
	var registry string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Save a Movey API token",
		Long: `Login reads an API token from standard input and stores it in
movey_credential.toml under $MOVE_HOME (default ~/.move).

With --registry, the registry URL is saved alongside the token and used by
later resolve runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := c.registryURL(registry)
			if err != nil {
				return err
			}
			store, err := c.credentialStore()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Please paste the API Token found on %s/settings/tokens below\n", url)
			token, err := readToken(cmd.InOrStdin())
			if err != nil {
				return err
			}
			saved := ""
			if registry != "" {
				saved = url
			}
			if err := store.Save(token, saved); err != nil {
				return err
			}

			loggerFromContext(cmd.Context()).Debug("saved token", "path", store.Path())
			printSuccess("Token saved")
			printFile(store.Path())
			if os.Getenv(tokenEnv) != "" {
				printWarning("%s is set and takes precedence over the saved token", tokenEnv)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&registry, "registry", "", "registry base URL to save with the token")
	return cmd
}

// readToken reads one line. A final line without a newline is accepted.
func readToken(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "Error reading input: %v", err)
	}
	return strings.TrimSpace(line), nil
}
