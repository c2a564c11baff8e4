package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the configuration or store OSS Index credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			username, _ := cmd.Flags().GetString("username")
			token, _ := cmd.Flags().GetString("token")

			if username == "" && token == "" {
				return c.app.ShowConfig(cmd.OutOrStdout())
			}
			return c.app.Configure(cmd.Context(), username, token)
		},
	}

	cmd.Flags().String("username", "", "OSS Index username (e-mail)")
	cmd.Flags().String("token", "", "OSS Index API token")
	cmd.MarkFlagsRequiredTogether("username", "token")

	return cmd
}
