package cli

import (
	"github.com/spf13/cobra"

	"github.com/spec-kit/helpdesk-service/internal/client"
	"github.com/spec-kit/helpdesk-service/internal/config"
)

// RootCmd builds the helpdeskctl command tree against the configured API.
func RootCmd(cfg config.ClientConfig) *cobra.Command {
	api := client.New(cfg.BaseURL, cfg.RequestTimeout())

	rootCmd := &cobra.Command{
		Use:           "helpdeskctl",
		Short:         "Terminal client for the helpdesk escalation API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(RulesCmd(api))
	rootCmd.AddCommand(RolesCmd(api))

	return rootCmd
}
