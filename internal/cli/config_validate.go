package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/loandash/internal/config"
)

// NewConfigValidateCmd creates the config validate command for validating configuration.
func NewConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the effective configuration",
		Long: `Loads the configuration from files, .env, and the environment, and checks
every value: the service URL, breaker settings, output format, log level and
format, and the web listen address.`,
		Example: `  loandash config validate`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("configuration validation failed: %w", err)
			}
			cmd.Println("Configuration is valid")
			return nil
		},
	}
}
