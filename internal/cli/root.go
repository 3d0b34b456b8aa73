package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/loandash/internal/config"
	"github.com/rshade/loandash/internal/logging"
)

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the loandash CLI.
// It wires up configuration, logging, and the loans, predict, evaluate, dashboard,
// serve, and config subcommands.
func NewRootCmd(ver string) *cobra.Command {
	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:           "loandash",
		Short:         "Library loan statistics and prediction dashboard",
		Long:          "loandash: browse loan statistics, request loan predictions, and compare model error metrics",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadConfig(cmd); err != nil {
				return err
			}
			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("base-url", "", "prediction service URL (overrides config and LOANDASH_BASE_URL)")
	cmd.PersistentFlags().String("project-dir", "", "project directory containing .loandash/config.yaml")
	cmd.AddCommand(
		NewLoansCmd(), NewPredictCmd(), NewEvaluateCmd(),
		NewDashboardCmd(), NewServeCmd(), newConfigCmd(),
	)

	return cmd
}

// loadConfig resolves the project directory, loads the global configuration,
// and applies flag overrides.
func loadConfig(cmd *cobra.Command) error {
	projectFlag, _ := cmd.Flags().GetString("project-dir")
	startDir, err := os.Getwd()
	if err != nil {
		startDir = "."
	}
	config.SetResolvedProjectDir(config.ResolveProjectDir(cmd.Context(), projectFlag, startDir))

	cfg := config.GetGlobalConfig()
	if cmd.Flags().Changed("base-url") {
		cfg.Service.BaseURL, _ = cmd.Flags().GetString("base-url")
	}
	return nil
}

const rootCmdExample = `  # Show the first page of loan statistics
  loandash loans

  # Show page 3, most borrowed first
  loandash loans --page 3 --sort borrowed_count:desc

  # Predict loans for a date with model 2 during peak season
  loandash predict --date 2025-05-01 --peak --model 2

  # Compare model error metrics
  loandash evaluate --output yaml

  # Fetch everything at once
  loandash dashboard

  # Serve the web dashboard
  loandash serve --addr :8080

  # Initialize configuration
  loandash config init`

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigValidateCmd(), NewConfigShowCmd())
	return cmd
}
