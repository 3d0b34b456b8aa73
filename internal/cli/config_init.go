package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rshade/loandash/internal/config"
)

// NewConfigInitCmd creates the config init command for initializing configuration.
// Inside a project (a directory tree with .loandash/, or --project-dir) without
// --global it writes the project configuration; otherwise the global one.
func NewConfigInitCmd() *cobra.Command {
	var (
		force  bool
		global bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates a new configuration file with default values.

Inside a project, creates $PROJECT/.loandash/config.yaml. Otherwise, or with
--global, creates ~/.loandash/config.yaml ($LOANDASH_HOME/config.yaml when set).`,
		Example: `  # Create configuration
  loandash config init

  # Create global configuration
  loandash config init --global

  # Create configuration, overwriting existing
  loandash config init --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			projectDir := config.GetResolvedProjectDir()

			if projectDir != "" && !global {
				return initConfigAt(cmd, filepath.Join(projectDir, "config.yaml"), force)
			}

			dir, err := config.GetConfigDir()
			if err != nil {
				return err
			}
			return initConfigAt(cmd, filepath.Join(dir, "config.yaml"), force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	cmd.Flags().BoolVar(&global, "global", false, "force global configuration init even inside a project")

	return cmd
}

// initConfigAt writes the default configuration to path.
func initConfigAt(cmd *cobra.Command, path string, force bool) error {
	if !force {
		_, err := os.Stat(path)
		if err == nil {
			return errors.New("configuration file already exists, use --force to overwrite")
		}
		if !os.IsNotExist(err) {
			return fmt.Errorf("cannot access config path %s: %w", path, err)
		}
	}

	cfg := config.Defaults()
	cfg.SetConfigPath(path)
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	cmd.Printf("Configuration initialized at %s\n", path)
	return nil
}
