package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/loandash/internal/config"
)

// NewConfigShowCmd creates the config show command, which prints the effective configuration.
func NewConfigShowCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Example: `  loandash config show
  loandash config show --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format := OutputYAML
			if output == OutputJSON {
				format = OutputJSON
			}
			return renderStructured(cmd.OutOrStdout(), format, config.GetGlobalConfig())
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", OutputYAML, "output format: yaml or json")
	return cmd
}
