package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/loandash/internal/engine"
	"github.com/rshade/loandash/internal/loanapi"
	"github.com/rshade/loandash/internal/tui"
)

// NewEvaluateCmd creates the evaluate command, which shows the error metrics of every model.
func NewEvaluateCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Show model error metrics (MSE, RMSE, MAE, R²)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := resolveOutputFormat(output)
			if err != nil {
				return err
			}
			client, err := newClient()
			if err != nil {
				return err
			}

			eval, err := client.Evaluate(cmd.Context())
			if err != nil {
				return alert(cmd, loanapi.EndpointEvaluate, err)
			}

			w := cmd.OutOrStdout()
			if format != OutputTable {
				return renderStructured(w, format, eval)
			}
			table := engine.MetricsTable(eval)
			if tui.DetectOutputMode(false, false, false) != tui.OutputModePlain {
				_, err = fmt.Fprintln(w, tui.RenderStyledTable(table))
				return err
			}
			return engine.RenderTable(w, table)
		},
	}

	addOutputFlag(cmd, &output)
	return cmd
}
