package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/loandash/internal/engine"
	"github.com/rshade/loandash/internal/loanapi"
	"github.com/rshade/loandash/internal/tui"
)

// NewPredictCmd creates the predict command, which requests a loan prediction for a date.
func NewPredictCmd() *cobra.Command {
	var (
		req    loanapi.PredictRequest
		output string
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the number of loans for a date",
		Example: `  # Predict with model 1
  loandash predict --date 2025-05-01

  # Predict during peak season with model 3
  loandash predict --date 2025-12-20 --peak --model 3`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := resolveOutputFormat(output)
			if err != nil {
				return err
			}
			client, err := newClient()
			if err != nil {
				return err
			}

			prediction, err := client.Predict(cmd.Context(), req)
			if err != nil {
				if errors.Is(err, loanapi.ErrInvalidRequest) {
					return fmt.Errorf("invalid prediction request: %w", err)
				}
				return alert(cmd, loanapi.EndpointPredict, err)
			}

			w := cmd.OutOrStdout()
			if format != OutputTable {
				return renderStructured(w, format, prediction)
			}
			table := engine.PredictionTable(prediction)
			if tui.DetectOutputMode(false, false, false) != tui.OutputModePlain {
				_, err = fmt.Fprintln(w, tui.RenderStyledTable(table))
				return err
			}
			return engine.RenderTable(w, table)
		},
	}

	cmd.Flags().StringVar(&req.Date, "date", "", "prediction date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&req.PeakSeason, "peak", false, "the date falls in the peak season")
	cmd.Flags().BoolVar(&req.LowSeason, "low", false, "the date falls in the low season")
	cmd.Flags().IntVar(&req.ModelNo, "model", 1, "model number")
	addOutputFlag(cmd, &output)
	_ = cmd.MarkFlagRequired("date")

	return cmd
}
