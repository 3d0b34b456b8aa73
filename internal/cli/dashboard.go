package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rshade/loandash/internal/engine"
	"github.com/rshade/loandash/internal/loanapi"
	"github.com/rshade/loandash/internal/web"
)

// dashboardSection is one titled part of the dashboard and the outcome of its fetch.
type dashboardSection struct {
	title    string
	endpoint string
	table    engine.Table
	summary  string
	err      error
}

// NewDashboardCmd creates the dashboard command, which fetches the loan table, the
// model metrics, and optionally a prediction concurrently and prints them together.
func NewDashboardCmd() *cobra.Command {
	var req loanapi.PredictRequest

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show loans, model metrics, and a prediction together",
		Long: `Fetches the first page of loan statistics and the model error metrics at the
same time, plus a prediction when --date is given. A failed fetch only affects
its own section; the command exits non-zero when any section failed.`,
		Example: `  loandash dashboard
  loandash dashboard --date 2025-05-01 --model 2`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			var predict *loanapi.PredictRequest
			if req.Date != "" {
				predict = &req
			}
			sections := loadDashboard(cmd.Context(), client, predict)
			return writeDashboard(cmd, sections)
		},
	}

	cmd.Flags().StringVar(&req.Date, "date", "", "also predict loans for this date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&req.PeakSeason, "peak", false, "the date falls in the peak season")
	cmd.Flags().BoolVar(&req.LowSeason, "low", false, "the date falls in the low season")
	cmd.Flags().IntVar(&req.ModelNo, "model", 1, "model number used for the prediction")

	return cmd
}

// loadDashboard runs every fetch concurrently. Each goroutine records its own
// error so one failure never cancels the others.
func loadDashboard(ctx context.Context, source web.DataSource, predict *loanapi.PredictRequest) []*dashboardSection {
	loans := &dashboardSection{title: "LOAN STATISTICS", endpoint: loanapi.EndpointLoans}
	metrics := &dashboardSection{title: "MODEL ERROR METRICS", endpoint: loanapi.EndpointEvaluate}
	sections := []*dashboardSection{loans, metrics}

	var g errgroup.Group
	g.Go(func() error {
		records, err := source.FetchLoans(ctx)
		switch {
		case loanapi.IsMalformed(err):
			loans.table = engine.InvalidLoanTable()
		case err != nil:
			loans.err = err
		default:
			pager := engine.NewLoanPager(records)
			loans.table = pager.Table()
			loans.summary = pager.Summary()
		}
		return nil
	})
	g.Go(func() error {
		eval, err := source.Evaluate(ctx)
		if err != nil {
			metrics.err = err
			return nil
		}
		metrics.table = engine.MetricsTable(eval)
		return nil
	})

	if predict != nil {
		prediction := &dashboardSection{title: "LOAN PREDICTION", endpoint: loanapi.EndpointPredict}
		sections = append(sections, prediction)
		req := *predict
		g.Go(func() error {
			p, err := source.Predict(ctx, req)
			if err != nil {
				prediction.err = err
				return nil
			}
			prediction.table = engine.PredictionTable(p)
			return nil
		})
	}

	_ = g.Wait()
	return sections
}

func writeDashboard(cmd *cobra.Command, sections []*dashboardSection) error {
	w := cmd.OutOrStdout()
	var errs []error
	for i, s := range sections {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, s.title); err != nil {
			return err
		}
		if s.err != nil {
			errs = append(errs, alert(cmd, s.endpoint, s.err))
			if _, err := fmt.Fprintln(w, "! "+engine.AlertMessage(s.endpoint)); err != nil {
				return err
			}
			continue
		}
		if err := writeSection(w, s); err != nil {
			return err
		}
	}
	return errors.Join(errs...)
}

func writeSection(w io.Writer, s *dashboardSection) error {
	if err := engine.RenderTable(w, s.table); err != nil {
		return err
	}
	if s.summary != "" {
		_, err := fmt.Fprintln(w, s.summary)
		return err
	}
	return nil
}
