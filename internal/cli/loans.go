package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/loandash/internal/cli/pagination"
	"github.com/rshade/loandash/internal/engine"
	"github.com/rshade/loandash/internal/loanapi"
	"github.com/rshade/loandash/internal/tui"
)

// loansTitle heads the loan table in styled output.
const loansTitle = "LOAN STATISTICS"

// NewLoansCmd creates the loans command, which shows one page of loan records.
func NewLoansCmd() *cobra.Command {
	params := pagination.NewPaginationParams()
	var (
		output string
		plain  bool
	)

	cmd := &cobra.Command{
		Use:   "loans",
		Short: "Show loan statistics page by page",
		Long: `Fetches the loan statistics dataset and shows one page of ten records.

On an interactive terminal, without --page and with table output, an interactive
pager is started. Otherwise the requested page is printed with its page controls.`,
		Example: `  # Show the first page
  loandash loans

  # Show page 4 as JSON
  loandash loans --page 4 --output json

  # Sort by loan count, highest first
  loandash loans --sort borrowed_count:desc`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := params.Validate(); err != nil {
				return err
			}
			format, err := resolveOutputFormat(output)
			if err != nil {
				return err
			}

			client, err := newClient()
			if err != nil {
				return err
			}
			fetch := sortedFetcher(client, params)

			if format == OutputTable && !cmd.Flags().Changed("page") &&
				tui.DetectOutputMode(plain, false, false) == tui.OutputModeInteractive {
				return runLoanPager(cmd.Context(), fetch)
			}

			return renderLoans(cmd, fetch, params.Page, format, plain)
		},
	}

	params.AddFlags(cmd)
	addOutputFlag(cmd, &output)
	cmd.Flags().BoolVar(&plain, "plain", false, "disable styling and the interactive pager")

	return cmd
}

// sortedFetcher fetches the dataset and applies the requested sort.
func sortedFetcher(client *loanapi.Client, params *pagination.PaginationParams) tui.LoanFetcher {
	sorter := pagination.NewLoanSorter()
	return func(ctx context.Context) ([]loanapi.LoanRecord, error) {
		records, err := client.FetchLoans(ctx)
		if err != nil {
			return nil, err
		}
		if params.IsSorted() {
			records = sorter.Sort(records, params.SortField, params.SortOrder)
		}
		return records, nil
	}
}

func runLoanPager(ctx context.Context, fetch tui.LoanFetcher) error {
	p := tea.NewProgram(tui.NewLoanPagerModel(ctx, fetch), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run interactive pager: %w", err)
	}
	return nil
}

// renderLoans fetches the dataset and writes the requested page.
// A dataset with an invalid format is shown as an inline notice, not an alert.
func renderLoans(cmd *cobra.Command, fetch tui.LoanFetcher, page int, format string, plain bool) error {
	ctx := cmd.Context()
	w := cmd.OutOrStdout()

	records, err := fetch(ctx)
	invalid := false
	if err != nil {
		if !loanapi.IsMalformed(err) {
			return alert(cmd, loanapi.EndpointLoans, err)
		}
		logger.Warn().Ctx(ctx).Err(err).Msg("loan data has an invalid format")
		invalid = true
		records = nil
	}

	pager := engine.NewLoanPager(records)
	if !invalid {
		if err = pager.Controller().GoTo(page); err != nil {
			if errors.Is(err, pagination.ErrPageOutOfRange) {
				return fmt.Errorf("page %d: %w (%d pages)", page, err, pager.Controller().TotalPages())
			}
			return err
		}
	}

	if format != OutputTable {
		return renderStructured(w, format, pager.Document())
	}

	table := pager.Table()
	if invalid {
		table = engine.InvalidLoanTable()
	}

	if !plain && tui.DetectOutputMode(false, false, false) != tui.OutputModePlain {
		_, err = fmt.Fprint(w, tui.RenderStyledPage(loansTitle, table, pager.Summary(), pager.Controls()))
		return err
	}
	return writePlainPage(w, table, pager.Summary(), pager.Controls())
}

func writePlainPage(w io.Writer, table engine.Table, summary string, controls pagination.Controls) error {
	if err := engine.RenderTable(w, table); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, summary); err != nil {
		return err
	}
	return engine.RenderControls(w, controls)
}
