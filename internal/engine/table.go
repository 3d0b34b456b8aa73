package engine

import (
	"github.com/rshade/loandash/internal/loanapi"
)

// Table identifiers, shared by every renderer.
const (
	LoanTableID       = "loanDataTable"
	PredictionTableID = "predictTable"
	MetricsTableID    = "errorTable"

	// LoanPaginationID is the container the loan table's page controls render into.
	LoanPaginationID = "loanPagination"
)

// Inline notices shown instead of data rows.
const (
	NoticeNoDataForPage = "No data available for this page"
	NoticeInvalidFormat = "No data available or invalid format"
)

// metricColumnCount is the number of metric columns an error row spans.
const metricColumnCount = 4

// Column headings.
//
//nolint:gochecknoglobals // Read-only column definitions.
var (
	LoanColumns       = []string{"Month", "Book ID", "Total Loans"}
	PredictionColumns = []string{"Date", "Prediction"}
	MetricsColumns    = []string{"Model", "MSE", "RMSE", "MAE", "R²"}
)

// Cell is one table cell. Span is the number of columns it covers, at least 1.
type Cell struct {
	Text string `json:"text" yaml:"text"`
	Span int    `json:"span" yaml:"span"`
}

// TextCell returns a single-column cell.
func TextCell(text string) Cell {
	return Cell{Text: text, Span: 1}
}

// SpanCell returns a cell covering span columns.
func SpanCell(text string, span int) Cell {
	return Cell{Text: text, Span: max(span, 1)}
}

// Row is one table row.
type Row struct {
	Cells []Cell `json:"cells" yaml:"cells"`
}

// Text returns the text of every cell in order.
func (r Row) Text() []string {
	out := make([]string, len(r.Cells))
	for i, c := range r.Cells {
		out[i] = c.Text
	}
	return out
}

// Table is the render model consumed by the text, terminal and HTML renderers.
type Table struct {
	ID      string   `json:"id"      yaml:"id"`
	Columns []string `json:"columns" yaml:"columns"`
	Rows    []Row    `json:"rows"    yaml:"rows"`
}

// noticeRow returns a single row whose only cell spans every column.
func noticeRow(text string, columns int) Row {
	return Row{Cells: []Cell{SpanCell(text, columns)}}
}

// LoanTable renders one page of loan records.
// An empty page yields a single "No data available for this page" row.
func LoanTable(records []loanapi.LoanRecord) Table {
	t := Table{ID: LoanTableID, Columns: LoanColumns}
	if len(records) == 0 {
		t.Rows = []Row{noticeRow(NoticeNoDataForPage, len(LoanColumns))}
		return t
	}

	t.Rows = make([]Row, 0, len(records))
	for _, r := range records {
		t.Rows = append(t.Rows, Row{Cells: []Cell{
			TextCell(FormatLoanDate(r)),
			TextCell(FormatBookID(r.BookID)),
			TextCell(FormatCount(r.BorrowedCount)),
		}})
	}
	return t
}

// InvalidLoanTable renders the loan table for a response that was missing its data array.
func InvalidLoanTable() Table {
	return Table{
		ID:      LoanTableID,
		Columns: LoanColumns,
		Rows:    []Row{noticeRow(NoticeInvalidFormat, len(LoanColumns))},
	}
}

// PredictionTable renders a single prediction.
func PredictionTable(p loanapi.Prediction) Table {
	return Table{
		ID:      PredictionTableID,
		Columns: PredictionColumns,
		Rows: []Row{{Cells: []Cell{
			TextCell(p.Date),
			TextCell(p.Value.Text()),
		}}},
	}
}

// MetricsTable renders model error metrics, one row per model.
// A model that reported an error gets a row whose error cell spans the metric columns.
func MetricsTable(eval loanapi.Evaluation) Table {
	t := Table{ID: MetricsTableID, Columns: MetricsColumns, Rows: make([]Row, 0, len(eval.Models))}

	for _, m := range eval.Models {
		label := TextCell("Model " + m.Number())
		if m.HasError() {
			t.Rows = append(t.Rows, Row{Cells: []Cell{
				label,
				SpanCell("Error: "+m.Error, metricColumnCount),
			}})
			continue
		}
		t.Rows = append(t.Rows, Row{Cells: []Cell{
			label,
			TextCell(FormatMetric(m.MSE)),
			TextCell(FormatMetric(m.RMSE)),
			TextCell(FormatMetric(m.MAE)),
			TextCell(FormatMetric(m.R2)),
		}})
	}

	return t
}
