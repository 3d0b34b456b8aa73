package engine

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/loandash/internal/cli/pagination"
	"github.com/rshade/loandash/internal/loanapi"
)

func metric(raw string) loanapi.MetricValue {
	return loanapi.NewMetricValue(json.RawMessage(raw))
}

func makeRecords(n int) []loanapi.LoanRecord {
	records := make([]loanapi.LoanRecord, n)
	for i := range records {
		records[i] = loanapi.LoanRecord{
			Date:          "Tue, 22 Apr 2025 00:00:00 GMT",
			BookID:        FormatCount(int64(i + 1)),
			BorrowedCount: int64(i),
		}
	}
	return records
}

func TestLoanTable_Rows(t *testing.T) {
	table := LoanTable([]loanapi.LoanRecord{
		{Date: "Tue, 22 Apr 2025 00:00:00 GMT", BookID: "7", BorrowedCount: 12},
		{Date: "", BookID: "", BorrowedCount: 0},
		{Date: "sometime", BookID: "B-2", BorrowedCount: 3},
	})

	assert.Equal(t, LoanTableID, table.ID)
	assert.Equal(t, []string{"Month", "Book ID", "Total Loans"}, table.Columns)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, []string{"4/22/2025", "7", "12"}, table.Rows[0].Text())
	assert.Equal(t, []string{"N/A", "N/A", "0"}, table.Rows[1].Text())
	assert.Equal(t, []string{"sometime", "B-2", "3"}, table.Rows[2].Text())
}

func TestLoanTable_EmptyPage(t *testing.T) {
	table := LoanTable(nil)

	require.Len(t, table.Rows, 1)
	require.Len(t, table.Rows[0].Cells, 1)
	assert.Equal(t, Cell{Text: NoticeNoDataForPage, Span: 3}, table.Rows[0].Cells[0])
}

func TestInvalidLoanTable(t *testing.T) {
	table := InvalidLoanTable()

	require.Len(t, table.Rows, 1)
	assert.Equal(t, Cell{Text: "No data available or invalid format", Span: 3}, table.Rows[0].Cells[0])
}

func TestPredictionTable(t *testing.T) {
	table := PredictionTable(loanapi.Prediction{Date: "2025-05-01", Value: metric("42")})

	assert.Equal(t, []string{"Date", "Prediction"}, table.Columns)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{"2025-05-01", "42"}, table.Rows[0].Text())
}

func TestMetricsTable(t *testing.T) {
	eval := loanapi.Evaluation{Models: []loanapi.ModelMetrics{
		{Key: "model_1", MSE: metric("12.345678"), RMSE: metric(`"N/A"`), MAE: metric("2"), R2: metric("0.91")},
		{Key: "model_2", Error: "fit failed"},
		{Key: "model_3", MSE: metric("1.5")},
	}}

	table := MetricsTable(eval)
	assert.Equal(t, MetricsTableID, table.ID)
	assert.Equal(t, []string{"Model", "MSE", "RMSE", "MAE", "R²"}, table.Columns)
	require.Len(t, table.Rows, 3)

	assert.Equal(t, []string{"Model 1", "12.3457", "N/A", "2.0000", "0.9100"}, table.Rows[0].Text())

	errRow := table.Rows[1]
	require.Len(t, errRow.Cells, 2)
	assert.Equal(t, Cell{Text: "Model 2", Span: 1}, errRow.Cells[0])
	assert.Equal(t, Cell{Text: "Error: fit failed", Span: 4}, errRow.Cells[1])

	assert.Equal(t, []string{"Model 3", "1.5000", "N/A", "N/A", "N/A"}, table.Rows[2].Text())
}

func TestFormatMetric(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"0.123456", "0.1235"},
		{"3", "3.0000"},
		{"-1.00005", "-1.0001"},
		{"2.00005", "2.0000"},
		{"0.00015", "0.0001"},
		{"0.03125", "0.0313"},
		{"-0.03125", "-0.0313"},
		{`"N/A"`, "N/A"},
		{`"pending"`, "pending"},
		{"null", "N/A"},
		{"", "N/A"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatMetric(metric(tt.raw)), "raw=%s", tt.raw)
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "18,248", FormatNumber(18248))
	assert.Equal(t, "7", FormatNumber(7))
}

func TestLoanPager_SinglePage(t *testing.T) {
	pager := NewLoanPager(makeRecords(7))

	assert.Equal(t, pagination.StateSinglePage, pager.Controller().State())
	assert.Len(t, pager.Table().Rows, 7, "every record on the one page")
	assert.Empty(t, pager.Controls().Buttons)
	assert.Equal(t, "Showing 1-7 of 7 records", pager.Summary())
}

func TestLoanPager_Paginated(t *testing.T) {
	pager := NewLoanPager(makeRecords(25))
	c := pager.Controller()

	assert.Equal(t, pagination.StatePaginated, c.State())
	assert.Len(t, pager.Table().Rows, 10)
	assert.Equal(t, "1", pager.Table().Rows[0].Cells[1].Text)

	c.Next()
	c.Next()
	assert.Len(t, pager.Table().Rows, 5)
	assert.Equal(t, "21", pager.Table().Rows[0].Cells[1].Text)
	assert.Equal(t, "Showing 21-25 of 25 records", pager.Summary())

	doc := pager.Document()
	assert.Equal(t, 3, doc.Pagination.CurrentPage)
	assert.False(t, doc.Pagination.HasNext)
	assert.Len(t, doc.Records, 5)
}

func TestLoanPager_Empty(t *testing.T) {
	pager := NewLoanPager([]loanapi.LoanRecord{})

	require.Len(t, pager.Table().Rows, 1)
	assert.Equal(t, NoticeNoDataForPage, pager.Table().Rows[0].Cells[0].Text)
	assert.Equal(t, "Showing 0 of 0 records", pager.Summary())
	assert.NotNil(t, pager.Document().Records)
}

func TestLoanPager_Reload(t *testing.T) {
	first := NewLoanPager(makeRecords(100))
	require.NoError(t, first.Controller().GoTo(9))

	second := NewLoanPager(makeRecords(12))
	assert.Equal(t, 1, second.Controller().CurrentPage(), "a new dataset starts on page 1")
	assert.Equal(t, 2, second.Controller().TotalPages())
	assert.Equal(t, 9, first.Controller().CurrentPage(), "the old pager is unaffected")
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	table := MetricsTable(loanapi.Evaluation{Models: []loanapi.ModelMetrics{
		{Key: "model_1", MSE: metric("1"), RMSE: metric("1"), MAE: metric("1"), R2: metric("1")},
		{Key: "model_2", Error: "fit failed"},
	}})

	require.NoError(t, RenderTable(&buf, table))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "MODEL"))
	assert.Contains(t, lines[1], "-----")
	assert.Contains(t, lines[2], "1.0000")
	assert.Equal(t, "Model 2  Error: fit failed", lines[3])
}

func TestRenderTable_Notice(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderTable(&buf, LoanTable(nil)))
	assert.Contains(t, buf.String(), "\n"+NoticeNoDataForPage+"\n")
}

func TestRenderControls(t *testing.T) {
	pager := NewLoanPager(makeRecords(25))
	pager.Controller().Next()

	var buf bytes.Buffer
	require.NoError(t, RenderControls(&buf, pager.Controls()))
	assert.Equal(t, "[Previous] [1] [*2*] [3] [Next]  (page 2 of 3)\n", buf.String())

	buf.Reset()
	require.NoError(t, RenderControls(&buf, NewLoanPager(makeRecords(3)).Controls()))
	assert.Empty(t, buf.String())
}

func TestRenderJSONAndYAML(t *testing.T) {
	pager := NewLoanPager(makeRecords(2))

	var buf bytes.Buffer
	require.NoError(t, RenderJSON(&buf, pager.Document()))
	assert.Contains(t, buf.String(), `"current_page": 1`)
	assert.Contains(t, buf.String(), `"book_id": "1"`)

	buf.Reset()
	eval := loanapi.Evaluation{Models: []loanapi.ModelMetrics{{Key: "model_1", MSE: metric("0.5"), RMSE: metric(`"N/A"`)}}}
	require.NoError(t, RenderYAML(&buf, eval))
	assert.Contains(t, buf.String(), "mse: 0.5")
	assert.Contains(t, buf.String(), "rmse: N/A")
	assert.Contains(t, buf.String(), "mae: null")
}

func TestAlertMessage(t *testing.T) {
	tests := []struct {
		endpoint string
		want     string
	}{
		{loanapi.EndpointLoans, "Failed to fetch loan data. Please check the backend server."},
		{loanapi.EndpointPredict, "Failed to fetch prediction. Please check the backend server."},
		{loanapi.EndpointEvaluate, "Failed to fetch model error metrics. Please check the backend server."},
		{"other", "Failed to fetch data. Please check the backend server."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AlertMessage(tt.endpoint))
	}
}
