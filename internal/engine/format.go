package engine

import (
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/loandash/internal/loanapi"
)

// Display constants.
const (
	// NotAvailable is shown for missing values.
	NotAvailable = "N/A"

	// LoanDateLayout is the numeric month/day/year layout used for loan dates.
	LoanDateLayout = "1/2/2006"

	// metricPlaces is the number of decimals shown for numeric metrics.
	metricPlaces = 4
)

//nolint:gochecknoglobals // Printers are safe for concurrent use.
var printer = message.NewPrinter(language.English)

// FormatLoanDate renders a loan date in UTC, the raw text when it cannot be parsed,
// or N/A when it is missing.
func FormatLoanDate(r loanapi.LoanRecord) string {
	if r.Date == "" {
		return NotAvailable
	}
	if t, ok := r.Time(); ok {
		return t.UTC().Format(LoanDateLayout)
	}
	return r.Date
}

// FormatBookID renders a book ID, or N/A when missing.
func FormatBookID(id string) string {
	if id == "" {
		return NotAvailable
	}
	return id
}

// FormatCount renders a loan count as a bare integer.
func FormatCount(n int64) string {
	return strconv.FormatInt(n, 10)
}

// FormatNumber formats an integer with thousand separators.
// Example: FormatNumber(18248) returns "18,248".
func FormatNumber(n int) string {
	return printer.Sprintf("%d", n)
}

// FormatMetric renders numbers with four decimals, strings verbatim, and missing values as N/A.
func FormatMetric(v loanapi.MetricValue) string {
	if f, ok := v.Float(); ok {
		return decimal.NewFromFloatWithExponent(f, -metricPlaces).StringFixed(metricPlaces)
	}
	if v.IsMissing() {
		return NotAvailable
	}
	return v.Text()
}
