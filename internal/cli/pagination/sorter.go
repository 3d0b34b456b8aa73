package pagination

import (
	"sort"
	"strings"

	"github.com/rshade/loandash/internal/loanapi"
)

// Sort fields for loan records.
const (
	SortFieldDate          = "date"
	SortFieldBookID        = "book_id"
	SortFieldBorrowedCount = "borrowed_count"
)

// Sorter defines the interface for sorting loan records.
type Sorter interface {
	// Sort sorts a slice of records by the specified field and order.
	Sort(records []loanapi.LoanRecord, field, order string) []loanapi.LoanRecord
	// IsValidField checks if the given field name is valid for sorting.
	IsValidField(field string) bool
	// GetValidFields returns a list of valid field names for sorting.
	GetValidFields() []string
}

// LoanSorter implements Sorter for loanapi.LoanRecord.
type LoanSorter struct {
	validFields map[string]bool
}

// NewLoanSorter creates a new LoanSorter with valid sort fields.
func NewLoanSorter() *LoanSorter {
	return &LoanSorter{
		validFields: map[string]bool{
			SortFieldDate:          true,
			SortFieldBookID:        true,
			SortFieldBorrowedCount: true,
		},
	}
}

// IsValidField checks if the field is valid for sorting.
func (s *LoanSorter) IsValidField(field string) bool {
	return s.validFields[field]
}

// GetValidFields returns all valid sort fields.
func (s *LoanSorter) GetValidFields() []string {
	fields := make([]string, 0, len(s.validFields))
	for field := range s.validFields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// Sort sorts records by the specified field and order.
// Returns a new sorted slice; does not modify the original.
// If field is invalid, returns the original slice unchanged.
// Records with a missing or unparseable date sort after dated ones in both orders.
func (s *LoanSorter) Sort(records []loanapi.LoanRecord, field, order string) []loanapi.LoanRecord {
	if !s.IsValidField(field) {
		return records
	}

	sorted := make([]loanapi.LoanRecord, len(records))
	copy(sorted, records)

	desc := order == SortOrderDesc
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]

		switch field {
		case SortFieldDate:
			ta, okA := a.Time()
			tb, okB := b.Time()
			if okA != okB {
				return okA
			}
			if desc {
				return ta.After(tb)
			}
			return ta.Before(tb)
		case SortFieldBookID:
			if desc {
				return compareBookID(b.BookID, a.BookID) < 0
			}
			return compareBookID(a.BookID, b.BookID) < 0
		case SortFieldBorrowedCount:
			if desc {
				return a.BorrowedCount > b.BorrowedCount
			}
			return a.BorrowedCount < b.BorrowedCount
		default:
			return false
		}
	})

	return sorted
}

// compareBookID orders numeric IDs numerically and everything else lexically.
func compareBookID(a, b string) int {
	if len(a) != len(b) && isDigits(a) && isDigits(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
