package pagination

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// Flag defaults and validation limits.
const (
	DefaultPage      = 1
	MinPage          = 1
	DefaultSortField = ""
	DefaultSortOrder = "asc"
	SortOrderAsc     = "asc"
	SortOrderDesc    = "desc"
)

// Common validation errors.
var (
	ErrInvalidPage       = errors.New("page must be >= 1")
	ErrPageOutOfRange    = errors.New("page out of range")
	ErrInvalidSortOrder  = errors.New("sort order must be 'asc' or 'desc'")
	ErrInvalidSortFormat = errors.New("invalid sort format: use 'field' or 'field:order' (e.g., 'borrowed_count:desc')")
	ErrEmptySortField    = errors.New("sort field cannot be empty")
	ErrInvalidSortField  = errors.New("invalid sort field")
)

// PaginationParams holds the paging flags of a list command.
//
//nolint:revive // PaginationParams is the canonical name for this exported type.
type PaginationParams struct {
	// Page is the 1-based page to show first.
	Page int

	// Sort is the raw --sort value ("field" or "field:order").
	Sort string

	// SortField is the parsed field name (e.g., "date", "borrowed_count").
	SortField string

	// SortOrder is the sort direction: "asc" or "desc".
	SortOrder string
}

// NewPaginationParams creates a PaginationParams with default values.
func NewPaginationParams() *PaginationParams {
	return &PaginationParams{
		Page:      DefaultPage,
		SortField: DefaultSortField,
		SortOrder: DefaultSortOrder,
	}
}

// AddFlags registers --page and --sort on cmd.
func (p *PaginationParams) AddFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&p.Page, "page", DefaultPage, "page to display (pages hold 10 items)")
	cmd.Flags().StringVar(&p.Sort, "sort", "",
		"sort by field[:order] (fields: "+strings.Join(NewLoanSorter().GetValidFields(), ", ")+")")
}

// Validate checks the flag values and parses Sort into SortField and SortOrder.
func (p *PaginationParams) Validate() error {
	if p.Page < MinPage {
		return fmt.Errorf("%w: got %d", ErrInvalidPage, p.Page)
	}

	field, order, err := ParseSort(p.Sort)
	if err != nil {
		return err
	}
	if field != "" && !NewLoanSorter().IsValidField(field) {
		return fmt.Errorf("%w: %q (valid: %s)", ErrInvalidSortField, field,
			strings.Join(NewLoanSorter().GetValidFields(), ", "))
	}
	p.SortField = field
	p.SortOrder = order

	return nil
}

// IsSorted reports whether a sort field was requested.
func (p PaginationParams) IsSorted() bool {
	return p.SortField != ""
}

// sortPartsMax is the maximum number of parts in a sort string (field:order).
const sortPartsMax = 2

// ParseSort parses a sort string in the format "field" or "field:order".
// Examples: "date", "borrowed_count:desc", "book_id:asc"
// Returns the field name and order, or an error if invalid.
//
//nolint:nonamedreturns // Named returns improve readability for this multi-value function.
func ParseSort(sortStr string) (field, order string, err error) {
	if sortStr == "" {
		return DefaultSortField, DefaultSortOrder, nil
	}

	parts := strings.Split(sortStr, ":")
	switch len(parts) {
	case 1:
		field = strings.TrimSpace(parts[0])
		order = DefaultSortOrder
	case sortPartsMax:
		field = strings.TrimSpace(parts[0])
		order = strings.ToLower(strings.TrimSpace(parts[1]))
	default:
		return "", "", fmt.Errorf("%w: %q", ErrInvalidSortFormat, sortStr)
	}

	if field == "" {
		return "", "", ErrEmptySortField
	}

	if order != SortOrderAsc && order != SortOrderDesc {
		return "", "", fmt.Errorf("%w: got %q", ErrInvalidSortOrder, order)
	}

	return field, order, nil
}
