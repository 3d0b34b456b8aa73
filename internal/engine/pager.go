package engine

import (
	"github.com/rshade/loandash/internal/cli/pagination"
	"github.com/rshade/loandash/internal/loanapi"
	"github.com/rshade/loandash/internal/metrics"
)

// LoanPager binds one loaded loan dataset to a pagination controller and keeps the
// table of the active page up to date. Loading new data means creating a new LoanPager.
type LoanPager struct {
	dataset    *pagination.Dataset[loanapi.LoanRecord]
	controller *pagination.Controller
	page       []loanapi.LoanRecord
	table      Table
}

// NewLoanPager creates the pager and renders page 1.
func NewLoanPager(records []loanapi.LoanRecord) *LoanPager {
	p := &LoanPager{dataset: pagination.NewDataset(records)}
	p.controller = pagination.Create(p.dataset.Len(), LoanPaginationID, p)
	return p
}

// OnPageChange renders the records of page.
// Datasets that fit on one page are rendered whole.
func (p *LoanPager) OnPageChange(page int) {
	p.page = p.dataset.Page(page)
	p.table = LoanTable(p.page)
	metrics.PageRenders.WithLabelValues(LoanTableID).Inc()
}

// Controller returns the pagination controller.
func (p *LoanPager) Controller() *pagination.Controller {
	return p.controller
}

// Table returns the table of the active page.
func (p *LoanPager) Table() Table {
	return p.table
}

// Records returns the records of the active page.
func (p *LoanPager) Records() []loanapi.LoanRecord {
	return p.page
}

// Controls returns the page controls of the active page.
func (p *LoanPager) Controls() pagination.Controls {
	return p.controller.Controls()
}

// Len returns the dataset size.
func (p *LoanPager) Len() int {
	return p.dataset.Len()
}

// Summary describes the visible range, e.g. "Showing 11-20 of 1,250 records".
func (p *LoanPager) Summary() string {
	total := p.dataset.Len()
	if total == 0 || len(p.page) == 0 {
		return printer.Sprintf("Showing 0 of %d records", total)
	}
	first := (p.controller.CurrentPage()-1)*pagination.PageSize + 1
	last := first + len(p.page) - 1
	return printer.Sprintf("Showing %d-%d of %d records", first, last, total)
}

// Document returns the active page as a structured document for json and yaml output.
func (p *LoanPager) Document() LoanPageDocument {
	records := p.page
	if records == nil {
		records = []loanapi.LoanRecord{}
	}
	return LoanPageDocument{
		Pagination: pagination.NewPaginationMeta(p.controller),
		Records:    records,
	}
}

// LoanPageDocument is the structured form of one page of loan records.
type LoanPageDocument struct {
	Pagination pagination.PaginationMeta `json:"pagination" yaml:"pagination"`
	Records    []loanapi.LoanRecord      `json:"records"    yaml:"records"`
}
