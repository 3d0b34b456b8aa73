// Package pagination provides the page controller and the paging helpers shared by
// loandash commands, the terminal UI, and the HTML dashboard.
//
// This package contains:
//   - Controller: page state, page-selector buttons, and page change notification
//   - Dataset: an explicit holder for one loaded dataset, sliced by page
//   - Window: the numbered-button window used by every renderer
//   - PaginationParams: CLI flag parsing and validation
//   - PaginationMeta: Response metadata for paginated results
//   - LoanSorter: sorting of loan records with field validation
//
// Pages are 1-based and fixed at PageSize items. A controller is created for one
// dataset and discarded when a new dataset is loaded.
package pagination
