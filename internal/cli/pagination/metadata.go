package pagination

// PaginationMeta contains metadata about paginated results.
//
//nolint:revive // PaginationMeta is the canonical name for this exported type.
type PaginationMeta struct {
	CurrentPage int    `json:"current_page" yaml:"current_page"`
	PageSize    int    `json:"page_size"    yaml:"page_size"`
	TotalPages  int    `json:"total_pages"  yaml:"total_pages"`
	TotalItems  int    `json:"total_items"  yaml:"total_items"`
	HasPrevious bool   `json:"has_previous" yaml:"has_previous"`
	HasNext     bool   `json:"has_next"     yaml:"has_next"`
	State       string `json:"state"        yaml:"state"`
}

// NewPaginationMeta describes the current page of a controller.
func NewPaginationMeta(c *Controller) PaginationMeta {
	return PaginationMeta{
		CurrentPage: c.CurrentPage(),
		PageSize:    PageSize,
		TotalPages:  c.TotalPages(),
		TotalItems:  c.TotalItems(),
		HasPrevious: c.CurrentPage() > 1,
		HasNext:     c.CurrentPage() < c.TotalPages(),
		State:       c.State().String(),
	}
}
