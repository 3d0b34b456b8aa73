package pagination

import (
	"fmt"
	"strconv"
)

// Page geometry shared by every renderer.
const (
	// PageSize is the number of items shown on one page.
	PageSize = 10

	// MaxPageButtons is the maximum number of numbered page buttons.
	MaxPageButtons = 5

	// windowRadius is how many pages are shown before the current page.
	windowRadius = 2
)

// PageChangeHandler is notified whenever the active page changes.
type PageChangeHandler interface {
	OnPageChange(page int)
}

// PageChangeFunc adapts a plain function to PageChangeHandler.
type PageChangeFunc func(page int)

// OnPageChange calls f(page).
func (f PageChangeFunc) OnPageChange(page int) {
	f(page)
}

// State describes whether a controller renders page-selector controls.
type State int

const (
	// StateSinglePage means every item fits on one page and no controls are rendered.
	StateSinglePage State = iota
	// StatePaginated means controls are rendered and the handler runs once per page change.
	StatePaginated
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateSinglePage:
		return "single-page"
	case StatePaginated:
		return "paginated"
	default:
		return "unknown"
	}
}

// ButtonKind identifies a page-selector button.
type ButtonKind int

const (
	ButtonPrevious ButtonKind = iota
	ButtonNumber
	ButtonNext
)

// Button labels.
const (
	LabelPrevious = "Previous"
	LabelNext     = "Next"
)

// Button is one page-selector control in the render model.
type Button struct {
	Kind   ButtonKind `json:"kind"`
	Label  string     `json:"label"`
	Page   int        `json:"page"`
	Active bool       `json:"active"`
}

// Controls is the render model for a pagination container.
type Controls struct {
	ContainerID string   `json:"container_id"`
	CurrentPage int      `json:"current_page"`
	TotalPages  int      `json:"total_pages"`
	Buttons     []Button `json:"buttons"`
}

// Attributes returns the attributes stored on the pagination container.
func (c Controls) Attributes() map[string]string {
	return map[string]string{
		"id":                c.ContainerID,
		"class":             "pagination",
		"data-current-page": strconv.Itoa(c.CurrentPage),
	}
}

// Controller owns the page state of one dataset lifecycle.
//
// A Controller is not safe for concurrent use; it is driven from a single UI loop.
type Controller struct {
	containerID string
	totalItems  int
	totalPages  int
	currentPage int
	handler     PageChangeHandler
}

// Create starts pagination for a dataset of totalItems items.
// The current page is set to 1 and handler is notified once with page 1.
// A nil handler is allowed.
func Create(totalItems int, containerID string, handler PageChangeHandler) *Controller {
	if totalItems < 0 {
		totalItems = 0
	}

	c := &Controller{
		containerID: containerID,
		totalItems:  totalItems,
		totalPages:  TotalPages(totalItems),
		currentPage: 1,
		handler:     handler,
	}
	c.notify()

	return c
}

// TotalPages returns ceil(totalItems / PageSize).
func TotalPages(totalItems int) int {
	if totalItems <= 0 {
		return 0
	}
	return (totalItems + PageSize - 1) / PageSize
}

// Window returns the inclusive range of numbered buttons for the current page.
// The window holds up to MaxPageButtons pages starting two before current, and is
// shifted left near the last page when there are more than MaxPageButtons pages.
//
//nolint:nonamedreturns // Named returns document the range bounds.
func Window(current, totalPages int) (start, end int) {
	if totalPages <= 0 {
		return 1, 0
	}

	start = max(1, current-windowRadius)
	end = min(totalPages, start+MaxPageButtons-1)
	if end-start < MaxPageButtons-1 && totalPages > MaxPageButtons {
		start = max(1, end-(MaxPageButtons-1))
	}

	return start, end
}

// ContainerID returns the identifier of the container the controls render into.
func (c *Controller) ContainerID() string {
	return c.containerID
}

// CurrentPage returns the active page, or 1 for an empty dataset.
func (c *Controller) CurrentPage() int {
	return c.currentPage
}

// TotalPages returns the number of pages in the dataset.
func (c *Controller) TotalPages() int {
	return c.totalPages
}

// TotalItems returns the dataset size the controller was created with.
func (c *Controller) TotalItems() int {
	return c.totalItems
}

// State reports whether controls are rendered.
func (c *Controller) State() State {
	if c.totalItems > PageSize {
		return StatePaginated
	}
	return StateSinglePage
}

// Range returns the half-open item index range of the current page.
// In the single-page state the range covers every item.
//
//nolint:nonamedreturns // Named returns document the range bounds.
func (c *Controller) Range() (start, end int) {
	if c.State() == StateSinglePage {
		return 0, c.totalItems
	}
	start = (c.currentPage - 1) * PageSize
	end = min(start+PageSize, c.totalItems)
	return start, end
}

// Controls builds the render model for the current page.
// Single-page controllers render an empty container.
func (c *Controller) Controls() Controls {
	controls := Controls{
		ContainerID: c.containerID,
		CurrentPage: c.currentPage,
		TotalPages:  c.totalPages,
	}
	if c.State() == StateSinglePage {
		return controls
	}

	start, end := Window(c.currentPage, c.totalPages)
	buttons := make([]Button, 0, end-start+3) //nolint:mnd // previous + next + numbered
	buttons = append(buttons, Button{Kind: ButtonPrevious, Label: LabelPrevious, Page: c.currentPage - 1})
	for i := start; i <= end; i++ {
		buttons = append(buttons, Button{
			Kind:   ButtonNumber,
			Label:  strconv.Itoa(i),
			Page:   i,
			Active: i == c.currentPage,
		})
	}
	buttons = append(buttons, Button{Kind: ButtonNext, Label: LabelNext, Page: c.currentPage + 1})
	controls.Buttons = buttons

	return controls
}

// Previous moves to the previous page. It does nothing on page 1.
func (c *Controller) Previous() {
	if c.currentPage > 1 {
		c.changePage(c.currentPage - 1)
	}
}

// Next moves to the next page. It does nothing on the last page.
func (c *Controller) Next() {
	if c.currentPage < c.totalPages {
		c.changePage(c.currentPage + 1)
	}
}

// Press activates a button taken from Controls.
func (c *Controller) Press(b Button) {
	switch b.Kind {
	case ButtonPrevious:
		c.Previous()
	case ButtonNext:
		c.Next()
	case ButtonNumber:
		if b.Page >= 1 && b.Page <= c.totalPages {
			c.changePage(b.Page)
		}
	}
}

// GoTo jumps directly to page. It is used by callers that accept a page number
// from outside the controls, such as a --page flag or a ?page= query parameter.
func (c *Controller) GoTo(page int) error {
	if page < MinPage {
		return ErrInvalidPage
	}
	if page > max(1, c.totalPages) {
		return fmt.Errorf("%w: page %d of %d", ErrPageOutOfRange, page, c.totalPages)
	}
	if page != c.currentPage {
		c.changePage(page)
	}
	return nil
}

func (c *Controller) changePage(page int) {
	c.currentPage = page
	c.notify()
}

func (c *Controller) notify() {
	if c.handler != nil {
		c.handler.OnPageChange(c.currentPage)
	}
}
