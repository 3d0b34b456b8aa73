package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/loandash/internal/cli/pagination"
	"github.com/rshade/loandash/internal/engine"
	"github.com/rshade/loandash/internal/loanapi"
	"github.com/rshade/loandash/internal/logging"
)

// ViewState is the screen the model is showing.
type ViewState int

const (
	ViewStateLoading ViewState = iota
	ViewStateList
	ViewStateError
	ViewStateQuitting
)

// Key bindings.
const (
	keyQuit     = "q"
	keyCtrlC    = "ctrl+c"
	keyEnter    = "enter"
	keyTab      = "tab"
	keyShiftTab = "shift+tab"
	keyLeft     = "left"
	keyRight    = "right"
	keyH        = "h"
	keyL        = "l"
	keyReload   = "r"
)

// Layout defaults used until the first WindowSizeMsg arrives.
const (
	defaultWidth  = 80
	defaultHeight = 24
	columnWidth   = 16
	chromeHeight  = 8
)

// LoanFetcher loads the complete loan dataset.
type LoanFetcher func(ctx context.Context) ([]loanapi.LoanRecord, error)

// LoansLoadedMsg carries a freshly fetched dataset.
type LoansLoadedMsg struct {
	Records []loanapi.LoanRecord
}

// LoansFailedMsg reports a failed fetch.
type LoansFailedMsg struct {
	Err error
}

// LoanPagerModel is the Bubble Tea model for browsing loan records page by page.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type LoanPagerModel struct {
	ctx   context.Context
	fetch LoanFetcher
	state ViewState

	pager   *engine.LoanPager
	content engine.Table
	notice  string
	table   table.Model
	focus   int

	width   int
	height  int
	loading *LoadingState
	err     error
}

// NewLoanPagerModel creates a model that loads its data with fetch on Init.
func NewLoanPagerModel(ctx context.Context, fetch LoanFetcher) LoanPagerModel {
	return LoanPagerModel{
		ctx:     ctx,
		fetch:   fetch,
		state:   ViewStateLoading,
		width:   defaultWidth,
		height:  defaultHeight,
		loading: NewLoadingState().WithMessage("Loading loan data..."),
	}
}

// Init starts the spinner and the first fetch (Bubble Tea interface).
func (m LoanPagerModel) Init() tea.Cmd {
	return tea.Batch(m.loading.Init(), m.loadCmd())
}

func (m LoanPagerModel) loadCmd() tea.Cmd {
	ctx, fetch := m.ctx, m.fetch
	return func() tea.Msg {
		records, err := fetch(ctx)
		if err != nil {
			return LoansFailedMsg{Err: err}
		}
		return LoansLoadedMsg{Records: records}
	}
}

// Update handles messages and updates the model state (Bubble Tea interface).
func (m LoanPagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.rebuildTable()
		return m, nil
	case LoansLoadedMsg:
		return m.handleLoaded(msg), nil
	case LoansFailedMsg:
		return m.handleFailed(msg), nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.state == ViewStateLoading {
		return m, m.loading.Update(msg)
	}
	return m, nil
}

func (m LoanPagerModel) handleLoaded(msg LoansLoadedMsg) LoanPagerModel {
	m.state = ViewStateList
	m.err = nil
	m.pager = engine.NewLoanPager(msg.Records)
	m.focusActive()
	m.rebuildTable()
	return m
}

func (m LoanPagerModel) handleFailed(msg LoansFailedMsg) LoanPagerModel {
	if loanapi.IsMalformed(msg.Err) {
		logging.FromContext(m.ctx).Warn().Err(msg.Err).Msg("loan data has an invalid format")
		m.state = ViewStateList
		m.err = nil
		m.pager = nil
		m.content = engine.InvalidLoanTable()
		m.notice = m.content.Rows[0].Cells[0].Text
		m.rebuildTable()
		return m
	}

	logging.FromContext(m.ctx).Error().Err(msg.Err).Msg("failed to fetch loan data")
	m.state = ViewStateError
	m.err = msg.Err
	return m
}

func (m LoanPagerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == keyCtrlC || key == keyQuit {
		m.state = ViewStateQuitting
		return m, tea.Quit
	}

	switch m.state {
	case ViewStateError:
		m.state = ViewStateQuitting
		return m, tea.Quit
	case ViewStateList:
		return m.handleListKey(msg)
	case ViewStateLoading, ViewStateQuitting:
		return m, nil
	default:
		return m, nil
	}
}

func (m LoanPagerModel) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyReload:
		m.state = ViewStateLoading
		return m, tea.Batch(m.loading.Init(), m.loadCmd())
	case keyLeft, keyH:
		if m.pager != nil {
			m.pager.Controller().Previous()
			m.focusActive()
			m.rebuildTable()
		}
		return m, nil
	case keyRight, keyL:
		if m.pager != nil {
			m.pager.Controller().Next()
			m.focusActive()
			m.rebuildTable()
		}
		return m, nil
	case keyTab:
		m.moveFocus(1)
		return m, nil
	case keyShiftTab:
		m.moveFocus(-1)
		return m, nil
	case keyEnter:
		m.pressFocused()
		return m, nil
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
}

// buttons returns the page buttons currently shown.
func (m LoanPagerModel) buttons() []pagination.Button {
	if m.pager == nil {
		return nil
	}
	return m.pager.Controls().Buttons
}

// focusActive moves focus to the button of the current page.
func (m *LoanPagerModel) focusActive() {
	m.focus = 0
	for i, b := range m.buttons() {
		if b.Active {
			m.focus = i
			return
		}
	}
}

func (m *LoanPagerModel) moveFocus(delta int) {
	n := len(m.buttons())
	if n == 0 {
		return
	}
	m.focus = ((m.focus+delta)%n + n) % n
}

// pressFocused presses the focused button. Previous and Next keep focus so they
// can be pressed repeatedly; a number button hands focus to the new active page.
func (m *LoanPagerModel) pressFocused() {
	buttons := m.buttons()
	if m.focus < 0 || m.focus >= len(buttons) {
		return
	}
	pressed := buttons[m.focus]
	m.pager.Controller().Press(pressed)
	m.rebuildTable()

	if pressed.Kind == pagination.ButtonNumber {
		m.focusActive()
		return
	}
	for i, b := range m.buttons() {
		if b.Kind == pressed.Kind {
			m.focus = i
			return
		}
	}
}

// rebuildTable reconstructs the table from the active page.
func (m *LoanPagerModel) rebuildTable() {
	if m.pager != nil {
		m.content = m.pager.Table()
		m.notice = ""
		if len(m.content.Rows) == 1 && len(m.content.Rows[0].Cells) == 1 && m.content.Rows[0].Cells[0].Span > 1 {
			m.notice = m.content.Rows[0].Cells[0].Text
		}
	}
	m.table = newBubblesTable(m.content, m.notice == "", m.height-chromeHeight)
}

// newBubblesTable converts an engine table to a bubbles table. Spanning cells are
// placed in their first column and the covered columns are left blank.
func newBubblesTable(t engine.Table, withRows bool, height int) table.Model {
	columns := make([]table.Column, len(t.Columns))
	for i, title := range t.Columns {
		columns[i] = table.Column{Title: title, Width: columnWidth}
	}

	var rows []table.Row
	if withRows {
		rows = make([]table.Row, 0, len(t.Rows))
		for _, r := range t.Rows {
			row := make(table.Row, 0, len(columns))
			for _, cell := range r.Cells {
				row = append(row, cell.Text)
				for i := 1; i < cell.Span; i++ {
					row = append(row, "")
				}
			}
			for len(row) < len(columns) {
				row = append(row, "")
			}
			rows = append(rows, row[:len(columns)])
		}
	}

	if height < 1 {
		height = pagination.PageSize
	}
	bt := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(min(height, pagination.PageSize+1)),
	)

	s := table.DefaultStyles()
	s.Header = TableHeaderStyle
	s.Selected = TableSelectedStyle
	bt.SetStyles(s)

	return bt
}

// State returns the current view state.
func (m LoanPagerModel) State() ViewState {
	return m.state
}

// Pager returns the pager of the loaded dataset, nil before a successful load.
func (m LoanPagerModel) Pager() *engine.LoanPager {
	return m.pager
}

// FocusedButton returns the page button that has focus.
func (m LoanPagerModel) FocusedButton() (pagination.Button, bool) {
	buttons := m.buttons()
	if m.focus < 0 || m.focus >= len(buttons) {
		return pagination.Button{}, false
	}
	return buttons[m.focus], true
}

// Err returns the fetch error shown in the error state.
func (m LoanPagerModel) Err() error {
	return m.err
}
