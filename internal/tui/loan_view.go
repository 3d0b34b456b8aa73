package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/rshade/loandash/internal/cli/pagination"
	"github.com/rshade/loandash/internal/engine"
	"github.com/rshade/loandash/internal/loanapi"
)

const loanTitle = "LOAN STATISTICS"

// View renders the current view (Bubble Tea interface).
func (m LoanPagerModel) View() string {
	switch m.state {
	case ViewStateQuitting:
		return ""
	case ViewStateLoading:
		return lipgloss.JoinVertical(lipgloss.Left, HeaderStyle.Render(loanTitle), m.loading.View())
	case ViewStateError:
		return lipgloss.JoinVertical(lipgloss.Left,
			HeaderStyle.Render(loanTitle),
			RenderAlert(engine.AlertMessage(loanapi.EndpointLoans), m.width),
			SubtleStyle.Render("Press any key to exit."),
		)
	case ViewStateList:
		return m.renderListView()
	default:
		return ""
	}
}

func (m LoanPagerModel) renderListView() string {
	sections := []string{HeaderStyle.Render(loanTitle)}

	if m.pager != nil {
		sections = append(sections, LabelStyle.Render(m.pager.Summary()))
	}

	sections = append(sections, m.table.View())
	if m.notice != "" {
		sections = append(sections, InfoStyle.Render(m.notice))
	}

	if m.pager != nil {
		if bar := RenderPaginationBar(m.pager.Controls(), m.focus); bar != "" {
			sections = append(sections, bar)
		}
	}

	sections = append(sections, SubtleStyle.Render("←/h prev  →/l next  tab focus  enter select  r reload  q quit"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// RenderPaginationBar renders the page buttons on one line. The current page is
// highlighted and the button at index focus is shown reversed; pass -1 for no focus.
// An empty string is returned when there are no buttons.
func RenderPaginationBar(c pagination.Controls, focus int) string {
	if len(c.Buttons) == 0 {
		return ""
	}

	parts := make([]string, len(c.Buttons))
	for i, b := range c.Buttons {
		style := ButtonStyle
		if b.Active {
			style = ActiveButtonStyle
		}
		if i == focus {
			style = style.Reverse(true)
		}
		parts[i] = style.Render(b.Label)
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

// RenderAlert renders message in a bordered alert box.
func RenderAlert(message string, width int) string {
	style := AlertBoxStyle
	if width > borderPadding {
		style = style.MaxWidth(width)
	}
	return style.Render(CriticalStyle.Render(message))
}

// borderPadding is the horizontal space taken by a box border.
const borderPadding = 2

// RenderStyledTable renders an engine table with lipgloss for non-interactive
// styled output. A spanning cell is placed in its first column.
func RenderStyledTable(t engine.Table) string {
	rows := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		row := make([]string, 0, len(t.Columns))
		for _, cell := range r.Cells {
			row = append(row, cell.Text)
			for i := 1; i < cell.Span; i++ {
				row = append(row, "")
			}
		}
		for len(row) < len(t.Columns) {
			row = append(row, "")
		}
		rows = append(rows, row)
	}

	lt := ltable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorBorder)).
		Headers(t.Columns...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return HeaderStyle.Padding(0, 1)
			}
			return ValueStyle.Padding(0, 1)
		})

	return lt.Render()
}

// RenderStyledPage renders a titled table with its summary and page controls.
func RenderStyledPage(title string, t engine.Table, summary string, controls pagination.Controls) string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(title))
	b.WriteString("\n")
	if summary != "" {
		b.WriteString(LabelStyle.Render(summary))
		b.WriteString("\n")
	}
	b.WriteString(RenderStyledTable(t))
	b.WriteString("\n")
	if bar := RenderPaginationBar(controls, -1); bar != "" {
		b.WriteString(bar)
		b.WriteString("\n")
	}
	return b.String()
}
