package tui

import (
	"context"
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/loandash/internal/cli/pagination"
	"github.com/rshade/loandash/internal/engine"
	"github.com/rshade/loandash/internal/loanapi"
)

func records(n int) []loanapi.LoanRecord {
	out := make([]loanapi.LoanRecord, n)
	for i := range out {
		out[i] = loanapi.LoanRecord{
			Date:          "Tue, 22 Apr 2025 00:00:00 GMT",
			BookID:        fmt.Sprint(i + 1),
			BorrowedCount: int64(i),
		}
	}
	return out
}

func key(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func send(t *testing.T, m tea.Model, msgs ...tea.Msg) LoanPagerModel {
	t.Helper()
	for _, msg := range msgs {
		m, _ = m.Update(msg)
	}
	lm, ok := m.(LoanPagerModel)
	require.True(t, ok)
	return lm
}

func loaded(t *testing.T, n int) LoanPagerModel {
	t.Helper()
	m := NewLoanPagerModel(context.Background(), nil)
	return send(t, m, LoansLoadedMsg{Records: records(n)})
}

func TestLoanPagerModel_InitFetches(t *testing.T) {
	called := false
	m := NewLoanPagerModel(context.Background(), func(context.Context) ([]loanapi.LoanRecord, error) {
		called = true
		return records(3), nil
	})
	assert.Equal(t, ViewStateLoading, m.State())
	assert.Contains(t, m.View(), "Loading loan data...")

	msg := m.loadCmd()()
	assert.True(t, called)
	loadedMsg, ok := msg.(LoansLoadedMsg)
	require.True(t, ok)
	assert.Len(t, loadedMsg.Records, 3)
	assert.NotNil(t, m.Init())
}

func TestLoanPagerModel_LoadCmdFailure(t *testing.T) {
	boom := errors.New("boom")
	m := NewLoanPagerModel(context.Background(), func(context.Context) ([]loanapi.LoanRecord, error) {
		return nil, boom
	})

	msg := m.loadCmd()()
	failed, ok := msg.(LoansFailedMsg)
	require.True(t, ok)
	assert.ErrorIs(t, failed.Err, boom)
}

func TestLoanPagerModel_SinglePage(t *testing.T) {
	m := loaded(t, 7)

	assert.Equal(t, ViewStateList, m.State())
	assert.Equal(t, pagination.StateSinglePage, m.Pager().Controller().State())
	_, ok := m.FocusedButton()
	assert.False(t, ok, "no buttons on a single page")

	m = send(t, m, key("right"), key("tab"), key("enter"))
	assert.Equal(t, 1, m.Pager().Controller().CurrentPage())
	assert.Contains(t, m.View(), "Showing 1-7 of 7 records")
}

func TestLoanPagerModel_ArrowKeys(t *testing.T) {
	m := loaded(t, 25)
	c := m.Pager().Controller()

	m = send(t, m, key("right"))
	assert.Equal(t, 2, c.CurrentPage())
	m = send(t, m, key("l"), key("l"), key("l"))
	assert.Equal(t, 3, c.CurrentPage(), "next is a no-op on the last page")

	m = send(t, m, key("h"), key("left"), key("left"))
	assert.Equal(t, 1, c.CurrentPage(), "previous is a no-op on page 1")

	b, ok := m.FocusedButton()
	require.True(t, ok)
	assert.True(t, b.Active)
}

func TestLoanPagerModel_FocusAndPress(t *testing.T) {
	m := loaded(t, 100)
	c := m.Pager().Controller()

	// Buttons on page 1: Previous, 1..5, Next. Focus starts on "1".
	b, _ := m.FocusedButton()
	assert.Equal(t, "1", b.Label)

	m = send(t, m, key("tab"), key("tab"), key("enter"))
	assert.Equal(t, 3, c.CurrentPage())
	b, _ = m.FocusedButton()
	assert.Equal(t, "3", b.Label, "focus follows the active page")

	m = send(t, m, key("shift+tab"), key("shift+tab"), key("shift+tab"))
	b, _ = m.FocusedButton()
	assert.Equal(t, pagination.ButtonPrevious, b.Kind)

	m = send(t, m, key("enter"), key("enter"))
	assert.Equal(t, 1, c.CurrentPage())
	b, _ = m.FocusedButton()
	assert.Equal(t, pagination.ButtonPrevious, b.Kind, "previous keeps focus")

	// Wrap around from Previous back to Next.
	m = send(t, m, key("shift+tab"))
	b, _ = m.FocusedButton()
	assert.Equal(t, pagination.ButtonNext, b.Kind)
}

func TestLoanPagerModel_Reload(t *testing.T) {
	m := loaded(t, 40)
	m = send(t, m, key("right"), key("right"))
	require.Equal(t, 3, m.Pager().Controller().CurrentPage())

	next, cmd := m.Update(key("r"))
	assert.NotNil(t, cmd)
	m = send(t, next)
	assert.Equal(t, ViewStateLoading, m.State())

	m = send(t, m, LoansLoadedMsg{Records: records(12)})
	assert.Equal(t, ViewStateList, m.State())
	assert.Equal(t, 1, m.Pager().Controller().CurrentPage())
	assert.Equal(t, 2, m.Pager().Controller().TotalPages())
}

func TestLoanPagerModel_UndecodableBodyShowsAlert(t *testing.T) {
	m := NewLoanPagerModel(context.Background(), nil)
	m = send(t, m, LoansFailedMsg{Err: fmt.Errorf("fetch: %w", loanapi.ErrUndecodable)})

	assert.Equal(t, ViewStateError, m.State())
	assert.Contains(t, m.View(), "Failed to fetch loan data. Please check the backend server.")
}

func TestLoanPagerModel_NetworkError(t *testing.T) {
	m := NewLoanPagerModel(context.Background(), nil)
	m = send(t, m, LoansFailedMsg{Err: fmt.Errorf("fetch: %w", loanapi.ErrNetwork)})

	assert.Equal(t, ViewStateError, m.State())
	require.Error(t, m.Err())
	assert.Contains(t, m.View(), "Failed to fetch loan data. Please check the backend server.")
	assert.NotContains(t, m.View(), "fetch:", "details stay in the log")

	next, cmd := m.Update(key("x"))
	assert.NotNil(t, cmd)
	assert.Equal(t, ViewStateQuitting, send(t, next).State())
}

func TestLoanPagerModel_MalformedData(t *testing.T) {
	m := NewLoanPagerModel(context.Background(), nil)
	m = send(t, m, LoansFailedMsg{Err: fmt.Errorf("fetch: %w", loanapi.ErrMalformedResponse)})

	assert.Equal(t, ViewStateList, m.State())
	assert.Nil(t, m.Pager())
	assert.Contains(t, m.View(), engine.NoticeInvalidFormat)
	assert.NotContains(t, m.View(), "Failed to fetch")
}

func TestLoanPagerModel_EmptyDataset(t *testing.T) {
	m := loaded(t, 0)
	assert.Contains(t, m.View(), engine.NoticeNoDataForPage)
}

func TestLoanPagerModel_Quit(t *testing.T) {
	for _, k := range []string{"q", "ctrl+c"} {
		m := loaded(t, 3)
		next, cmd := m.Update(key(k))
		assert.NotNil(t, cmd, k)
		lm := send(t, next)
		assert.Equal(t, ViewStateQuitting, lm.State(), k)
		assert.Empty(t, lm.View())
	}
}

func TestLoanPagerModel_WindowResize(t *testing.T) {
	m := loaded(t, 25)
	m = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 40, m.height)
	assert.Contains(t, m.View(), "Showing 1-10 of 25 records")
}

func TestRenderPaginationBar(t *testing.T) {
	pager := engine.NewLoanPager(records(25))
	bar := RenderPaginationBar(pager.Controls(), -1)
	for _, label := range []string{"Previous", "1", "2", "3", "Next"} {
		assert.Contains(t, bar, label)
	}
	assert.Empty(t, RenderPaginationBar(engine.NewLoanPager(records(2)).Controls(), 0))
}

func TestRenderStyledTable(t *testing.T) {
	eval := loanapi.Evaluation{Models: []loanapi.ModelMetrics{
		{Key: "model_1", MSE: loanapi.NewMetricValue([]byte("1.5"))},
		{Key: "model_2", Error: "fit failed"},
	}}
	out := RenderStyledTable(engine.MetricsTable(eval))

	assert.Contains(t, out, "Model")
	assert.Contains(t, out, "1.5000")
	assert.Contains(t, out, "Error: fit failed")
}

func TestDetectOutputMode(t *testing.T) {
	env := func(vars map[string]string) func(string) string {
		return func(k string) string { return vars[k] }
	}
	tests := []struct {
		name       string
		forcePlain bool
		noColor    bool
		ci         bool
		tty        bool
		vars       map[string]string
		want       OutputMode
	}{
		{name: "interactive terminal", tty: true, want: OutputModeInteractive},
		{name: "pipe", tty: false, want: OutputModePlain},
		{name: "plain flag", forcePlain: true, tty: true, want: OutputModePlain},
		{name: "no color flag", noColor: true, tty: true, want: OutputModePlain},
		{name: "NO_COLOR", tty: true, vars: map[string]string{"NO_COLOR": "1"}, want: OutputModePlain},
		{name: "dumb terminal", tty: true, vars: map[string]string{"TERM": "dumb"}, want: OutputModePlain},
		{name: "ci flag", ci: true, tty: true, want: OutputModeStyled},
		{name: "CI env", tty: true, vars: map[string]string{"CI": "true"}, want: OutputModeStyled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectOutputMode(tt.forcePlain, tt.noColor, tt.ci, tt.tty, env(tt.vars))
			assert.Equal(t, tt.want, got)
			assert.NotEqual(t, "unknown", got.String())
		})
	}
}
