package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// LoadingState wraps the spinner shown while data is fetched.
type LoadingState struct {
	spinner spinner.Model
	message string
}

// NewLoadingState creates a spinner with the default message.
func NewLoadingState() *LoadingState {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorSpinner)
	return &LoadingState{spinner: s, message: "Loading..."}
}

// WithMessage sets the text shown next to the spinner.
func (l *LoadingState) WithMessage(message string) *LoadingState {
	l.message = message
	return l
}

// Init starts the spinner.
func (l *LoadingState) Init() tea.Cmd {
	return l.spinner.Tick
}

// Update advances the spinner on tick messages.
func (l *LoadingState) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return cmd
}

// View renders the spinner and message.
func (l *LoadingState) View() string {
	return l.spinner.View() + " " + l.message
}
