package tui

import (
	"os"

	"golang.org/x/term"
)

// OutputMode is how results are presented on the terminal.
type OutputMode int

const (
	// OutputModePlain writes unstyled text, for pipes and dumb terminals.
	OutputModePlain OutputMode = iota
	// OutputModeStyled writes lipgloss-styled text without interaction.
	OutputModeStyled
	// OutputModeInteractive runs a Bubble Tea program.
	OutputModeInteractive
)

// String returns the mode name.
func (m OutputMode) String() string {
	switch m {
	case OutputModePlain:
		return "plain"
	case OutputModeStyled:
		return "styled"
	case OutputModeInteractive:
		return "interactive"
	default:
		return "unknown"
	}
}

// DetectOutputMode picks the output mode for stdout.
// forcePlain and noColor come from flags; ci forces non-interactive output.
// NO_COLOR, TERM=dumb and CI in the environment are honoured as well.
func DetectOutputMode(forcePlain, noColor, ci bool) OutputMode {
	return detectOutputMode(forcePlain, noColor, ci, term.IsTerminal(int(os.Stdout.Fd())), os.Getenv)
}

func detectOutputMode(forcePlain, noColor, ci, isTTY bool, getenv func(string) string) OutputMode {
	if forcePlain || !isTTY {
		return OutputModePlain
	}
	if noColor || getenv("NO_COLOR") != "" || getenv("TERM") == "dumb" {
		return OutputModePlain
	}
	if ci || getenv("CI") != "" {
		return OutputModeStyled
	}
	return OutputModeInteractive
}
