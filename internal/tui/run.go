package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// RunForm starts the interactive import form and blocks until it is closed.
func RunForm(deps Deps) error {
	if deps.Directory == nil || deps.Runner == nil || deps.Notifier == nil {
		return fmt.Errorf("form requires a user directory, runner and notifier")
	}

	p := tea.NewProgram(initialModel(deps), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
