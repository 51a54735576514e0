package tui

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"dsoctl/internal/scope"
)

// Run starts the live measurement dashboard.
func Run(s *scope.Scope, channel int, params []string, interval time.Duration) error {
	if len(params) == 0 {
		params = []string{"vpp", "frequency"}
	}
	if channel < 1 || channel > 4 {
		channel = 1
	}
	if interval <= 0 {
		interval = time.Second
	}

	m := NewModel(s, channel, params, interval)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running monitor: %v\n", err)
		return err
	}

	return nil
}
