// ABOUTME: TUI initialization and control
// ABOUTME: Wraps bubbletea program for the joke UI
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run creates the TUI program; the caller starts it with Run and feeds it with Send
func Run(actions Actions, opts Options) *tea.Program {
	return tea.NewProgram(NewModel(actions, opts), tea.WithAltScreen())
}
