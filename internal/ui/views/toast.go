package views

import (
	tea "github.com/charmbracelet/bubbletea"

	"hwbook/internal/api"
)

// ToastMsg asks the root model to show a transient status line. A new
// toast replaces the one on screen; they do not stack.
type ToastMsg struct {
	Text    string
	IsError bool
}

func toastInfo(text string) tea.Cmd {
	return func() tea.Msg { return ToastMsg{Text: text} }
}

func toastError(err error) tea.Cmd {
	return func() tea.Msg { return ToastMsg{Text: api.UserMessage(err), IsError: true} }
}
