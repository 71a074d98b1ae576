package view

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// CommonModel is embedded by all views.
type CommonModel struct {
	Width  int
	Height int
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// notice collects the message of a failed operation so it can be shown once
// the command that produced it returns.
type notice struct {
	title string
	body  string
}

func (n *notice) Notify(title, body string) {
	n.title = title
	n.body = body
}

func (n *notice) set() bool {
	return n.title != "" || n.body != ""
}

func (n *notice) View() string {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("196")).
		Padding(0, 1).
		Render(fmt.Sprintf("%s\n\n%s",
			lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")).Render(n.title),
			n.body,
		))
}

func errorStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(s)
}

func successStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render(s)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}
