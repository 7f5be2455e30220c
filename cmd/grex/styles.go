package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/lysokunvoath/grex/internal/client"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#04B575")).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#10B981"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	favoriteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B")).
			Bold(true)

	badgeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)
)

func noticeStyle(kind client.NoticeKind) lipgloss.Style {
	switch kind {
	case client.NoticeSuccess:
		return successStyle
	case client.NoticeError:
		return errorStyle
	default:
		return infoStyle
	}
}

// report prints n and turns an error notice into a command failure.
func report(n client.Notice) error {
	if n.Empty() {
		return nil
	}
	if n.Kind == client.NoticeError {
		return noticeError(n.Text)
	}
	fmt.Println(noticeStyle(n.Kind).Render(n.Text))
	return nil
}

// noticeError is printed by main once, already styled.
type noticeError string

func (e noticeError) Error() string { return string(e) }
