package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7C3AED")).
		Padding(0, 1)

	photoStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#3B82F6"))

	messageStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#10B981")).
		Padding(0, 1).
		Width(80)

	errorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#EF4444")).
		Bold(true)
)

// consoleSender renders pipeline output to stdout so the analyze command can
// run the same pipeline the webhook serves, without a chat on the other end.
type consoleSender struct{}

func (consoleSender) SendText(ctx context.Context, chatID int64, text string) error {
	fmt.Println(messageStyle.Render(text))
	return nil
}

func (consoleSender) SendPhoto(ctx context.Context, chatID int64, photoURL, caption string) error {
	fmt.Println(photoStyle.Render(fmt.Sprintf("🖼  %s: %s", caption, photoURL)))
	return nil
}
