package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"typechat/internal/styles"
)

// View renders the application
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	sections := []string{m.renderHeader()}

	if m.conv.Len() == 0 {
		sections = append(sections, styles.EmptyState.
			Width(m.width).
			Height(m.viewport.Height).
			Render(EmptyText))
	} else {
		sections = append(sections, m.viewport.View())
	}

	sections = append(sections, m.renderInput(), m.renderStatusBar())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader shows the title and, when there is something to clear, the
// clear control.
func (m Model) renderHeader() string {
	left := styles.Header.Render(Title)
	if m.conv.Len() == 0 {
		return left
	}
	right := styles.ClearControl.Render("Clear Chat (ctrl+l)")
	return spread(left, right, m.width)
}

func (m Model) renderInput() string {
	if m.conv.Generating() {
		return styles.InputDisabled.
			Width(m.width - 2).
			Render("Waiting for response... (enter or esc to stop)")
	}
	return styles.InputBorder.Width(m.width - 2).Render(m.input.View())
}

// renderStatusBar shows the send/stop toggle and key help.
func (m Model) renderStatusBar() string {
	var button string
	if m.conv.Generating() {
		button = styles.StopButton.Render(ButtonLabel(true))
	} else {
		button = styles.SendButton.Render(ButtonLabel(false))
	}
	help := styles.StatusBar.Render("enter: send/stop • pgup/pgdown: scroll • ctrl+c: quit")
	return spread(button, help, m.width)
}

// ButtonLabel is the label of the send/stop toggle.
func ButtonLabel(generating bool) string {
	if generating {
		return "Stop"
	}
	return "Send"
}

// renderConversation renders every entry top to bottom.
func (m Model) renderConversation() string {
	var sb strings.Builder
	for i, r := range m.renderers {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(r.View(m.width))
	}
	return sb.String()
}

// spread places left and right at opposite ends of a line of the given width.
func spread(left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, left, strings.Repeat(" ", gap), right)
}
