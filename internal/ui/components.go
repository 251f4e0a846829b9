package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Panel draws content in a rounded box of the given outer width, with title
// set into the top edge. A height of 0 sizes the box to its content.
// lipgloss counts padding inside Width, so only the side borders come off.
func Panel(title, content string, width, height int, focused bool) string {
	color := Subtle
	if focused {
		color = Primary
	}
	border := lipgloss.RoundedBorder()

	body := lipgloss.NewStyle().
		Width(max(width-2, 0)).
		Border(border, false, true, true, true).
		BorderForeground(color).
		Padding(0, 1)
	if height > 0 {
		body = body.Height(height - 2)
	}

	return panelTop(border, title, width, color) + "\n" + body.Render(content)
}

// panelTop renders "╭─ title ───╮" spanning width cells.
func panelTop(border lipgloss.Border, title string, width int, color lipgloss.Color) string {
	edge := lipgloss.NewStyle().Foreground(color)
	fill := max(width-lipgloss.Width(title)-5, 0)
	return edge.Render(border.TopLeft+border.Top+" ") +
		title +
		edge.Render(" "+strings.Repeat(border.Top, fill)+border.TopRight)
}

// StatusKey renders one "key:desc" hint for the status bar.
func StatusKey(k, desc string) string {
	return StatusBarKeyStyle.Render(k) + StatusBarStyle.Render(":"+desc)
}

// Outcome is how the last action ended.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeFailed
	OutcomeNotStarted
)

// OutcomeBadge renders text on a background colored by outcome.
func OutcomeBadge(o Outcome, text string) string {
	bg := Success
	switch o {
	case OutcomeFailed:
		bg = Error
	case OutcomeNotStarted:
		bg = Warning
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("230")).
		Background(bg).
		Padding(0, 1).
		Render(text)
}

// Button renders an action label, struck through when disabled.
func Button(hotkey, label string, enabled bool) string {
	text := "[" + hotkey + "] " + label
	if !enabled {
		return DisabledStyle.Render(text)
	}
	return BoldStyle.Render(text)
}
