package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"

	"github.com/buckleypaul/dude/internal/avrdude"
	"github.com/buckleypaul/dude/internal/ui"
)

// controlsHeight is the rendered height of the controls panel.
const controlsHeight = 6

func renderHeader(port, board string, running bool, action avrdude.Action, spin, badge string, width int) string {
	portDisplay := port
	if portDisplay == "" {
		portDisplay = "(none)"
	}
	content := ui.TitleStyle.Render("dude") + fmt.Sprintf("  Port: %s  Board: %s", portDisplay, board)
	if running {
		content += "  " + spin + " " + action.String() + " running"
	} else if badge != "" {
		content += "  " + badge
	}
	return ui.HeaderStyle.Width(width).Render(content)
}

func renderBody(m Model) string {
	var b strings.Builder

	var ports []string
	for _, p := range m.ports {
		name := p.Name
		if name == m.port {
			name = ui.SelectedStyle.Render("● " + name)
		} else {
			name = ui.DimStyle.Render("○ " + name)
		}
		ports = append(ports, name)
	}
	portLine := ui.DimStyle.Render("no serial ports detected")
	if len(ports) > 0 {
		portLine = strings.Join(ports, "  ")
	}

	var boards []string
	for _, id := range avrdude.Boards() {
		if id == m.board {
			boards = append(boards, ui.SelectedStyle.Render("● "+id))
		} else {
			boards = append(boards, ui.DimStyle.Render("○ "+id))
		}
	}

	var ctl strings.Builder
	ctl.WriteString(ui.BoldStyle.Render("Port   ") + portLine + "\n")
	ctl.WriteString(ui.BoldStyle.Render("Board  ") + strings.Join(boards, "  ") + "\n\n")
	ctl.WriteString(ui.Button("e", "Erase flash", m.keys.Erase.Enabled()))
	ctl.WriteString("   ")
	ctl.WriteString(ui.Button("v", "Verify", m.keys.Verify.Enabled()))

	b.WriteString(ui.Panel("Controls", ctl.String(), m.width-2, controlsHeight, !m.running))
	b.WriteString("\n")
	b.WriteString(ui.Panel("Log", m.viewport.View(), m.width-2, 0, m.running))

	return ui.ContentStyle.Render(b.String())
}

func renderLog(lines []logLine, width int) string {
	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteString("\n")
		}
		text := l.text
		if width > 0 {
			text = wrap.String(text, width)
		}
		switch l.kind {
		case logError:
			b.WriteString(ui.ErrorStyle.Render(text))
		case logSuccess:
			b.WriteString(ui.SuccessStyle.Render(text))
		case logInfo:
			b.WriteString(ui.InfoStyle.Render(text))
		default:
			b.WriteString(ui.OutputStyle.Render(text))
		}
	}
	return b.String()
}

func renderStatusBar(bindings []key.Binding, width int) string {
	var parts []string
	for _, kb := range bindings {
		if kb.Enabled() {
			parts = append(parts, ui.StatusKey(kb.Help().Key, kb.Help().Desc))
		}
	}
	return ui.StatusBarStyle.Width(width).Render(strings.Join(parts, "  "))
}

func renderHelp(bindings []key.Binding) string {
	var b strings.Builder
	for _, kb := range bindings {
		b.WriteString(helpLine(kb) + "\n")
	}
	return ui.Panel(ui.TitleStyle.Render("Keys"), b.String(), 40, 0, true)
}

// helpLine pads the key before styling so escape codes don't eat the column.
func helpLine(kb key.Binding) string {
	desc := kb.Help().Desc
	if !kb.Enabled() {
		desc += ui.DimStyle.Render(" (disabled)")
	}
	return ui.BoldStyle.Render(fmt.Sprintf("%-6s", kb.Help().Key)) + " " + desc
}

func overlay(base, box string, width int) string {
	return lipgloss.Place(width, lipgloss.Height(base), lipgloss.Center, lipgloss.Center, box)
}

func renderLayout(header, body, statusBar string) string {
	return lipgloss.JoinVertical(lipgloss.Left, header, body, statusBar)
}
