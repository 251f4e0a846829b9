package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/buckleypaul/dude/internal/ui"
)

// PickerKind says what a picker is choosing.
type PickerKind int

const (
	PickPort PickerKind = iota
	PickBoard
)

func (k PickerKind) noun() string {
	if k == PickPort {
		return "ports"
	}
	return "boards"
}

// PickerItem represents a selectable item in the picker.
type PickerItem struct {
	Value string
	Desc  string
}

// PickerSelectedMsg is sent when the user selects an item.
type PickerSelectedMsg struct {
	Kind  PickerKind
	Value string
}

// PickerClosedMsg is sent when the user closes the picker without selecting.
type PickerClosedMsg struct{}

// Picker is a filtered-list overlay for choosing a port or a board.
type Picker struct {
	kind     PickerKind
	items    []PickerItem
	filtered []PickerItem
	input    textinput.Model
	cursor   int
	width    int
}

const maxPickerItems = 10

// NewPicker creates a picker over items with the cursor on current.
func NewPicker(kind PickerKind, items []PickerItem, current string) *Picker {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 64

	p := &Picker{kind: kind, items: items, input: ti}
	p.filter()
	for i, item := range p.filtered {
		if item.Value == current {
			p.cursor = i
		}
	}
	return p
}

// SetWidth sets the available width.
func (p *Picker) SetWidth(w int) {
	p.width = w
}

// Update handles input for the picker.
func (p *Picker) Update(msg tea.Msg) (*Picker, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			return p, func() tea.Msg { return PickerClosedMsg{} }
		case "enter":
			if p.cursor < len(p.filtered) {
				sel := PickerSelectedMsg{Kind: p.kind, Value: p.filtered[p.cursor].Value}
				return p, func() tea.Msg { return sel }
			}
			return p, nil
		case "up":
			if p.cursor > 0 {
				p.cursor--
			}
			return p, nil
		case "down":
			if p.cursor < len(p.filtered)-1 {
				p.cursor++
			}
			return p, nil
		}
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	p.filter()
	return p, cmd
}

// View renders the picker box.
func (p *Picker) View() string {
	boxWidth := min(max(p.width-4, 30), 60)
	innerWidth := boxWidth - 4

	var b strings.Builder
	p.input.Width = innerWidth - 3
	b.WriteString(p.input.View())
	b.WriteString("\n\n")

	start := 0
	if p.cursor >= maxPickerItems {
		start = p.cursor - maxPickerItems + 1
	}
	end := min(start+maxPickerItems, len(p.filtered))

	for i := start; i < end; i++ {
		item := p.filtered[i]
		line := item.Value
		if item.Desc != "" {
			line += "  " + ui.DimStyle.Render(item.Desc)
		}
		if i == p.cursor {
			b.WriteString(ui.SelectedStyle.Render("> ") + line)
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	if len(p.filtered) == 0 {
		b.WriteString(ui.DimStyle.Render("  No matches"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(ui.DimStyle.Render(fmt.Sprintf("(%d/%d %s)  esc:close", len(p.filtered), len(p.items), p.kind.noun())))

	title := "Select Port"
	if p.kind == PickBoard {
		title = "Select Board"
	}
	return ui.Panel(ui.TitleStyle.Render(title), b.String(), boxWidth, 0, true)
}

func (p *Picker) filter() {
	query := strings.ToLower(p.input.Value())
	if query == "" {
		p.filtered = p.items
	} else {
		p.filtered = nil
		for _, item := range p.items {
			if fuzzyMatch(strings.ToLower(item.Value), query) {
				p.filtered = append(p.filtered, item)
			}
		}
	}
	if p.cursor >= len(p.filtered) {
		p.cursor = len(p.filtered) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

// fuzzyMatch checks if all characters in query appear in s in order.
func fuzzyMatch(s, query string) bool {
	qi := 0
	for i := 0; i < len(s) && qi < len(query); i++ {
		if s[i] == query[qi] {
			qi++
		}
	}
	return qi == len(query)
}
