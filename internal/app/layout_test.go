package app

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func TestHelpLinesAlignWithColor(t *testing.T) {
	prev := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.ANSI256)
	t.Cleanup(func() { lipgloss.SetColorProfile(prev) })

	keys := DefaultKeys()
	for _, kb := range keys.FullHelp() {
		line := helpLine(kb)
		if !strings.Contains(line, "\x1b[") {
			t.Fatalf("expected styled output for %q", kb.Help().Key)
		}
		desc := kb.Help().Desc
		if !kb.Enabled() {
			desc += " (disabled)"
		}
		if got, want := lipgloss.Width(line), 7+lipgloss.Width(desc); got != want {
			t.Errorf("%q: width %d, want %d", kb.Help().Key, got, want)
		}
	}
}

func TestHelpLineMarksDisabled(t *testing.T) {
	kb := key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "erase flash"))
	kb.SetEnabled(false)
	if !strings.Contains(helpLine(kb), "(disabled)") {
		t.Fatalf("expected disabled marker, got %q", helpLine(kb))
	}
}
