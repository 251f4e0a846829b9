package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestPanelSpansWidth(t *testing.T) {
	out := Panel("Log", "avrdude done.  Thank you.", 40, 5, true)
	lines := strings.Split(out, "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "╭─ Log ") || !strings.HasSuffix(lines[0], "╮") {
		t.Fatalf("unexpected top edge %q", lines[0])
	}
	for i, l := range lines {
		if w := lipgloss.Width(l); w != 40 {
			t.Errorf("line %d width %d, want 40: %q", i, w, l)
		}
	}
}

func TestPanelNarrowerThanTitle(t *testing.T) {
	out := Panel("Controls", "", 4, 0, false)
	if !strings.Contains(out, "Controls") {
		t.Fatalf("title dropped: %q", out)
	}
}

func TestOutcomeBadgeAndButton(t *testing.T) {
	for _, o := range []Outcome{OutcomeOK, OutcomeFailed, OutcomeNotStarted} {
		if got := OutcomeBadge(o, "verify"); !strings.Contains(got, "verify") {
			t.Errorf("outcome %d: badge %q lost its text", o, got)
		}
	}
	if got := Button("e", "Erase flash", false); !strings.Contains(got, "[e] Erase flash") {
		t.Fatalf("unexpected button %q", got)
	}
}
