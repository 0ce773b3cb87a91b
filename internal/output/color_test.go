package output

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestResolveColorMode(t *testing.T) {
	tests := []struct {
		colorMode string
		isTTY     bool
		want      bool
	}{
		{colorMode: "never", isTTY: true, want: false},
		{colorMode: "never", isTTY: false, want: false},
		{colorMode: "always", isTTY: true, want: true},
		{colorMode: "always", isTTY: false, want: true},
		{colorMode: "auto", isTTY: true, want: true},
		{colorMode: "auto", isTTY: false, want: false},
		{colorMode: "", isTTY: true, want: true},
		{colorMode: "bogus", isTTY: false, want: false},
	}

	for _, tt := range tests {
		if got := ResolveColorMode(tt.colorMode, tt.isTTY); got != tt.want {
			t.Errorf("ResolveColorMode(%q, %v) = %v, want %v", tt.colorMode, tt.isTTY, got, tt.want)
		}
	}
}

func TestIsTTY_Buffer(t *testing.T) {
	var buf bytes.Buffer
	if IsTTY(&buf) {
		t.Error("IsTTY(buffer) should return false")
	}
}

func TestPrinter_ColorStyles(t *testing.T) {
	empty := lipgloss.NewStyle()

	never := NewPrinter(&bytes.Buffer{}, false, ResolveColorMode("never", true))
	if never.isTTY || never.styles.Error.GetForeground() != empty.GetForeground() {
		t.Error("color=never should clear styles")
	}

	always := NewPrinter(&bytes.Buffer{}, false, ResolveColorMode("always", false))
	if !always.isTTY || always.styles.Error.GetForeground() == empty.GetForeground() {
		t.Error("color=always should keep styles")
	}
}

func TestPrinter_NeverNoANSI(t *testing.T) {
	var buf bytes.Buffer
	printer := NewPrinter(&buf, false, ResolveColorMode("never", true))

	printer.Error(NewDataError("backup.daylio not found in archive", nil))
	printer.Status("written", "notes/x.md")

	if containsANSI(buf.String()) {
		t.Errorf("--color never should produce no ANSI codes, got: %q", buf.String())
	}
}

// containsANSI checks if a string contains ANSI escape sequences.
func containsANSI(s string) bool {
	for i := range len(s) - 1 {
		if s[i] == '\033' && s[i+1] == '[' {
			return true
		}
	}
	return false
}
