package ui

import (
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func testTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(io.Discard))
}

func TestConfirm_Keys(t *testing.T) {
	fired := false
	onYes := func() tea.Msg { fired = true; return nil }

	tests := []struct {
		key       string
		closed    bool
		confirmed bool
	}{
		{"y", true, true},
		{"enter", true, true},
		{"n", true, false},
		{"esc", true, false},
		{"x", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			fired = false
			m := NewConfirm(ConfirmPrompt, onYes, testTheme())
			closed, cmd := m.HandleKey(keyMsg(tt.key))
			if closed != tt.closed {
				t.Errorf("closed = %v, want %v", closed, tt.closed)
			}
			if cmd != nil {
				cmd()
			}
			if fired != tt.confirmed {
				t.Errorf("confirmed = %v, want %v", fired, tt.confirmed)
			}
		})
	}
}

func TestAlert_DismissesOnEnter(t *testing.T) {
	m := NewAlert("Unauthorized", testTheme())
	if m.IsConfirm() {
		t.Error("alert reported as confirm")
	}
	if closed, _ := m.HandleKey(keyMsg("j")); closed {
		t.Error("j should not dismiss the alert")
	}
	if closed, cmd := m.HandleKey(keyMsg("enter")); !closed || cmd != nil {
		t.Error("enter should dismiss without a command")
	}
}

func TestModal_ViewShowsMessage(t *testing.T) {
	m := NewConfirm(ConfirmPrompt, nil, testTheme())
	m.SetSize(80, 20)
	out := m.View()
	if !strings.Contains(out, ConfirmPrompt) || !strings.Contains(out, "y: yes") {
		t.Errorf("unexpected modal view:\n%s", out)
	}
}

func TestRenderContextHelp_PerView(t *testing.T) {
	for v := range ContextHelpContent {
		out := RenderContextHelp(v, testTheme(), 80, 30)
		if !strings.Contains(out, "Quick Reference") {
			t.Errorf("%v help missing title", v)
		}
	}
	if GetContextHelp(ViewNone) != contextHelpGeneric {
		t.Error("unknown view should fall back to generic help")
	}
}
