package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type modalKind int

const (
	modalAlert modalKind = iota
	modalConfirm
)

// ConfirmPrompt is the question asked before deleting an article.
const ConfirmPrompt = "Are you sure?"

// ModalModel is a blocking dialog shown over the active view: an alert
// that only needs acknowledging, or a yes/no confirmation.
type ModalModel struct {
	kind      modalKind
	message   string
	onConfirm tea.Cmd
	width     int
	height    int
	theme     Theme
}

// NewAlert creates an alert showing message.
func NewAlert(message string, theme Theme) ModalModel {
	return ModalModel{kind: modalAlert, message: message, theme: theme}
}

// NewConfirm creates a confirmation that runs onConfirm when accepted.
func NewConfirm(message string, onConfirm tea.Cmd, theme Theme) ModalModel {
	return ModalModel{kind: modalConfirm, message: message, onConfirm: onConfirm, theme: theme}
}

// SetSize updates the dimensions the modal is centered in.
func (m *ModalModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Message returns the text shown in the modal.
func (m ModalModel) Message() string { return m.message }

// IsConfirm reports whether this is a yes/no prompt.
func (m ModalModel) IsConfirm() bool { return m.kind == modalConfirm }

// HandleKey processes a key press. closed reports whether the modal should
// be dismissed; cmd is the accepted confirmation's command, if any.
func (m ModalModel) HandleKey(msg tea.KeyMsg) (closed bool, cmd tea.Cmd) {
	switch m.kind {
	case modalConfirm:
		switch msg.String() {
		case "y", "Y", "enter":
			return true, m.onConfirm
		case "n", "N", "esc", "q":
			return true, nil
		}
	default:
		switch msg.String() {
		case "enter", "esc", " ", "q":
			return true, nil
		}
	}
	return false, nil
}

// View renders the modal centered in its area.
func (m *ModalModel) View() string {
	if m.width == 0 {
		m.width = 60
	}
	if m.height == 0 {
		m.height = 20
	}
	t := m.theme

	boxWidth := 40
	if m.width < 50 {
		boxWidth = m.width - 10
	}
	if boxWidth < 24 {
		boxWidth = 24
	}

	title := "Notice"
	border := t.Primary
	hint := "enter: ok"
	if m.kind == modalConfirm {
		title = "Confirm"
		border = t.Danger
		hint = "y: yes | n: no"
	}

	var lines []string
	lines = append(lines, t.Renderer.NewStyle().Foreground(border).Bold(true).Render(title))
	lines = append(lines, "")
	lines = append(lines, t.Base.Render(m.message))
	lines = append(lines, "")
	lines = append(lines, t.Renderer.NewStyle().Foreground(t.Secondary).Italic(true).Render(hint))

	box := t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(1, 2).
		Width(boxWidth).
		Render(strings.Join(lines, "\n"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
