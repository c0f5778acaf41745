package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ContextHelpContent holds the quick reference shown for each view.
// Content should fit on one screen without scrolling.
var ContextHelpContent = map[View]string{
	ViewLogin:  contextHelpLogin,
	ViewList:   contextHelpList,
	ViewForm:   contextHelpForm,
	ViewDetail: contextHelpDetail,
}

// GetContextHelp returns the help content for a view, falling back to the
// generic keys.
func GetContextHelp(v View) string {
	if content, ok := ContextHelpContent[v]; ok {
		return content
	}
	return contextHelpGeneric
}

// RenderContextHelp renders the help modal for a view.
func RenderContextHelp(v View, theme Theme, width, height int) string {
	content := GetContextHelp(v)
	r := theme.Renderer

	modalWidth := 56
	if modalWidth > width-4 {
		modalWidth = width - 4
	}
	if modalWidth < 20 {
		modalWidth = 20
	}

	var b strings.Builder
	b.WriteString(r.NewStyle().Bold(true).Foreground(theme.Primary).Render("Quick Reference"))
	b.WriteString("\n")
	b.WriteString(r.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", modalWidth-4)))
	b.WriteString("\n\n")
	b.WriteString(r.NewStyle().Foreground(theme.Subtext).Render(content))
	b.WriteString("\n\n")
	b.WriteString(r.NewStyle().Foreground(theme.Muted).Italic(true).Render("?, F1 or Esc to close"))

	box := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Secondary).
		Padding(1, 2).
		Width(modalWidth).
		Render(b.String())

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

const contextHelpLogin = `## Login

  j/k       Move through users
  Enter     Log in as the highlighted user
  F1        This help
  Ctrl+C    Quit`

const contextHelpList = `## News

**Navigation**
  j/k       Move up/down
  g/G       Jump to top/bottom
  h/l       Previous/next page
  Enter     View article

**Articles**
  n         New article
  e         Edit (your articles)
  d         Delete (your articles)

**Other**
  /         Search titles
  r         Refresh
  L         Log out
  q         Quit`

const contextHelpForm = `## Article Form

  Tab       Next field
  Shift+Tab Previous field
  Ctrl+S    Save
  Esc       Cancel
  F1        This help

Body needs at least 20 characters.`

const contextHelpDetail = `## Article

  j/k       Scroll
  c         Write a comment
  Enter     Post comment (while writing)
  y         Copy article to clipboard
  Esc       Back to the list`

const contextHelpGeneric = `## Keys

  ?         Toggle this help
  F1        Help, also while typing
  Ctrl+C    Quit`
