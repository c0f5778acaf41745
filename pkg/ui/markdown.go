package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer renders article bodies for the terminal.
type MarkdownRenderer struct {
	renderer *glamour.TermRenderer
	width    int
	style    string
}

// NewMarkdownRenderer creates a renderer wrapping at width using a glamour
// standard style ("dark", "light" or "notty").
func NewMarkdownRenderer(width int, style string) *MarkdownRenderer {
	mr := &MarkdownRenderer{width: width, style: style}
	mr.build()
	return mr
}

func (mr *MarkdownRenderer) build() {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(mr.style),
		glamour.WithWordWrap(mr.width),
	)
	if err != nil {
		mr.renderer = nil
		return
	}
	mr.renderer = r
}

// SetWidth rebuilds the renderer when the wrap width changes.
func (mr *MarkdownRenderer) SetWidth(width int) {
	if width == mr.width || width <= 0 {
		return
	}
	mr.width = width
	mr.build()
}

// Render converts markdown to styled text. Without a renderer the input is
// returned unchanged.
func (mr *MarkdownRenderer) Render(md string) (string, error) {
	if mr.renderer == nil {
		return md, nil
	}
	out, err := mr.renderer.Render(md)
	if err != nil {
		return md, err
	}
	return strings.TrimRight(out, "\n"), nil
}
