package ui

import (
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/newsboard/pkg/export"
	"github.com/vanderheijden86/newsboard/pkg/model"
)

// DetailView shows one article with its comments and a comment box.
type DetailView struct {
	state    *AppState
	theme    Theme
	viewport viewport.Model
	markdown *MarkdownRenderer
	comment  textinput.Model

	item model.NewsItem
	has  bool

	width  int
	height int
}

// NewDetailView creates an empty detail view.
func NewDetailView(state *AppState, theme Theme, md *MarkdownRenderer) DetailView {
	ti := textinput.New()
	ti.Placeholder = "Write a comment..."
	ti.Prompt = "> "
	ti.CharLimit = 0
	ti.Cursor.SetMode(cursor.CursorStatic)

	return DetailView{
		state:    state,
		theme:    theme,
		viewport: viewport.New(80, 16),
		markdown: md,
		comment:  ti,
		width:    80,
		height:   20,
	}
}

// SetSize resizes the viewport and comment box.
func (d *DetailView) SetSize(width, height int) {
	d.width = width
	d.height = height
	d.viewport.Width = width
	vh := height - 3
	if vh < 3 {
		vh = 3
	}
	d.viewport.Height = vh
	d.comment.Width = width - 4
	d.markdown.SetWidth(width - 2)
	d.refresh()
}

// SetItem shows item and rebuilds the content.
func (d *DetailView) SetItem(item model.NewsItem) {
	d.item = item
	d.has = true
	d.refresh()
}

// Item returns the article shown.
func (d DetailView) Item() (model.NewsItem, bool) { return d.item, d.has }

// CommentText returns the comment being written.
func (d DetailView) CommentText() string { return d.comment.Value() }

// ClearComment empties and unfocuses the comment box.
func (d *DetailView) ClearComment() {
	d.comment.SetValue("")
	d.comment.Blur()
}

// Commenting reports whether the comment box has focus.
func (d DetailView) Commenting() bool { return d.comment.Focused() }

// Update handles keys for the detail view.
func (d DetailView) Update(msg tea.KeyMsg) (DetailView, tea.Cmd) {
	if d.comment.Focused() {
		switch msg.String() {
		case "enter":
			return d, actionCmd(ActionMsg{Action: ActionComment, ItemID: d.item.ID})
		case "esc":
			d.comment.Blur()
			return d, nil
		}
		var cmd tea.Cmd
		d.comment, cmd = d.comment.Update(msg)
		return d, cmd
	}

	switch msg.String() {
	case "c", "i":
		cmd := d.comment.Focus()
		return d, cmd
	case "esc", "backspace", "h":
		return d, actionCmd(ActionMsg{Action: ActionBack})
	case "y":
		return d, actionCmd(ActionMsg{Action: ActionCopy, ItemID: d.item.ID})
	}
	var cmd tea.Cmd
	d.viewport, cmd = d.viewport.Update(msg)
	return d, cmd
}

// Markdown returns the article as markdown: title, author, body and
// comments.
func (d DetailView) Markdown() string {
	return export.ArticleMarkdown(d.item, d.state.Session.Roster(), 1)
}

func (d *DetailView) refresh() {
	if !d.has {
		d.viewport.SetContent("")
		return
	}
	md := d.Markdown()
	out, err := d.markdown.Render(md)
	if err != nil {
		d.state.Log.Warn().Err(err).Msg("markdown render failed")
	}
	d.viewport.SetContent(out)
}

// View renders the article and the comment box.
func (d DetailView) View() string {
	t := d.theme
	hint := "c: comment | y: copy | esc: back"
	if d.comment.Focused() {
		hint = "enter: post | esc: stop writing"
	}
	return d.viewport.View() + "\n" +
		d.comment.View() + "\n" +
		t.Renderer.NewStyle().Foreground(t.Muted).Italic(true).Render(hint)
}

// copyToClipboard writes text to the system clipboard.
func copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		return ClipboardMsg{Err: clipboard.WriteAll(text)}
	}
}
