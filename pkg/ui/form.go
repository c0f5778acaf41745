package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/newsboard/pkg/model"
)

const (
	fieldTitle = iota
	fieldBody
)

// FormView edits an article's title and body, for both creating and
// editing.
type FormView struct {
	theme  Theme
	mode   FormMode
	itemID model.ID

	title textinput.Model
	body  textarea.Model
	focus int

	// The inputs sanitize tabs and newlines, so an untouched field is
	// submitted from the stored text rather than read back from the input.
	orig   [2]string
	loaded [2]string

	width int
}

// NewFormView creates an empty form.
func NewFormView(theme Theme) FormView {
	ti := textinput.New()
	ti.Placeholder = "Title"
	ti.Prompt = ""
	ti.CharLimit = 0
	ti.Cursor.SetMode(cursor.CursorStatic)

	ta := textarea.New()
	ta.Placeholder = fmt.Sprintf("Body (at least %d characters)", model.MinBodyLength)
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(8)
	ta.Cursor.SetMode(cursor.CursorStatic)

	return FormView{theme: theme, title: ti, body: ta, width: 80}
}

// SetWidth resizes the inputs.
func (f *FormView) SetWidth(w int) {
	f.width = w
	f.title.Width = w - 4
	f.body.SetWidth(w - 2)
}

// Load prepares the form. Create mode starts blank; edit mode is prefilled
// from item.
func (f *FormView) Load(mode FormMode, item *model.NewsItem) tea.Cmd {
	f.mode = mode
	f.itemID = ""
	f.orig = [2]string{}
	if mode == FormEdit && item != nil {
		f.itemID = item.ID
		f.orig = [2]string{item.Title, item.Body}
	}
	f.title.SetValue(f.orig[fieldTitle])
	f.title.CursorEnd()
	f.body.SetValue(f.orig[fieldBody])
	f.loaded = [2]string{f.title.Value(), f.body.Value()}
	f.focus = fieldTitle
	f.body.Blur()
	return f.title.Focus()
}

// Mode returns whether the form creates or edits.
func (f FormView) Mode() FormMode { return f.mode }

// ItemID returns the id of the article being edited.
func (f FormView) ItemID() model.ID { return f.itemID }

// Values returns the current title and body.
func (f FormView) Values() (title, body string) {
	title, body = f.title.Value(), f.body.Value()
	if title == f.loaded[fieldTitle] {
		title = f.orig[fieldTitle]
	}
	if body == f.loaded[fieldBody] {
		body = f.orig[fieldBody]
	}
	return title, body
}

// Update handles keys for the form.
func (f FormView) Update(msg tea.KeyMsg) (FormView, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		return f, actionCmd(ActionMsg{Action: ActionSubmit, ItemID: f.itemID})
	case "esc":
		return f, actionCmd(ActionMsg{Action: ActionCancel})
	case "tab", "shift+tab":
		cmd := f.toggleFocus()
		return f, cmd
	case "enter":
		if f.focus == fieldTitle {
			cmd := f.toggleFocus()
			return f, cmd
		}
	}

	var cmd tea.Cmd
	if f.focus == fieldTitle {
		f.title, cmd = f.title.Update(msg)
	} else {
		f.body, cmd = f.body.Update(msg)
	}
	return f, cmd
}

func (f *FormView) toggleFocus() tea.Cmd {
	if f.focus == fieldTitle {
		f.focus = fieldBody
		f.title.Blur()
		return f.body.Focus()
	}
	f.focus = fieldTitle
	f.body.Blur()
	return f.title.Focus()
}

// View renders the form.
func (f FormView) View() string {
	t := f.theme
	heading := "New Article"
	if f.mode == FormEdit {
		heading = "Edit Article"
	}
	label := t.Renderer.NewStyle().Foreground(t.Subtext)
	active := t.Renderer.NewStyle().Foreground(t.Primary).Bold(true)

	titleLabel, bodyLabel := label, label
	if f.focus == fieldTitle {
		titleLabel = active
	} else {
		bodyLabel = active
	}

	n := utf8.RuneCountInString(f.body.Value())
	counter := fmt.Sprintf("%d/%d", n, model.MinBodyLength)
	counterStyle := t.Renderer.NewStyle().Foreground(t.Danger)
	if n >= model.MinBodyLength {
		counterStyle = counterStyle.Foreground(t.Secondary)
	}

	var b strings.Builder
	b.WriteString(t.Renderer.NewStyle().Foreground(t.Primary).Bold(true).Render(heading))
	b.WriteString("\n\n")
	b.WriteString(titleLabel.Render("Title"))
	b.WriteString("\n")
	b.WriteString(f.title.View())
	b.WriteString("\n\n")
	b.WriteString(bodyLabel.Render("Body") + " " + counterStyle.Render(counter))
	b.WriteString("\n")
	b.WriteString(f.body.View())
	b.WriteString("\n\n")
	b.WriteString(t.Renderer.NewStyle().Foreground(t.Muted).Italic(true).Render("tab: next field | ctrl+s: save | esc: cancel"))
	return b.String()
}
