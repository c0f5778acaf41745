package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/newsboard/pkg/model"
)

// cardHeight is the number of terminal rows one rendered card takes,
// including its border.
const cardHeight = 5

// newsItem adapts an article to list.Item.
type newsItem struct{ model.NewsItem }

func (i newsItem) FilterValue() string { return i.Title }

// cardDelegate draws each article as a bordered card whose action row
// depends on who is logged in.
type cardDelegate struct {
	state *AppState
	theme Theme
}

func (d cardDelegate) Height() int { return cardHeight }
func (d cardDelegate) Spacing() int { return 0 }
func (d cardDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d cardDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ni, ok := item.(newsItem)
	if !ok {
		return
	}
	fmt.Fprint(w, d.renderCard(ni.NewsItem, m.Width(), index == m.Index()))
}

// ListView shows the news collection as cards with a title search box.
type ListView struct {
	state *AppState
	theme Theme

	search textinput.Model
	all    []model.NewsItem
	items  []model.NewsItem // all, filtered by the search query
	list   list.Model

	width  int
	height int
}

// NewListView creates an empty list.
func NewListView(state *AppState, theme Theme) ListView {
	ti := textinput.New()
	ti.Placeholder = "Search by title..."
	ti.Prompt = "/ "
	ti.CharLimit = 120
	ti.Cursor.SetMode(cursor.CursorStatic)

	l := list.New(nil, cardDelegate{state: state, theme: theme}, 80, 23)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	// The search box above the cards does the filtering.
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	l.KeyMap.ShowFullHelp.SetEnabled(false)
	l.KeyMap.CloseFullHelp.SetEnabled(false)
	l.Paginator.Type = paginator.Arabic
	l.Styles.PaginationStyle = theme.Renderer.NewStyle().Foreground(theme.Muted)

	return ListView{state: state, theme: theme, search: ti, list: l, width: 80, height: 24}
}

// SetSize updates the area the list renders into.
func (l *ListView) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.search.Width = width - 4
	l.list.SetSize(width, max(height-1, cardHeight))
}

// SetItems replaces the collection and reapplies the current search.
func (l *ListView) SetItems(items []model.NewsItem) {
	l.all = items
	l.applyFilter()
}

func (l *ListView) applyFilter() {
	l.items = model.FilterByTitle(l.all, l.search.Value())
	listItems := make([]list.Item, len(l.items))
	for i, it := range l.items {
		listItems[i] = newsItem{NewsItem: it}
	}
	l.list.SetItems(listItems)
	if n := len(l.items); n > 0 && l.list.Index() >= n {
		l.list.Select(n - 1)
	}
}

// Query returns the search text.
func (l ListView) Query() string { return l.search.Value() }

// Items returns the visible, filtered articles.
func (l ListView) Items() []model.NewsItem { return l.items }

// Selected returns the highlighted article.
func (l ListView) Selected() (model.NewsItem, bool) {
	ni, ok := l.list.SelectedItem().(newsItem)
	if !ok {
		return model.NewsItem{}, false
	}
	return ni.NewsItem, true
}

// Searching reports whether the search box has focus.
func (l ListView) Searching() bool { return l.search.Focused() }

// CardActions returns the controls shown on an article's card. Edit and
// Delete appear only for the article's author.
func CardActions(item model.NewsItem, user *model.User) []string {
	actions := []string{"View Details"}
	if item.OwnedBy(user) {
		actions = append(actions, "Edit", "Delete")
	}
	return actions
}

// Update handles keys for the list.
func (l ListView) Update(msg tea.KeyMsg) (ListView, tea.Cmd) {
	if l.search.Focused() {
		return l.updateSearch(msg)
	}

	switch msg.String() {
	case "/":
		cmd := l.search.Focus()
		return l, cmd
	case "enter":
		if item, ok := l.Selected(); ok {
			return l, actionCmd(ActionMsg{Action: ActionView, ItemID: item.ID})
		}
	case "n":
		return l, actionCmd(ActionMsg{Action: ActionNew})
	case "e":
		if item, ok := l.Selected(); ok && item.OwnedBy(l.state.Session.CurrentRef()) {
			return l, actionCmd(ActionMsg{Action: ActionEdit, ItemID: item.ID, Item: &item})
		}
		return l, nil
	case "d":
		if item, ok := l.Selected(); ok && item.OwnedBy(l.state.Session.CurrentRef()) {
			return l, actionCmd(ActionMsg{Action: ActionDelete, ItemID: item.ID})
		}
		return l, nil
	case "r":
		return l, actionCmd(ActionMsg{Action: ActionRefresh})
	case "L":
		return l, actionCmd(ActionMsg{Action: ActionLogout})
	}
	var cmd tea.Cmd
	l.list, cmd = l.list.Update(msg)
	return l, cmd
}

func (l ListView) updateSearch(msg tea.KeyMsg) (ListView, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc", "tab":
		l.search.Blur()
		return l, nil
	}
	before := l.search.Value()
	var cmd tea.Cmd
	l.search, cmd = l.search.Update(msg)
	if l.search.Value() == before {
		return l, cmd
	}
	// Every keystroke refetches; the response is filtered with whatever the
	// query is when it arrives.
	return l, tea.Batch(cmd, actionCmd(ActionMsg{Action: ActionFilter}))
}

// View renders the search box and the current page of cards.
func (l ListView) View() string {
	t := l.theme
	var b strings.Builder
	b.WriteString(l.search.View())
	b.WriteString("\n")

	if len(l.items) == 0 {
		msg := "No news yet. Press n to write the first article."
		if l.search.Value() != "" {
			msg = fmt.Sprintf("No articles match %q.", l.search.Value())
		}
		b.WriteString(t.Renderer.NewStyle().Foreground(t.Muted).Italic(true).Render(msg))
		return b.String()
	}
	b.WriteString(l.list.View())
	return strings.TrimRight(b.String(), "\n ")
}

var actionKeys = map[string]string{
	"View Details": "enter",
	"Edit":         "e",
	"Delete":       "d",
}

func (d cardDelegate) renderCard(item model.NewsItem, width int, selected bool) string {
	t := d.theme
	user := d.state.Session.CurrentRef()
	inner := width - 4
	if inner < 20 {
		inner = 20
	}

	title := runewidth.Truncate(item.Title, inner, "…")
	meta := fmt.Sprintf("By %s | Comments: %d", d.state.Session.DisplayName(item.AuthorID), len(item.Comments))

	var actions []string
	for _, a := range CardActions(item, user) {
		key := t.Renderer.NewStyle().Foreground(t.Highlight).Render("[" + actionKeys[a] + "]")
		label := a
		if a == "Delete" {
			label = t.Renderer.NewStyle().Foreground(t.Danger).Render(a)
		}
		actions = append(actions, key+" "+label)
	}

	border := t.Border
	titleStyle := t.Base.Bold(true)
	if selected {
		border = t.Primary
		titleStyle = titleStyle.Foreground(t.Primary)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(title),
		t.Renderer.NewStyle().Foreground(t.Subtext).Render(runewidth.Truncate(meta, inner, "…")),
		strings.Join(actions, "  "),
	)
	return t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(inner).
		Render(content)
}
