package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/newsboard/pkg/model"
)

// Options tunes rendering.
type Options struct {
	MarkdownStyle string
	WordWrap      int
	Renderer      *lipgloss.Renderer
}

// Model is the root bubbletea model. It owns the router and the four
// views and performs every state transition.
type Model struct {
	state    *AppState
	requests *Requests
	router   Router
	theme    Theme

	login  LoginView
	list   ListView
	form   FormView
	detail DetailView

	modal    *ModalModel
	showHelp bool
	status   string
	busy     bool

	width    int
	height   int
	wordWrap int
}

// NewModel creates the root model over state.
func NewModel(state *AppState, opts Options) Model {
	r := opts.Renderer
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	if opts.WordWrap <= 0 {
		opts.WordWrap = 80
	}
	if opts.MarkdownStyle == "" {
		opts.MarkdownStyle = "dark"
	}
	theme := DefaultTheme(r)
	md := NewMarkdownRenderer(opts.WordWrap, opts.MarkdownStyle)

	m := Model{
		state:    state,
		requests: NewRequests(state.Gateway, state.Log),
		theme:    theme,
		login:    NewLoginView(nil, theme),
		list:     NewListView(state, theme),
		form:     NewFormView(theme),
		detail:   NewDetailView(state, theme, md),
		wordWrap: opts.WordWrap,
	}
	m.resize(80, 24)
	return m
}

// Init fetches the roster, plus the news when a session was restored.
func (m Model) Init() tea.Cmd {
	return m.requests.Boot(m.state.Session.Active())
}

// Route returns the active route.
func (m Model) Route() Route { return m.router.Route() }

// Status returns the status line text.
func (m Model) Status() string { return m.status }

// Modal returns the open modal, if any.
func (m Model) Modal() (ModalModel, bool) {
	if m.modal == nil {
		return ModalModel{}, false
	}
	return *m.modal, true
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		if m.router.View() == ViewLogin {
			var cmd tea.Cmd
			m.login, cmd = m.login.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ActionMsg:
		return m.dispatch(msg)

	case BootMsg:
		return m.handleBoot(msg)

	case RefreshMsg:
		m.busy = false
		if len(msg.Users) > 0 {
			m.state.Session.SetRoster(msg.Users)
		}
		if msg.Err != nil {
			m.reportError("refresh", msg.Err)
			return m, nil
		}
		m.list.SetItems(msg.News)
		m.status = fmt.Sprintf("Loaded %d articles", len(msg.News))
		return m, nil

	case NewsListMsg:
		m.busy = false
		if msg.Err != nil {
			m.reportError("load news", msg.Err)
			return m, nil
		}
		m.list.SetItems(msg.Items)
		return m, nil

	case NewsItemMsg:
		m.busy = false
		if msg.Err != nil {
			m.reportError("load article", msg.Err)
			return m, nil
		}
		if v := m.router.View(); v != ViewList && v != ViewDetail {
			return m, nil
		}
		m.state.SetCurrentItem(msg.Item)
		m.detail.SetItem(msg.Item)
		m.router.Go(Route{View: ViewDetail})
		return m, nil

	case MutationResultMsg:
		return m.handleMutation(msg)

	case SessionChangedMsg:
		return m.handleSessionChanged()

	case ClipboardMsg:
		if msg.Err != nil {
			m.reportError("copy", msg.Err)
		} else {
			m.status = "Copied article to clipboard"
		}
		return m, nil
	}

	// huh drives its picker with internal messages.
	if m.router.View() == ViewLogin {
		var cmd tea.Cmd
		m.login, cmd = m.login.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.modal != nil {
		closed, cmd := m.modal.HandleKey(msg)
		if closed {
			m.modal = nil
		}
		return m, cmd
	}

	if m.showHelp {
		switch msg.String() {
		case "?", "esc", "q", "f1":
			m.showHelp = false
		}
		return m, nil
	}

	// f1 works even while a text input has focus.
	if msg.String() == "f1" {
		m.showHelp = true
		return m, nil
	}

	typing := m.typing()
	if !typing {
		switch msg.String() {
		case "?":
			m.showHelp = true
			return m, nil
		case "q":
			if v := m.router.View(); v == ViewList || v == ViewNone {
				return m, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	switch m.router.View() {
	case ViewLogin:
		m.login, cmd = m.login.Update(msg)
	case ViewList:
		m.list, cmd = m.list.Update(msg)
	case ViewForm:
		m.form, cmd = m.form.Update(msg)
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	}
	return m, cmd
}

// typing reports whether keys should go to a text input rather than be
// treated as shortcuts.
func (m Model) typing() bool {
	switch m.router.View() {
	case ViewLogin, ViewForm:
		return true
	case ViewList:
		return m.list.Searching()
	case ViewDetail:
		return m.detail.Commenting()
	}
	return false
}

// dispatch performs a user action if the active view accepts it.
func (m Model) dispatch(a ActionMsg) (tea.Model, tea.Cmd) {
	log := m.state.Log
	if !m.router.Allows(a.Action) {
		log.Debug().Stringer("action", a.Action).Stringer("view", m.router.View()).Msg("action ignored")
		return m, nil
	}
	log.Debug().Stringer("action", a.Action).Str("item", a.ItemID.String()).Msg("dispatch")

	switch a.Action {
	case ActionLogin:
		u, err := m.state.Session.Login(a.UserID)
		if err != nil {
			m.alert(err)
			return m, nil
		}
		log.Info().Str("user", u.ID.String()).Msg("logged in")
		cmd := m.enterList()
		return m, cmd

	case ActionLogout:
		if err := m.state.Session.Logout(); err != nil {
			m.reportError("logout", err)
		}
		log.Info().Msg("logged out")
		cmd := m.enterLogin()
		return m, cmd

	case ActionNew:
		cmd := m.enterForm(FormCreate, nil)
		return m, cmd

	case ActionEdit:
		item := a.Item
		if item == nil {
			if sel, ok := m.list.Selected(); ok && sel.ID == a.ItemID {
				item = &sel
			}
		}
		if item == nil || !item.OwnedBy(m.state.Session.CurrentRef()) {
			m.alert(model.ErrUnauthorized)
			return m, nil
		}
		m.state.SetCurrentItem(*item)
		cmd := m.enterForm(FormEdit, item)
		return m, cmd

	case ActionDelete:
		if !a.Confirmed {
			confirmed := a
			confirmed.Confirmed = true
			modal := NewConfirm(ConfirmPrompt, actionCmd(confirmed), m.theme)
			modal.SetSize(m.width, m.bodyHeight())
			m.modal = &modal
			return m, nil
		}
		m.busy = true
		return m, m.requests.Delete(a.ItemID)

	case ActionView:
		m.busy = true
		return m, m.requests.GetNews(a.ItemID)

	case ActionFilter:
		return m, m.requests.ListNews()

	case ActionRefresh:
		m.busy = true
		m.status = "Refreshing..."
		return m, m.requests.Refresh()

	case ActionSubmit:
		return m.submitForm()

	case ActionCancel, ActionBack:
		cmd := m.enterList()
		return m, cmd

	case ActionComment:
		return m.submitComment()

	case ActionCopy:
		if _, ok := m.detail.Item(); !ok {
			return m, nil
		}
		return m, copyToClipboard(m.detail.Markdown())
	}
	return m, nil
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	user, ok := m.state.Session.Current()
	if !ok {
		m.alert(model.ErrNoUserSelected)
		cmd := m.enterLogin()
		return m, cmd
	}
	title, body := m.form.Values()

	if m.form.Mode() == FormCreate {
		draft, err := model.NewDraft(title, body, user.ID)
		if err != nil {
			m.alert(err)
			return m, nil
		}
		m.busy = true
		return m, m.requests.Create(draft)
	}

	patch, err := model.ContentPatch(title, body)
	if err != nil {
		m.alert(err)
		return m, nil
	}
	m.busy = true
	return m, m.requests.Update(m.form.ItemID(), patch)
}

func (m Model) submitComment() (tea.Model, tea.Cmd) {
	user, ok := m.state.Session.Current()
	if !ok {
		m.alert(model.ErrNoUserSelected)
		cmd := m.enterLogin()
		return m, cmd
	}
	item, ok := m.state.CurrentItem()
	if !ok {
		return m, nil
	}
	c, err := model.NewComment(m.detail.CommentText(), user.ID, m.state.now())
	if err != nil {
		m.alert(err)
		return m, nil
	}
	updated := item.WithComment(c)
	m.busy = true
	return m, m.requests.Comment(item.ID, updated.Comments)
}

func (m Model) handleBoot(msg BootMsg) (tea.Model, tea.Cmd) {
	m.state.Session.SetRoster(msg.Users)
	if msg.Err != nil {
		m.reportError("startup", msg.Err)
	}
	if !m.state.Session.Active() {
		cmd := m.enterLogin()
		return m, cmd
	}
	m.router.Go(Route{View: ViewList})
	m.list.SetItems(msg.News)
	return m, nil
}

func (m Model) handleMutation(msg MutationResultMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	if msg.Err != nil {
		m.reportError(msg.Operation.String(), msg.Err)
		return m, nil
	}
	switch msg.Operation {
	case OpCreate:
		m.status = "Article published"
		cmd := m.enterList()
		return m, cmd
	case OpUpdate:
		m.status = "Article updated"
		cmd := m.enterList()
		return m, cmd
	case OpDelete:
		m.status = "Article deleted"
		return m, m.requests.ListNews()
	case OpComment:
		m.detail.ClearComment()
		m.status = "Comment posted"
		return m, m.requests.GetNews(msg.ItemID)
	}
	return m, nil
}

// handleSessionChanged follows a login or logout made by another process.
func (m Model) handleSessionChanged() (tea.Model, tea.Cmd) {
	m.state.Session.Restore()
	active := m.state.Session.Active()
	switch {
	case !active && m.router.View() != ViewLogin && m.router.View() != ViewNone:
		m.status = "Session ended elsewhere"
		m.modal = nil
		cmd := m.enterLogin()
		return m, cmd
	case active && m.router.View() == ViewLogin:
		cmd := m.enterList()
		return m, cmd
	}
	return m, nil
}

func (m *Model) enterLogin() tea.Cmd {
	m.state.ClearCurrentItem()
	m.router.Go(Route{View: ViewLogin})
	m.login = NewLoginView(m.state.Session.Roster(), m.theme)
	m.login.SetWidth(m.width)
	return m.login.Init()
}

func (m *Model) enterList() tea.Cmd {
	m.state.ClearCurrentItem()
	m.router.Go(Route{View: ViewList})
	return m.requests.ListNews()
}

func (m *Model) enterForm(mode FormMode, item *model.NewsItem) tea.Cmd {
	m.router.Go(Route{View: ViewForm, Mode: mode})
	return m.form.Load(mode, item)
}

func (m *Model) alert(err error) {
	if !model.IsUserFacing(err) {
		m.state.Log.Error().Err(err).Msg("unexpected error")
	}
	modal := NewAlert(model.UserMessage(err), m.theme)
	modal.SetSize(m.width, m.bodyHeight())
	m.modal = &modal
}

// reportError shows a network or storage failure in the status line.
func (m *Model) reportError(op string, err error) {
	m.state.Log.Error().Err(err).Str("op", op).Msg("operation failed")
	m.status = fmt.Sprintf("Error (%s): %v", op, err)
}

func (m *Model) bodyHeight() int {
	h := m.height - 2
	if h < 3 {
		h = 3
	}
	return h
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	bh := m.bodyHeight()
	m.list.SetSize(width, bh-1)
	m.form.SetWidth(width)
	m.detail.SetSize(width, bh)
	m.login.SetWidth(width)
	if m.modal != nil {
		m.modal.SetSize(width, bh)
	}
}

// View renders the header, the active view (or an overlay) and the footer.
func (m Model) View() string {
	var body string
	switch m.router.View() {
	case ViewLogin:
		body = m.login.View()
	case ViewList:
		body = m.list.View()
	case ViewForm:
		body = m.form.View()
	case ViewDetail:
		body = m.detail.View()
	default:
		body = m.theme.Renderer.NewStyle().Foreground(m.theme.Muted).Render("Loading...")
	}

	if m.showHelp {
		body = RenderContextHelp(m.router.View(), m.theme, m.width, m.bodyHeight())
	}
	if m.modal != nil {
		body = m.modal.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderFooter())
}

func (m Model) renderHeader() string {
	t := m.theme
	title := t.Renderer.NewStyle().Foreground(t.Primary).Bold(true).Padding(0, 1).Render("newsboard")
	if u, ok := m.state.Session.Current(); ok {
		who := t.Renderer.NewStyle().Foreground(t.Secondary).Render("Logged in as: " + u.Name)
		return lipgloss.JoinHorizontal(lipgloss.Bottom, title, " ", who)
	}
	return title
}

func (m Model) renderFooter() string {
	t := m.theme
	var keys string
	switch m.router.View() {
	case ViewLogin:
		keys = "enter: log in | f1: help | ctrl+c: quit"
	case ViewList:
		if m.list.Searching() {
			keys = "enter/esc: done searching"
		} else {
			keys = "enter: view | n: new | /: search | r: refresh | L: logout | ?: help | q: quit"
		}
	case ViewForm:
		keys = "ctrl+s: save | esc: cancel | f1: help"
	case ViewDetail:
		keys = "esc: back | ?: help"
	}

	status := m.status
	if m.busy && status == "" {
		status = "Working..."
	}
	statusStyle := t.Renderer.NewStyle().Foreground(t.Highlight).Padding(0, 1)
	keysStyle := t.Renderer.NewStyle().Foreground(t.Subtext).Padding(0, 1)

	left := statusStyle.Render(status)
	right := keysStyle.Render(keys)
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return lipgloss.JoinVertical(lipgloss.Left, left, right)
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, t.Renderer.NewStyle().Width(gap).Render(""), right)
}
