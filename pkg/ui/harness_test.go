package ui

import (
	"fmt"
	"io"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/vanderheijden86/newsboard/pkg/apitest"
	"github.com/vanderheijden86/newsboard/pkg/gateway"
	"github.com/vanderheijden86/newsboard/pkg/model"
	"github.com/vanderheijden86/newsboard/pkg/session"
)

var testUsers = []model.User{
	{ID: "1", Name: "Ann"},
	{ID: "2", Name: "Bob"},
	{ID: "3", Name: "Cy"},
}

// fixedNow is 1772597167008 in Unix milliseconds.
var fixedNow = time.Date(2026, 3, 4, 4, 6, 7, 8_000_000, time.UTC)

func testNews() []model.NewsItem {
	return []model.NewsItem{
		{
			ID:       "7",
			Title:    "Budget Cuts",
			Body:     "The council voted on next year's budget today.",
			AuthorID: "2",
			Comments: []model.Comment{},
		},
		{
			ID:       "8",
			Title:    "Local Elections",
			Body:     "Polls open at eight across the whole district.",
			AuthorID: "3",
			Comments: []model.Comment{
				{ID: "100", Text: "Finally", UserID: "1", Timestamp: "2026-03-01T10:00:00.000Z"},
			},
		},
	}
}

// harness runs a Model synchronously: commands are executed inline and
// the messages they produce are fed back into Update.
type harness struct {
	t     *testing.T
	srv   *apitest.Server
	store session.Store
	state *AppState
	m     Model

	// forwardAll feeds every produced message back into Update, not only
	// the app's own, up to this many. Components such as huh advance on
	// internal messages.
	forwardAll int
}

func newHarness(t *testing.T, loggedInAs string) *harness {
	t.Helper()
	srv := apitest.New(testUsers, testNews())
	t.Cleanup(srv.Close)

	store, err := session.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	h := &harness{t: t, srv: srv, store: store}
	if loggedInAs != "" {
		h.persistSession(loggedInAs)
	}
	h.start()
	return h
}

// start boots a fresh Model over the same store and API, like restarting
// the program.
func (h *harness) start() {
	h.t.Helper()
	gw, err := gateway.New(h.srv.URL)
	if err != nil {
		h.t.Fatal(err)
	}
	sm := session.NewManager(h.store, zerolog.Nop())
	h.state = NewAppState(gw, sm, zerolog.Nop())
	h.state.Now = func() time.Time { return fixedNow }
	h.m = NewModel(h.state, Options{
		MarkdownStyle: "notty",
		WordWrap:      80,
		Renderer:      lipgloss.NewRenderer(io.Discard),
	})
	h.run(h.m.Init())
}

func (h *harness) persistSession(userID string) {
	h.t.Helper()
	u, ok := model.Roster(testUsers).Find(model.ID(userID))
	if !ok {
		h.t.Fatalf("no test user %s", userID)
	}
	data, err := json.Marshal(u)
	if err != nil {
		h.t.Fatal(err)
	}
	if err := h.store.Set(session.StorageKey, data); err != nil {
		h.t.Fatal(err)
	}
}

func (h *harness) send(msg tea.Msg) {
	h.t.Helper()
	next, cmd := h.m.Update(msg)
	h.m = next.(Model)
	h.run(cmd)
}

func (h *harness) run(cmd tea.Cmd) {
	h.t.Helper()
	if cmd == nil {
		return
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(time.Second):
		return // cursor blinks and similar timers
	}
	if cmds, ok := cmdList(msg); ok {
		for _, c := range cmds {
			h.run(c)
		}
		return
	}
	switch msg := msg.(type) {
	case appMsg:
		h.send(msg)
	case nil:
	default:
		if h.forwardAll > 0 && !isBlink(msg) {
			h.forwardAll--
			h.send(msg)
		}
	}
}

// cmdList unpacks tea.Batch and tea.Sequence results. The sequence type is
// unexported, so it is matched by shape.
func cmdList(msg tea.Msg) ([]tea.Cmd, bool) {
	if b, ok := msg.(tea.BatchMsg); ok {
		return b, true
	}
	v := reflect.ValueOf(msg)
	if !v.IsValid() || v.Kind() != reflect.Slice || v.Type().Elem() != reflect.TypeOf(tea.Cmd(nil)) {
		return nil, false
	}
	cmds := make([]tea.Cmd, v.Len())
	for i := range cmds {
		cmds[i] = v.Index(i).Interface().(tea.Cmd)
	}
	return cmds, true
}

func isBlink(msg tea.Msg) bool {
	_, ok := msg.(cursor.BlinkMsg)
	return ok || strings.HasPrefix(fmt.Sprintf("%T", msg), "cursor.")
}

func (h *harness) press(keys ...string) {
	h.t.Helper()
	for _, k := range keys {
		h.send(keyMsg(k))
	}
}

// typeText sends s as a single burst of runes.
func (h *harness) typeText(s string) {
	h.t.Helper()
	h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func (h *harness) login(userID string) {
	h.t.Helper()
	h.send(ActionMsg{Action: ActionLogin, UserID: userID})
}

func (h *harness) view() View { return h.m.Route().View }

func (h *harness) modalMessage() string {
	if md, ok := h.m.Modal(); ok {
		return md.Message()
	}
	return ""
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "f1":
		return tea.KeyMsg{Type: tea.KeyF1}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}
