package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/newsboard/pkg/model"
)

// appMsg marks messages produced by this package's commands.
type appMsg interface{ appMsg() }

// Operation is the kind of mutation sent to the API.
type Operation int

const (
	OpCreate Operation = iota
	OpUpdate
	OpDelete
	OpComment
)

func (o Operation) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	case OpComment:
		return "comment"
	}
	return "unknown"
}

// ActionMsg carries a user intent from a view to the root model.
type ActionMsg struct {
	Action Action
	ItemID model.ID
	Item   *model.NewsItem
	UserID string
	// Confirmed is set once the user has answered a confirmation prompt.
	Confirmed bool
}

// BootMsg delivers the user roster and, when a session was restored, the
// first page of news.
type BootMsg struct {
	Users []model.User
	News  []model.NewsItem
	Err   error
}

// RefreshMsg delivers a concurrent reload of users and news.
type RefreshMsg struct {
	Users []model.User
	News  []model.NewsItem
	Err   error
}

// NewsListMsg delivers the full news collection.
type NewsListMsg struct {
	Items []model.NewsItem
	Err   error
}

// NewsItemMsg delivers a single article for the detail view.
type NewsItemMsg struct {
	Item model.NewsItem
	Err  error
}

// MutationResultMsg is returned after a create, update, delete or comment
// request completes.
type MutationResultMsg struct {
	Operation Operation
	ItemID    model.ID
	Err       error
}

// SessionChangedMsg reports that the persisted session changed outside this
// process.
type SessionChangedMsg struct{}

// ClipboardMsg reports the outcome of a copy to the system clipboard.
type ClipboardMsg struct {
	Err error
}

func (ActionMsg) appMsg()         {}
func (BootMsg) appMsg()           {}
func (RefreshMsg) appMsg()        {}
func (NewsListMsg) appMsg()       {}
func (NewsItemMsg) appMsg()       {}
func (MutationResultMsg) appMsg() {}
func (SessionChangedMsg) appMsg() {}
func (ClipboardMsg) appMsg()      {}

func actionCmd(msg ActionMsg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// Requests wraps Gateway calls as tea.Cmds so they run off the update loop.
type Requests struct {
	gw  Gateway
	log zerolog.Logger
}

// NewRequests creates a Requests over gw.
func NewRequests(gw Gateway, log zerolog.Logger) *Requests {
	return &Requests{gw: gw, log: log.With().Str("component", "requests").Logger()}
}

// Boot fetches the roster and, if withNews, the news collection in
// parallel.
func (r *Requests) Boot(withNews bool) tea.Cmd {
	gw := r.gw
	return func() tea.Msg {
		users, news, err := fetchBoth(gw, withNews)
		return BootMsg{Users: users, News: news, Err: err}
	}
}

// Refresh reloads the roster and the news collection in parallel.
func (r *Requests) Refresh() tea.Cmd {
	gw := r.gw
	return func() tea.Msg {
		users, news, err := fetchBoth(gw, true)
		return RefreshMsg{Users: users, News: news, Err: err}
	}
}

func fetchBoth(gw Gateway, withNews bool) ([]model.User, []model.NewsItem, error) {
	var users []model.User
	var news []model.NewsItem
	g, ctx := errgroup.WithContext(context.Background())
	g.Go(func() error {
		var err error
		users, err = gw.ListUsers(ctx)
		return err
	})
	if withNews {
		g.Go(func() error {
			var err error
			news, err = gw.ListNews(ctx)
			return err
		})
	}
	err := g.Wait()
	return users, news, err
}

// ListNews fetches the full news collection.
func (r *Requests) ListNews() tea.Cmd {
	gw := r.gw
	return func() tea.Msg {
		items, err := gw.ListNews(context.Background())
		return NewsListMsg{Items: items, Err: err}
	}
}

// GetNews fetches one article.
func (r *Requests) GetNews(id model.ID) tea.Cmd {
	gw := r.gw
	return func() tea.Msg {
		item, err := gw.GetNews(context.Background(), id)
		return NewsItemMsg{Item: item, Err: err}
	}
}

// Create posts a new article.
func (r *Requests) Create(draft model.NewsDraft) tea.Cmd {
	return r.mutate(OpCreate, "", func(ctx context.Context) (model.ID, error) {
		item, err := r.gw.CreateNews(ctx, draft)
		return item.ID, err
	})
}

// Update patches an article's title and body.
func (r *Requests) Update(id model.ID, p model.NewsPatch) tea.Cmd {
	return r.mutate(OpUpdate, id, func(ctx context.Context) (model.ID, error) {
		_, err := r.gw.UpdateNews(ctx, id, p)
		return id, err
	})
}

// Comment replaces an article's comment list.
func (r *Requests) Comment(id model.ID, comments []model.Comment) tea.Cmd {
	p := model.CommentsPatch(comments)
	return r.mutate(OpComment, id, func(ctx context.Context) (model.ID, error) {
		_, err := r.gw.UpdateNews(ctx, id, p)
		return id, err
	})
}

// Delete removes an article.
func (r *Requests) Delete(id model.ID) tea.Cmd {
	return r.mutate(OpDelete, id, func(ctx context.Context) (model.ID, error) {
		return id, r.gw.DeleteNews(ctx, id)
	})
}

// mutate runs fn asynchronously and reports the result.
func (r *Requests) mutate(op Operation, id model.ID, fn func(context.Context) (model.ID, error)) tea.Cmd {
	log := r.log
	return func() tea.Msg {
		gotID, err := fn(context.Background())
		if err != nil {
			log.Error().Err(err).Stringer("op", op).Str("id", id.String()).Msg("request failed")
			return MutationResultMsg{Operation: op, ItemID: id, Err: fmt.Errorf("%s failed: %w", op, err)}
		}
		log.Info().Stringer("op", op).Str("id", gotID.String()).Msg("request succeeded")
		return MutationResultMsg{Operation: op, ItemID: gotID}
	}
}
