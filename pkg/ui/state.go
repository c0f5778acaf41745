package ui

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/vanderheijden86/newsboard/pkg/model"
	"github.com/vanderheijden86/newsboard/pkg/session"
)

// Gateway is the remote store the UI talks to.
type Gateway interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	ListNews(ctx context.Context) ([]model.NewsItem, error)
	GetNews(ctx context.Context, id model.ID) (model.NewsItem, error)
	CreateNews(ctx context.Context, draft model.NewsDraft) (model.NewsItem, error)
	UpdateNews(ctx context.Context, id model.ID, p model.NewsPatch) (model.NewsItem, error)
	DeleteNews(ctx context.Context, id model.ID) error
}

// AppState is shared by every view: the gateway, the session and the
// article currently open in the detail or edit view.
type AppState struct {
	Gateway Gateway
	Session *session.Manager
	Log     zerolog.Logger
	Now     func() time.Time

	current *model.NewsItem
}

// NewAppState wires the shared state.
func NewAppState(gw Gateway, sm *session.Manager, log zerolog.Logger) *AppState {
	return &AppState{Gateway: gw, Session: sm, Log: log, Now: time.Now}
}

// CurrentItem returns the article being viewed or edited.
func (s *AppState) CurrentItem() (model.NewsItem, bool) {
	if s.current == nil {
		return model.NewsItem{}, false
	}
	return *s.current, true
}

// SetCurrentItem records the article being viewed or edited.
func (s *AppState) SetCurrentItem(item model.NewsItem) {
	c := item.Clone()
	s.current = &c
}

// ClearCurrentItem forgets the current article.
func (s *AppState) ClearCurrentItem() { s.current = nil }

func (s *AppState) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
