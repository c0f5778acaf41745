// Package session tracks who is logged in and keeps that choice across
// restarts.
//
// Logging in is a selection from the roster, not authentication. Nothing
// here proves identity to the API server.
package session

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/vanderheijden86/newsboard/pkg/model"
)

// StorageKey is the fixed key the active user is persisted under.
const StorageKey = "user"

// Manager holds the active user and the cached roster.
type Manager struct {
	store   Store
	log     zerolog.Logger
	roster  model.Roster
	current *model.User
}

// NewManager creates a Manager and restores any persisted session.
func NewManager(store Store, log zerolog.Logger) *Manager {
	m := &Manager{
		store: store,
		log:   log.With().Str("component", "session").Logger(),
	}
	m.Restore()
	return m
}

// Restore reloads the active user from the store. A missing or unreadable
// entry leaves no active session.
func (m *Manager) Restore() {
	m.current = nil
	raw, ok, err := m.store.Get(StorageKey)
	if err != nil {
		m.log.Warn().Err(err).Msg("read persisted session")
		return
	}
	if !ok {
		return
	}
	var u model.User
	if err := json.Unmarshal(raw, &u); err != nil || u.ID.IsZero() {
		m.log.Warn().Err(err).Msg("discarding unreadable persisted session")
		return
	}
	m.current = &u
}

// SetRoster replaces the cached user list.
func (m *Manager) SetRoster(users []model.User) {
	m.roster = model.Roster(users)
}

// Roster returns the cached user list.
func (m *Manager) Roster() model.Roster { return m.roster }

// DisplayName resolves a user id against the roster.
func (m *Manager) DisplayName(id model.ID) string {
	return m.roster.DisplayName(id)
}

// Login makes the roster user with userID active and persists it.
func (m *Manager) Login(userID string) (model.User, error) {
	if userID == "" {
		return model.User{}, model.ErrNoUserSelected
	}
	u, ok := m.roster.Find(model.ID(userID))
	if !ok {
		return model.User{}, fmt.Errorf("login %s: %w", userID, model.ErrUnknownUser)
	}
	raw, err := json.Marshal(u)
	if err != nil {
		return model.User{}, fmt.Errorf("encode session: %w", err)
	}
	if err := m.store.Set(StorageKey, raw); err != nil {
		return model.User{}, fmt.Errorf("persist session: %w", err)
	}
	m.current = &u
	m.log.Info().Str("user_id", u.ID.String()).Msg("logged in")
	return u, nil
}

// Logout forgets the active user here and in the store.
func (m *Manager) Logout() error {
	if err := m.store.Delete(StorageKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	if m.current != nil {
		m.log.Info().Str("user_id", m.current.ID.String()).Msg("logged out")
	}
	m.current = nil
	return nil
}

// Current returns the active user, if any.
func (m *Manager) Current() (model.User, bool) {
	if m.current == nil {
		return model.User{}, false
	}
	return *m.current, true
}

// CurrentRef returns the active user or nil, for ownership checks.
func (m *Manager) CurrentRef() *model.User {
	if m.current == nil {
		return nil
	}
	u := *m.current
	return &u
}

// Active reports whether someone is logged in.
func (m *Manager) Active() bool { return m.current != nil }

// Store exposes the backing store.
func (m *Manager) Store() Store { return m.store }
