package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// WatcherState is the lifecycle state of a Watcher.
type WatcherState int

const (
	// WatcherIdle means the watcher was created but not started.
	WatcherIdle WatcherState = iota
	// WatcherRunning means change events are being delivered.
	WatcherRunning
	// WatcherStopped means the watcher has been shut down.
	WatcherStopped
)

// Watcher reports changes made to a Store by other processes, so a running
// client notices a login or logout done elsewhere.
type Watcher struct {
	target   string // file or directory backing the store
	debounce time.Duration
	onChange func()
	log      zerolog.Logger

	mu    sync.Mutex
	state WatcherState
	timer *time.Timer

	fs     *fsnotify.Watcher
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// WatcherConfig configures a Watcher.
type WatcherConfig struct {
	Store    Store
	Debounce time.Duration
	OnChange func()
	Logger   zerolog.Logger
}

// NewWatcher prepares a watcher over the store's backing path.
func NewWatcher(cfg WatcherConfig) (*Watcher, error) {
	if cfg.OnChange == nil {
		return nil, fmt.Errorf("watcher: OnChange is required")
	}
	if cfg.Debounce == 0 {
		cfg.Debounce = 200 * time.Millisecond
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		target:   cfg.Store.Path(),
		debounce: cfg.Debounce,
		onChange: cfg.OnChange,
		log:      cfg.Logger.With().Str("component", "session-watcher").Logger(),
		fs:       fw,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching. Calling it again has no effect.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != WatcherIdle {
		return nil
	}

	dir := w.target
	if info, err := os.Stat(w.target); err != nil || !info.IsDir() {
		// Watch the parent: sqlite and atomic renames replace the file.
		dir = filepath.Dir(w.target)
	}
	if err := w.fs.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.state = WatcherRunning
	go w.loop()
	return nil
}

// Stop shuts the watcher down. Calling it again has no effect.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.state == WatcherStopped {
		w.mu.Unlock()
		return
	}
	wasRunning := w.state == WatcherRunning
	w.state = WatcherStopped
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	w.cancel()
	w.fs.Close()
	if wasRunning {
		select {
		case <-w.done:
		case <-time.After(2 * time.Second):
		}
	}
}

// State returns the current lifecycle state.
func (w *Watcher) State() WatcherState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case <-w.ctx.Done():
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if w.relevant(ev) {
				w.schedule()
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("watch error")
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(ev.Name)
	if strings.HasPrefix(base, ".") {
		return false // temp files from atomic writes
	}
	if info, err := os.Stat(w.target); err == nil && info.IsDir() {
		return base == StorageKey+".json"
	}
	return strings.HasPrefix(base, filepath.Base(w.target))
}

// schedule coalesces bursts of events into one notification.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != WatcherRunning {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		if w.State() == WatcherRunning {
			w.onChange()
		}
	})
}
