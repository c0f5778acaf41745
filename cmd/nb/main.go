// Command nb is a terminal client for a shared news board.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/vanderheijden86/newsboard/pkg/config"
	"github.com/vanderheijden86/newsboard/pkg/export"
	"github.com/vanderheijden86/newsboard/pkg/gateway"
	"github.com/vanderheijden86/newsboard/pkg/logging"
	"github.com/vanderheijden86/newsboard/pkg/model"
	"github.com/vanderheijden86/newsboard/pkg/session"
	"github.com/vanderheijden86/newsboard/pkg/ui"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

type options struct {
	configPath string
	apiURL     string
	help       bool
	version    bool
	initConfig bool
	whoami     bool
	logout     bool
	exportMD   string
}

func parseFlags(args []string, stderr io.Writer) (options, *flag.FlagSet, error) {
	var o options
	fs := flag.NewFlagSet("nb", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "config", "", "Path to the config file (default "+config.DefaultPath()+")")
	fs.StringVar(&o.apiURL, "api-url", "", "Base URL of the news API (overrides config)")
	fs.BoolVar(&o.help, "help", false, "Show help")
	fs.BoolVar(&o.version, "version", false, "Show version")
	fs.BoolVar(&o.initConfig, "init-config", false, "Write a default config file and exit")
	fs.BoolVar(&o.whoami, "whoami", false, "Print the logged in user and exit")
	fs.BoolVar(&o.logout, "logout", false, "Clear the saved session and exit")
	fs.StringVar(&o.exportMD, "export-md", "", "Export the board to a Markdown file (e.g., digest.md) and exit")
	err := fs.Parse(args)
	return o, fs, err
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, fs, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if opts.help {
		fmt.Fprintln(stdout, "Usage: nb [options]")
		fmt.Fprintln(stdout, "\nA terminal client for a shared news board.")
		fs.SetOutput(stdout)
		fs.PrintDefaults()
		return 0
	}
	if opts.version {
		fmt.Fprintf(stdout, "nb %s\n", version)
		return 0
	}
	if opts.initConfig {
		path := opts.configPath
		if path == "" {
			path = config.DefaultPath()
		}
		if err := config.WriteDefault(path); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "Wrote %s\n", path)
		return 0
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	logger, logCloser, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Warning: %v; logging disabled\n", err)
		logger = zerolog.Nop()
	} else {
		defer logCloser.Close()
	}

	store, err := session.Open(cfg.Storage.Backend, cfg.Storage.Dir)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer store.Close()
	sm := session.NewManager(store, logger)

	switch {
	case opts.whoami:
		return whoami(sm, stdout)
	case opts.logout:
		if err := sm.Logout(); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Fprintln(stdout, "Logged out")
		return 0
	}

	gw, err := gateway.New(cfg.API.URL,
		gateway.WithTimeout(cfg.API.Timeout),
		gateway.WithLogger(logger),
	)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if opts.exportMD != "" {
		if err := exportDigest(context.Background(), gw, opts.exportMD); err != nil {
			logger.Error().Err(err).Msg("export failed")
			fmt.Fprintf(stderr, "Error exporting: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "Exported board to %s\n", opts.exportMD)
		return 0
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) || !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(stderr, "Error: nb needs an interactive terminal")
		return 1
	}

	logger.Info().Str("api", gw.BaseURL()).Str("storage", cfg.Storage.Backend).Str("version", version).Msg("starting")

	state := ui.NewAppState(gw, sm, logger)
	m := ui.NewModel(state, ui.Options{
		MarkdownStyle: cfg.UI.MarkdownStyle,
		WordWrap:      cfg.UI.WordWrap,
	})
	p := tea.NewProgram(m, tea.WithAltScreen())

	w, err := session.NewWatcher(session.WatcherConfig{
		Store:    store,
		OnChange: func() { p.Send(ui.SessionChangedMsg{}) },
		Logger:   logger,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("session watcher unavailable")
	} else {
		if err := w.Start(); err != nil {
			logger.Warn().Err(err).Msg("session watcher not started")
		}
		defer w.Stop()
	}

	if _, err := p.Run(); err != nil {
		logger.Error().Err(err).Msg("program exited with error")
		fmt.Fprintf(stderr, "Error running nb: %v\n", err)
		return 1
	}
	return 0
}

// loadConfig merges the discovered config files, the environment and the
// --api-url flag.
func loadConfig(opts options) (*config.Config, error) {
	userPath := config.DefaultPath()
	if opts.configPath != "" {
		if _, err := os.Stat(opts.configPath); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		userPath = opts.configPath
	}
	cfg, err := config.Load(config.DiscoverFiles(userPath)...)
	if err != nil {
		return nil, err
	}
	if opts.apiURL != "" {
		cfg.API.URL = opts.apiURL
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// exportDigest fetches the roster and the news in parallel and writes a
// Markdown digest to path.
func exportDigest(ctx context.Context, gw *gateway.Client, path string) error {
	var users []model.User
	var news []model.NewsItem
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = gw.ListUsers(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		news, err = gw.ListNews(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	return export.SaveMarkdownToFile(news, model.Roster(users), path)
}

func whoami(sm *session.Manager, w io.Writer) int {
	u, ok := sm.Current()
	if !ok {
		fmt.Fprintln(w, "Not logged in")
		return 1
	}
	fmt.Fprintf(w, "%s (id %s)\n", u.Name, u.ID)
	return 0
}
