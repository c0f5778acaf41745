// Package config loads newsboard settings from defaults, YAML files and the
// environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable, e.g. NEWSBOARD_API_URL.
const EnvPrefix = "NEWSBOARD"

// Config holds all client configuration.
type Config struct {
	API     APIConfig     `yaml:"api" env:"API"`
	Storage StorageConfig `yaml:"storage" env:"STORAGE"`
	Log     LogConfig     `yaml:"log" env:"LOG"`
	UI      UIConfig      `yaml:"ui" env:"UI"`
}

// APIConfig points at the REST store.
type APIConfig struct {
	URL string `yaml:"url" env:"URL" default:"http://localhost:3000"`
	// Timeout of zero means requests may hang indefinitely.
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT" default:"0s"`
}

// StorageConfig selects where the session is persisted.
type StorageConfig struct {
	Backend string `yaml:"backend" env:"BACKEND" default:"file"` // file or sqlite
	Dir     string `yaml:"dir" env:"DIR"`
}

// LogConfig controls the log file.
type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL" default:"info"`
	Format string `yaml:"format" env:"FORMAT" default:"json"` // json or pretty
	File   string `yaml:"file" env:"FILE"`
}

// UIConfig holds rendering preferences.
type UIConfig struct {
	MarkdownStyle string `yaml:"markdown_style" env:"MARKDOWN_STYLE" default:"dark"` // dark, light, notty
	WordWrap      int    `yaml:"word_wrap" env:"WORD_WRAP" default:"80"`
}

// Load reads configuration from files (lowest precedence first) and the
// environment, fills derived defaults and validates the result.
func Load(files ...string) (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		SkipFlags:  true,
		EnvPrefix:  EnvPrefix,
		Files:      files,
		MergeFiles: true,
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
			".yml":  aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.fillDerived()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{
		API:     APIConfig{URL: "http://localhost:3000"},
		Storage: StorageConfig{Backend: "file"},
		Log:     LogConfig{Level: "info", Format: "json"},
		UI:      UIConfig{MarkdownStyle: "dark", WordWrap: 80},
	}
	cfg.fillDerived()
	return cfg
}

func (c *Config) fillDerived() {
	if c.Storage.Dir == "" {
		c.Storage.Dir = DefaultStateDir()
	}
	if c.Log.File == "" {
		c.Log.File = filepath.Join(c.Storage.Dir, "newsboard.log")
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api.url %q must be an http(s) URL", c.API.URL)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative")
	}
	switch c.Storage.Backend {
	case "file", "sqlite":
	default:
		return fmt.Errorf("storage.backend %q must be file or sqlite", c.Storage.Backend)
	}
	switch c.Log.Format {
	case "json", "pretty":
	default:
		return fmt.Errorf("log.format %q must be json or pretty", c.Log.Format)
	}
	switch c.UI.MarkdownStyle {
	case "dark", "light", "notty":
	default:
		return fmt.Errorf("ui.markdown_style %q must be dark, light or notty", c.UI.MarkdownStyle)
	}
	if c.UI.WordWrap < 20 {
		return fmt.Errorf("ui.word_wrap must be at least 20")
	}
	return nil
}

// WriteDefault writes the built-in configuration to path as YAML. An
// existing file is left alone.
func WriteDefault(path string) error {
	if fileExists(path) {
		return fmt.Errorf("%s already exists", path)
	}
	cfg := Default()
	// Derived paths depend on the machine; leave them for Load to fill.
	cfg.Storage.Dir = ""
	cfg.Log.File = ""

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
