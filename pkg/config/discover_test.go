package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFindProjectFile(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(root, "a", ProjectFileName)
	if err := os.WriteFile(want, []byte("api:\n  url: http://example.com\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, ok := findProjectFile(nested)
	if !ok {
		t.Fatal("expected to find project file")
	}
	if got != want {
		t.Errorf("findProjectFile = %q, want %q", got, want)
	}
}

func TestFindProjectFile_NotFound(t *testing.T) {
	root := t.TempDir()
	if p, ok := findProjectFile(root); ok && strings.HasPrefix(p, root) {
		t.Errorf("did not expect a project file under %s, got %s", root, p)
	}
}

func TestDiscoverFiles_SkipsMissingUserFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")
	for _, f := range DiscoverFiles(missing) {
		if f == missing {
			t.Error("missing user file should be skipped")
		}
	}
}

func TestDefaultStateDir_HonorsXDG(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/xdg-state")
	if got := DefaultStateDir(); got != filepath.Join("/tmp/xdg-state", "newsboard") {
		t.Errorf("DefaultStateDir = %q", got)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.URL != "http://localhost:3000" {
		t.Errorf("API.URL = %q", cfg.API.URL)
	}
	if cfg.API.Timeout != 0 {
		t.Errorf("API.Timeout = %v, want none", cfg.API.Timeout)
	}
	if cfg.Storage.Backend != "file" || cfg.Storage.Dir == "" {
		t.Errorf("unexpected storage config %+v", cfg.Storage)
	}
	if cfg.Log.File != filepath.Join(cfg.Storage.Dir, "newsboard.log") {
		t.Errorf("Log.File = %q", cfg.Log.File)
	}
}

func TestLoad_FileAndEnvPrecedence(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `api:
  url: http://news.internal:8080
  timeout: 5s
storage:
  backend: sqlite
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.URL != "http://news.internal:8080" || cfg.API.Timeout != 5*time.Second {
		t.Errorf("file values not applied: %+v", cfg.API)
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("Storage.Backend = %q", cfg.Storage.Backend)
	}

	t.Setenv("NEWSBOARD_API_URL", "https://override.example")
	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("Load with env: %v", err)
	}
	if cfg.API.URL != "https://override.example" {
		t.Errorf("env did not override file: %q", cfg.API.URL)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"BadURL", func(c *Config) { c.API.URL = "localhost" }},
		{"NegativeTimeout", func(c *Config) { c.API.Timeout = -time.Second }},
		{"BadBackend", func(c *Config) { c.Storage.Backend = "redis" }},
		{"BadFormat", func(c *Config) { c.Log.Format = "xml" }},
		{"BadStyle", func(c *Config) { c.UI.MarkdownStyle = "neon" }},
		{"TinyWrap", func(c *Config) { c.UI.WordWrap = 5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
	if err := Default().Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestWriteDefault(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}
	if err := WriteDefault(path); err == nil {
		t.Error("WriteDefault should refuse to overwrite")
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load written default: %v", err)
	}
	if cfg.API.URL != Default().API.URL {
		t.Errorf("round-tripped URL = %q", cfg.API.URL)
	}
}
