package config

import (
	"os"
	"path/filepath"
)

// ProjectFileName is a per-directory config override, found by walking up
// from the working directory.
const ProjectFileName = ".newsboard.yaml"

// DefaultPath returns the user-level config file location,
// $XDG_CONFIG_HOME/newsboard/config.yaml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "newsboard.yaml")
	}
	return filepath.Join(dir, "newsboard", "config.yaml")
}

// DefaultStateDir returns where the session store and log file live,
// $XDG_STATE_HOME/newsboard (falling back to ~/.local/state/newsboard).
func DefaultStateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "newsboard")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "newsboard")
	}
	return filepath.Join(home, ".local", "state", "newsboard")
}

// DiscoverFiles returns the config files to load, lowest precedence first:
// the user-level file, then the nearest project file above the working
// directory. Files that do not exist are skipped.
func DiscoverFiles(userPath string) []string {
	var files []string
	if userPath != "" && fileExists(userPath) {
		files = append(files, userPath)
	}
	if dir, err := os.Getwd(); err == nil {
		if p, ok := findProjectFile(dir); ok && p != userPath {
			files = append(files, p)
		}
	}
	return files
}

// findProjectFile walks up from dir looking for ProjectFileName, stopping at
// the home directory or the filesystem root.
func findProjectFile(dir string) (string, bool) {
	home, _ := os.UserHomeDir()

	for {
		candidate := filepath.Join(dir, ProjectFileName)
		if fileExists(candidate) {
			return candidate, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		if home != "" && dir == home {
			break
		}
		dir = parent
	}
	return "", false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
