package replay

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "tacticore"

// dataDir returns the platform-specific data directory for the
// application, the same layout the teacher's internal/storage uses:
//   - macOS: ~/Library/Application Support/tacticore/
//   - Linux: ~/.local/share/tacticore/ (or $XDG_DATA_HOME/tacticore)
//   - Windows: %APPDATA%/tacticore/
func dataDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		baseDir = filepath.Join(home, "Library", "Application Support")

	case "windows":
		baseDir = os.Getenv("APPDATA")
		if baseDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(home, "AppData", "Roaming")
		}

	default:
		baseDir = os.Getenv("XDG_DATA_HOME")
		if baseDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(home, ".local", "share")
		}
	}

	dir := filepath.Join(baseDir, appName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// databaseDir returns the directory the replay log's badger instance
// opens, creating it if necessary.
func databaseDir() (string, error) {
	base, err := dataDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, "replay")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}
