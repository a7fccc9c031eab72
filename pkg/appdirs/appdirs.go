// Package appdirs resolves where vocx keeps its configuration and state
package appdirs

import (
	"fmt"
	"os"
	"path/filepath"
)

const appName = "vocx"

// Dirs holds the per-user locations used by vocx
type Dirs struct {
	ConfigDir  string
	ConfigPath string
	StateDir   string
}

// New resolves XDG-compliant paths. A config.toml in the config directory
// wins over config.yaml.
func New() (*Dirs, error) {
	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config path: %w", err)
	}
	stateDir, err := getStateDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine state path: %w", err)
	}

	return &Dirs{
		ConfigDir:  configDir,
		ConfigPath: pickConfigFile(configDir),
		StateDir:   stateDir,
	}, nil
}

func pickConfigFile(configDir string) string {
	tomlPath := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(tomlPath); err == nil {
		return tomlPath
	}
	return filepath.Join(configDir, "config.yaml")
}

// getConfigDir follows XDG_CONFIG_HOME on Unix and APPDATA on Windows
func getConfigDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}

	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, appName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", appName), nil
}

// getStateDir follows XDG_STATE_HOME, falling back to ~/.local/state
func getStateDir() (string, error) {
	if stateHome := os.Getenv("XDG_STATE_HOME"); stateHome != "" {
		return filepath.Join(stateHome, appName), nil
	}

	if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
		return filepath.Join(localAppData, appName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "state", appName), nil
}

// Initialize creates the directories if they don't exist
func (d *Dirs) Initialize() error {
	for _, dir := range []string{d.ConfigDir, d.StateDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// LogPath returns the file used when logging is sent to a file
func (d *Dirs) LogPath() string {
	return filepath.Join(d.StateDir, "vocx.log")
}

// MetricsPath returns the default Prometheus textfile location
func (d *Dirs) MetricsPath() string {
	return filepath.Join(d.StateDir, "vocx.prom")
}
