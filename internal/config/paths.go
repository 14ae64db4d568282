package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Paths contains the standard paths for workflow-mcp files.
type Paths struct {
	Config string // ~/.config/workflow-mcp
	State  string // ~/.local/state/workflow-mcp
}

// GetPaths returns the standard paths for workflow-mcp files.
func GetPaths() *Paths {
	return &Paths{
		Config: filepath.Join(getEnvOrDefault("XDG_CONFIG_HOME", defaultConfigHome()), "workflow-mcp"),
		State:  filepath.Join(getEnvOrDefault("XDG_STATE_HOME", defaultStateHome()), "workflow-mcp"),
	}
}

// LogDir returns the directory log files are written to.
func (p *Paths) LogDir() string {
	return filepath.Join(p.State, "log")
}

// GlobalConfigPath returns the path of the global JSON config file.
func (p *Paths) GlobalConfigPath() string {
	return filepath.Join(p.Config, "config.json")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func defaultConfigHome() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("APPDATA")
	}
	return filepath.Join(os.Getenv("HOME"), ".config")
}

func defaultStateHome() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("APPDATA")
	}
	return filepath.Join(os.Getenv("HOME"), ".local", "state")
}
