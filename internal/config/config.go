package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/buckleypaul/dude/internal/avrdude"
)

const (
	DefaultBoard          = "uno"
	DefaultRefreshSeconds = 5

	dirName  = ".dude"
	fileName = "config.json"
)

// Config holds all dude configuration.
type Config struct {
	ToolPath       string `json:"tool_path,omitempty"`
	DefaultBoard   string `json:"default_board,omitempty"`
	DefaultPort    string `json:"default_port,omitempty"`
	RefreshSeconds int    `json:"refresh_seconds,omitempty"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"`
	LogFile        string `json:"log_file,omitempty"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		ToolPath:       avrdude.DefaultTool,
		DefaultBoard:   DefaultBoard,
		RefreshSeconds: DefaultRefreshSeconds,
	}
}

// RefreshInterval is how often the port list is re-scanned.
func (c Config) RefreshInterval() time.Duration {
	if c.RefreshSeconds <= 0 {
		return DefaultRefreshSeconds * time.Second
	}
	return time.Duration(c.RefreshSeconds) * time.Second
}

// Timeout bounds each avrdude run; zero means no limit.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// GlobalPath returns ~/.config/dude/config.json.
func GlobalPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "dude", fileName), nil
}

// LocalPath returns <dir>/.dude/config.json.
func LocalPath(dir string) string {
	return filepath.Join(dir, dirName, fileName)
}

// Load reads and merges global and local configs.
// Order: defaults → global (~/.config/dude/config.json) → local (<dir>/.dude/config.json).
func Load(dir string) Config {
	cfg := Defaults()

	if globalPath, err := GlobalPath(); err == nil {
		mergeFromFile(&cfg, globalPath)
	}

	if dir != "" {
		mergeFromFile(&cfg, LocalPath(dir))
	}

	return cfg
}

// Save writes the config to <dir>/.dude/config.json, or to the global
// config if global is true. It returns the path written.
func Save(cfg Config, dir string, global bool) (string, error) {
	path := LocalPath(dir)
	if global {
		p, err := GlobalPath()
		if err != nil {
			return "", err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", err
	}

	return path, os.WriteFile(path, data, 0o644)
}

func mergeFromFile(cfg *Config, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	var fileCfg Config
	if err := json.Unmarshal(data, &fileCfg); err != nil {
		return
	}

	if fileCfg.ToolPath != "" {
		cfg.ToolPath = fileCfg.ToolPath
	}
	if fileCfg.DefaultBoard != "" {
		cfg.DefaultBoard = fileCfg.DefaultBoard
	}
	if fileCfg.DefaultPort != "" {
		cfg.DefaultPort = fileCfg.DefaultPort
	}
	if fileCfg.RefreshSeconds != 0 {
		cfg.RefreshSeconds = fileCfg.RefreshSeconds
	}
	if fileCfg.TimeoutSeconds != 0 {
		cfg.TimeoutSeconds = fileCfg.TimeoutSeconds
	}
	if fileCfg.LogFile != "" {
		cfg.LogFile = fileCfg.LogFile
	}
}
