package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultTreePath     = "~/.local/share/pictag/tree.json"
	DefaultDatabasePath = "~/.local/share/pictag/pixiv.db"
	DefaultLogLevel     = "info"
	DefaultListen       = "127.0.0.1:8765"
)

// Config holds the settings shared by every pictag binary
type Config struct {
	TreePath     string `yaml:"tree"`
	DatabasePath string `yaml:"database"`
	LogLevel     string `yaml:"log_level"`
	LogDir       string `yaml:"log_dir"`
	Listen       string `yaml:"listen"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		TreePath:     DefaultTreePath,
		DatabasePath: DefaultDatabasePath,
		LogLevel:     DefaultLogLevel,
		Listen:       DefaultListen,
	}
}

// Load resolves the configuration: defaults, then the YAML file, then
// PICTAG_* environment overrides. A missing file is not an error.
func Load() (Config, error) {
	cfg := Default()

	path := FilePath()
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}
	cfg.mergeEnv(os.Getenv)

	if err := cfg.expand(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FilePath returns the config file location from PICTAG_CONFIG, falling
// back to $XDG_CONFIG_HOME/pictag/config.yaml
func FilePath() string {
	if env := os.Getenv("PICTAG_CONFIG"); env != "" {
		return env
	}
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "pictag", "config.yaml")
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(ExpandHome(path))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	c.overlay(file)
	return nil
}

func (c *Config) mergeEnv(getenv func(string) string) {
	c.overlay(Config{
		TreePath:     getenv("PICTAG_TREE"),
		DatabasePath: getenv("PICTAG_DB"),
		LogLevel:     getenv("PICTAG_LOG_LEVEL"),
		LogDir:       getenv("PICTAG_LOG_DIR"),
		Listen:       getenv("PICTAG_LISTEN"),
	})
}

// overlay copies every non-empty field of o onto c
func (c *Config) overlay(o Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.TreePath, o.TreePath)
	set(&c.DatabasePath, o.DatabasePath)
	set(&c.LogLevel, o.LogLevel)
	set(&c.LogDir, o.LogDir)
	set(&c.Listen, o.Listen)
}

func (c *Config) expand() error {
	for _, p := range []*string{&c.TreePath, &c.DatabasePath, &c.LogDir} {
		if !strings.HasPrefix(*p, "~") {
			continue
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		*p = filepath.Join(home, (*p)[1:])
	}
	return nil
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
