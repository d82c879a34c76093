package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	AppName               = "tood"
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "todos.db"
	DefaultLogName        = "tood.log"
	EnvConfigPath         = "TOOD_CONFIG"
)

type Config struct {
	DBPath   string `toml:"db_path"`
	LogPath  string `toml:"log_path"`
	LogLevel string `toml:"log_level"`

	// PollMillis bounds how long the loop waits for input before it
	// processes pending messages anyway.
	PollMillis  int `toml:"poll_ms"`
	FlashMillis int `toml:"flash_ms"`

	Keys Keymap `toml:"keys"`
}

func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollMillis) * time.Millisecond
}

func (c Config) FlashInterval() time.Duration {
	return time.Duration(c.FlashMillis) * time.Millisecond
}

// ResolveConfigPath picks the config file: $TOOD_CONFIG, then the user
// config directory, then the working directory.
func ResolveConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, AppName, DefaultConfigFileName)
}

func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg.resolve(path), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.Keys = cfg.Keys.withDefaults(defaultKeymap())
	return cfg.resolve(path), nil
}

// resolve fills empty values and makes relative paths relative to the
// directory holding the config file.
func (c Config) resolve(path string) Config {
	def := defaultConfig()
	if c.DBPath == "" {
		c.DBPath = def.DBPath
	}
	if c.LogPath == "" {
		c.LogPath = def.LogPath
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.PollMillis <= 0 {
		c.PollMillis = def.PollMillis
	}
	if c.FlashMillis <= 0 {
		c.FlashMillis = def.FlashMillis
	}
	dir := filepath.Dir(path)
	if !filepath.IsAbs(c.DBPath) {
		c.DBPath = filepath.Join(dir, c.DBPath)
	}
	if !filepath.IsAbs(c.LogPath) {
		c.LogPath = filepath.Join(dir, c.LogPath)
	}
	return c
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig() Config {
	return Config{
		DBPath:      DefaultDBName,
		LogPath:     DefaultLogName,
		LogLevel:    "info",
		PollMillis:  1000,
		FlashMillis: 1000,
		Keys:        defaultKeymap(),
	}
}
