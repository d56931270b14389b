package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config is everything the clean flow needs, resolved from file and flags.
// Live controls whether the purge actually deletes; false is practice mode.
// Values are plumbed explicitly through constructors, never read from
// ambient state.
type Config struct {
	Include   []string `mapstructure:"include"`
	Exclude   []string `mapstructure:"exclude"`
	Depth     int      `mapstructure:"depth"`
	Skip      []string `mapstructure:"skip"`
	Confirm   bool     `mapstructure:"confirm"`
	Live      bool     `mapstructure:"live"`
	LogLevel  string   `mapstructure:"log_level"`
	LogFile   string   `mapstructure:"log_file"`
	HistoryDB string   `mapstructure:"history_db"`
}

// Default returns the configuration used when no file is found.
func Default() Config {
	return Config{
		Confirm:   true,
		Live:      true,
		LogLevel:  "info",
		HistoryDB: DefaultHistoryPath(),
	}
}

// Resolve picks the config file to load: an explicit path wins, then the
// scan root, then the user config directories.
func Resolve(root, explicit string) (string, bool, error) {
	if explicit != "" {
		return explicit, true, nil
	}
	for _, candidate := range defaultPaths(root) {
		if fileExists(candidate) {
			return candidate, true, nil
		}
	}
	return "", false, nil
}

func defaultPaths(root string) []string {
	paths := []string{}
	if root != "" {
		paths = append(paths, filepath.Join(root, ".devpurge.yaml"))
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "devpurge", "config.yaml"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "devpurge", "config.yaml"))
	}
	return paths
}

// Load reads and normalizes a config file.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	def := Default()
	v.SetDefault("confirm", def.Confirm)
	v.SetDefault("live", def.Live)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("history_db", def.HistoryDB)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return Normalize(cfg)
}

// Normalize validates a loaded configuration.
func Normalize(cfg Config) (Config, error) {
	if cfg.Depth < 0 {
		return Config{}, errors.New("config: depth must be >= 0")
	}
	return cfg, nil
}

// DefaultHistoryPath is where purge records are kept between runs.
func DefaultHistoryPath() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "devpurge", "history.db")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "devpurge", "history.db")
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
