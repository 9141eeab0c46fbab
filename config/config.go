// Package config loads the interpreter's settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Log struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type Config struct {
	Prompt       string `yaml:"prompt"`
	History      string `yaml:"history"`
	MaxCallDepth int    `yaml:"max_call_depth"`
	DumpAST      bool   `yaml:"dump_ast"`
	Log          Log    `yaml:"log"`
}

func Default() Config {
	return Config{
		Prompt:       "> ",
		History:      "~/.golox_history",
		MaxCallDepth: 4096,
		Log:          Log{Level: "warn"},
	}
}

// Load reads the file at path over the defaults. An empty path, or an empty
// file, yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()

	if err := decode(file, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

func decode(r io.Reader, cfg *Config) error {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}

func (c Config) Validate() error {
	var issues []string
	if _, err := ParseLevel(c.Log.Level); err != nil {
		issues = append(issues, err.Error())
	}

	if c.MaxCallDepth <= 0 {
		issues = append(issues, fmt.Sprintf("max_call_depth must be positive, got %d", c.MaxCallDepth))
	}

	if len(issues) > 0 {
		return fmt.Errorf("config: %s", strings.Join(issues, "; "))
	}

	return nil
}

// ParseLevel maps debug, info, warn or error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}

	return 0, fmt.Errorf("unknown log level %q", s)
}

// HistoryPath expands a leading ~ to the home directory.
func (c Config) HistoryPath() string {
	if c.History == "~" || strings.HasPrefix(c.History, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}

		return filepath.Join(home, strings.TrimPrefix(c.History[1:], "/"))
	}

	return c.History
}
