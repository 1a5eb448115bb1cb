package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DefaultURL      = "http://127.0.0.1:5000"
	DefaultDebounce = 100 * time.Millisecond
	DefaultToast    = 3 * time.Second
	DefaultTimeout  = 10 * time.Second
)

// Duration is a time.Duration that reads and writes as "150ms" style text
// in both the config file and the environment.
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Config is the effective client configuration.
type Config struct {
	URL      string   `json:"url" env:"DISPATCH_URL"`
	Debounce Duration `json:"debounce" env:"DISPATCH_DEBOUNCE"`
	Toast    Duration `json:"toast" env:"DISPATCH_TOAST"`
	Timeout  Duration `json:"timeout" env:"DISPATCH_TIMEOUT"`
	LogFile  string   `json:"log_file,omitempty" env:"DISPATCH_LOG_FILE"`
	LogLevel string   `json:"log_level,omitempty" env:"DISPATCH_LOG_LEVEL"`
	Notify   bool     `json:"notify,omitempty" env:"DISPATCH_NOTIFY"`
	WatchDir string   `json:"watch_dir,omitempty" env:"DISPATCH_WATCH_DIR"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		URL:      DefaultURL,
		Debounce: Duration(DefaultDebounce),
		Toast:    Duration(DefaultToast),
		Timeout:  Duration(DefaultTimeout),
		LogLevel: "info",
	}
}

// ConfigPath returns the config file location. DISPATCH_CONFIG overrides the
// default of ~/.config/dispatch/config.json.
func ConfigPath() (string, error) {
	if path := os.Getenv("DISPATCH_CONFIG"); path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "dispatch", "config.json"), nil
}

// LoadConfig layers defaults, the config file at path (if present), a .env
// file in the working directory (if present) and DISPATCH_* variables.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := json.Unmarshal(data, &config); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := env.Parse(&config); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate rejects settings the client cannot run with.
func (c Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("relay url cannot be empty")
	}
	if c.Debounce < 0 {
		return fmt.Errorf("debounce cannot be negative")
	}
	if c.Toast <= 0 {
		return fmt.Errorf("toast duration must be positive")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

// WriteConfig writes the config to path, creating parent directories.
func WriteConfig(path string, config Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}
