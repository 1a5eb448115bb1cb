package core

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger opens the configured log file and returns a logger writing to
// it. The terminal belongs to the composer view, so with no log file the
// logger discards everything. The returned closer is never nil.
func NewLogger(config Config) (zerolog.Logger, io.Closer, error) {
	if config.LogFile == "" {
		return zerolog.Nop(), nopCloser{}, nil
	}

	level, err := zerolog.ParseLevel(config.LogLevel)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if err := os.MkdirAll(filepath.Dir(config.LogFile), 0o755); err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}
	f, err := os.OpenFile(config.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	logger := zerolog.New(f).Level(level).With().Timestamp().Logger()
	return logger, f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
