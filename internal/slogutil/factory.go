package slogutil

import (
	"io"
	"log/slog"
	"os"

	"dockside/internal/config"
)

// NewFromConfig builds the process logger from the logging section of the
// configuration. Records always go to stderr; when cfg.File is set they are
// also written to a size-rotated file. The returned closer releases that file.
func NewFromConfig(cfg config.LoggingConfig, stderr io.Writer) (*slog.Logger, io.Closer, error) {
	return NewFromConfigLevel(cfg, LevelFromString(cfg.Level), stderr)
}

// NewFromConfigLevel is NewFromConfig with an explicit level.
func NewFromConfigLevel(cfg config.LoggingConfig, level slog.Level, stderr io.Writer) (*slog.Logger, io.Closer, error) {
	if stderr == nil {
		stderr = os.Stderr
	}
	console := NewHandler(stderr, cfg.Format, level)
	if cfg.File == "" {
		return slog.New(console), nopCloser{}, nil
	}

	rf, err := OpenRotatingFile(cfg.File, ParseSize(cfg.MaxSize), cfg.MaxBackups, cfg.Compress)
	if err != nil {
		return nil, nil, err
	}
	file := NewHandler(rf, cfg.Format, level)
	return slog.New(NewTeeHandler(console, file)), rf, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
