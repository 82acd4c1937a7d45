package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"ward-rounds/internal/config"
)

// New builds the process logger. Console output is used unless the format is "json".
func New(cfg config.LogConfig) zerolog.Logger {
	return NewWithWriter(cfg, os.Stdout)
}

func NewWithWriter(cfg config.LogConfig, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	out := w
	if cfg.Format != "json" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Str("service", "ward-rounds").Logger()
}
