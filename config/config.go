// Package config loads runtime configuration from the environment. Every
// setting has a working default so the binary runs with nothing set.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/quillworks/folio/layout"
)

// Config holds the preview server and engine settings.
type Config struct {
	// Addr is the HTTP listen address for -serve mode.
	Addr string
	// FontPath points at the TTF/OTF used for measured pagination. Empty
	// means no canvas backend: pagination uses the deterministic font table.
	FontPath string
	// FontDir resolves relative font paths.
	FontDir string

	MeasureTimeout   time.Duration
	OverflowBufferMM float64
	FooterReserveMM  float64

	LogLevel slog.Level
}

// Load reads the FOLIO_* environment variables.
func Load() Config {
	return Config{
		Addr:             envOr("FOLIO_ADDR", ":8080"),
		FontPath:         envOr("FOLIO_FONT", ""),
		FontDir:          envOr("FOLIO_FONT_DIR", ""),
		MeasureTimeout:   envDuration("FOLIO_MEASURE_TIMEOUT", layout.DefaultMeasureTimeout),
		OverflowBufferMM: envFloat("FOLIO_OVERFLOW_BUFFER_MM", layout.DefaultOverflowBufferMM),
		FooterReserveMM:  envFloat("FOLIO_FOOTER_RESERVE_MM", layout.DefaultFooterReserveMM),
		LogLevel:         envLevel("FOLIO_LOG_LEVEL", slog.LevelInfo),
	}
}

// EngineOptions maps the engine-facing settings onto layout.EngineOptions.
func (c Config) EngineOptions(log *slog.Logger) layout.EngineOptions {
	return layout.EngineOptions{
		OverflowBufferMM: c.OverflowBufferMM,
		FooterReserveMM:  c.FooterReserveMM,
		MeasureTimeout:   c.MeasureTimeout,
		Logger:           log,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envLevel(key string, fallback slog.Level) slog.Level {
	switch strings.ToLower(os.Getenv(key)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return fallback
	}
}
