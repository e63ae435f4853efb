package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/luli45/photo-filter/pkg/filter"
)

// Environment variables read by LoadConfig.
const (
	EnvFilter         = "PHOTOFILTER_FILTER"
	EnvIntensity      = "PHOTOFILTER_INTENSITY"
	EnvJPEGQuality    = "PHOTOFILTER_JPEG_QUALITY"
	EnvExportDir      = "PHOTOFILTER_EXPORT_DIR"
	EnvLogLevel       = "PHOTOFILTER_LOG_LEVEL"
	EnvPreviewBackend = "PREVIEW_BACKEND"
	EnvPreviewDebug   = "PREVIEW_DEBUG"
)

// Config holds the settings shared by the batch and interactive commands.
type Config struct {
	Filter         filter.Kind
	Intensity      int
	IntensitySet   bool // Intensity came from the environment rather than the default
	JPEGQuality    int
	ExportDir      string
	LogLevel       string
	PreviewBackend string // "", "kitty", "inline", "sixel", "chafa" or "none"
	PreviewDebug   bool
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Filter:      filter.None,
		Intensity:   5,
		JPEGQuality: 92,
		ExportDir:   ".",
		LogLevel:    "info",
	}
}

// LoadConfig loads envFile (a missing file is fine, like godotenv.Load
// callers that ignore the error) and then reads the PHOTOFILTER_* variables.
// Variables already set in the process environment win over the file.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	cfg := DefaultConfig()

	if v := strings.TrimSpace(os.Getenv(EnvFilter)); v != "" {
		k, ok := filter.ParseKind(v)
		if !ok {
			return Config{}, fmt.Errorf("%s: unknown filter %q", EnvFilter, v)
		}
		cfg.Filter = k
	}
	if v := strings.TrimSpace(os.Getenv(EnvIntensity)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: expected integer, got %q", EnvIntensity, v)
		}
		cfg.Intensity = clampIntensity(cfg.Filter, n)
		cfg.IntensitySet = true
	}
	if v := strings.TrimSpace(os.Getenv(EnvJPEGQuality)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: expected integer, got %q", EnvJPEGQuality, v)
		}
		cfg.JPEGQuality = min(max(n, 1), 100)
	}
	if v := strings.TrimSpace(os.Getenv(EnvExportDir)); v != "" {
		cfg.ExportDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	cfg.PreviewBackend = strings.ToLower(strings.TrimSpace(os.Getenv(EnvPreviewBackend)))
	switch strings.ToLower(os.Getenv(EnvPreviewDebug)) {
	case "1", "true", "yes", "on":
		cfg.PreviewDebug = true
	}
	return cfg, nil
}
