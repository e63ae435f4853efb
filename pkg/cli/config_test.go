package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/luli45/photo-filter/pkg/filter"
)

var configKeys = []string{
	EnvFilter, EnvIntensity, EnvJPEGQuality, EnvExportDir,
	EnvLogLevel, EnvPreviewBackend, EnvPreviewDebug,
}

// clearConfigEnv unsets every config variable for the test and restores the
// previous values afterwards. godotenv writes straight to the process
// environment, so t.Setenv alone would leak the file's values.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		old, had := os.LookupEnv(k)
		os.Unsetenv(k)
		t.Cleanup(func() {
			if had {
				os.Setenv(k, old)
			} else {
				os.Unsetenv(k)
			}
		})
	}
}

func writeEnvFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	return p
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Fatalf("got %+v, want %+v", cfg, DefaultConfig())
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	clearConfigEnv(t)
	p := writeEnvFile(t, strings.Join([]string{
		"# photo filter settings",
		"PHOTOFILTER_FILTER=Sepia",
		"PHOTOFILTER_INTENSITY=250",
		"PHOTOFILTER_JPEG_QUALITY=0",
		`PHOTOFILTER_EXPORT_DIR="out dir"`,
		"PHOTOFILTER_LOG_LEVEL=DEBUG",
		"PREVIEW_BACKEND=Kitty",
		"PREVIEW_DEBUG=yes",
	}, "\n"))

	cfg, err := LoadConfig(p)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	want := Config{
		Filter:         filter.Sepia,
		Intensity:      100,
		IntensitySet:   true,
		JPEGQuality:    1,
		ExportDir:      "out dir",
		LogLevel:       "debug",
		PreviewBackend: "kitty",
		PreviewDebug:   true,
	}
	if cfg != want {
		t.Fatalf("got %+v, want %+v", cfg, want)
	}
}

func TestLoadConfigProcessEnvWins(t *testing.T) {
	clearConfigEnv(t)
	os.Setenv(EnvFilter, "invert")
	p := writeEnvFile(t, "PHOTOFILTER_FILTER=sepia\n")
	cfg, err := LoadConfig(p)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Filter != filter.Invert {
		t.Fatalf("filter = %q, want invert", cfg.Filter)
	}
}

func TestLoadConfigIntensityFollowsFilter(t *testing.T) {
	cases := []struct {
		filter, intensity string
		want              int
	}{
		{"edge", "200", 200},
		{"edge", "999", 255},
		{"blur", "50", 20},
		{"sharpen", "150", 100},
	}
	for _, c := range cases {
		t.Run(c.filter+"/"+c.intensity, func(t *testing.T) {
			clearConfigEnv(t)
			os.Setenv(EnvFilter, c.filter)
			os.Setenv(EnvIntensity, c.intensity)
			cfg, err := LoadConfig("")
			if err != nil {
				t.Fatalf("LoadConfig: %v", err)
			}
			if cfg.Intensity != c.want || !cfg.IntensitySet {
				t.Fatalf("intensity = %d (set %v), want %d", cfg.Intensity, cfg.IntensitySet, c.want)
			}
		})
	}
}

func TestLoadConfigErrors(t *testing.T) {
	cases := []struct {
		key, val string
	}{
		{EnvIntensity, "lots"},
		{EnvJPEGQuality, "high"},
		{EnvFilter, "vignette"},
	}
	for _, c := range cases {
		t.Run(c.key, func(t *testing.T) {
			clearConfigEnv(t)
			os.Setenv(c.key, c.val)
			_, err := LoadConfig("")
			if err == nil {
				t.Fatalf("expected error for %s=%q", c.key, c.val)
			}
			if !strings.Contains(err.Error(), c.key) {
				t.Fatalf("error %q does not name %s", err, c.key)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	cfg := DefaultConfig()
	log, err := NewLogger(cfg, &strings.Builder{})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	if log.GetLevel() != logrus.InfoLevel {
		t.Fatalf("level = %v, want info", log.GetLevel())
	}

	cfg.PreviewDebug = true
	log, err = NewLogger(cfg, &strings.Builder{})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	if log.GetLevel() != logrus.DebugLevel {
		t.Fatalf("PREVIEW_DEBUG should force debug, got %v", log.GetLevel())
	}

	cfg.LogLevel = "chatty"
	if _, err := NewLogger(cfg, &strings.Builder{}); err == nil {
		t.Fatalf("expected error for bad level")
	}
}
