package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/typeset/internal/text/attrs"
	"github.com/dshills/typeset/internal/text/buffer"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "typeset.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
font_size = 16
line_height = 24

[theme]
foreground = "#ffffff"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.FontSize != 16 || cfg.LineHeight != 24 {
		t.Errorf("metrics = %d/%d, want 16/24", cfg.FontSize, cfg.LineHeight)
	}
	if cfg.Theme.Foreground != "#ffffff" {
		t.Errorf("foreground = %q", cfg.Theme.Foreground)
	}
	// Unset values keep their defaults.
	if cfg.Theme.Background != Default().Theme.Background {
		t.Errorf("background = %q, want default", cfg.Theme.Background)
	}
	if cfg.Metrics() != buffer.NewMetrics(16, 24) {
		t.Errorf("Metrics() = %v", cfg.Metrics())
	}
}

func TestLoadRejectsBadMetrics(t *testing.T) {
	path := writeConfig(t, "font_size = -3\nline_height = 20\n")

	_, err := Load(path)
	if !errors.Is(err, ErrInvalidMetrics) {
		t.Errorf("err = %v, want ErrInvalidMetrics", err)
	}
}

func TestLoadRejectsBadColor(t *testing.T) {
	path := writeConfig(t, "[theme]\nforeground = \"periwinkle\"\n")

	_, err := Load(path)
	if !errors.Is(err, ErrInvalidColor) {
		t.Errorf("err = %v, want ErrInvalidColor", err)
	}
}

func TestLoadRejectsBadTOML(t *testing.T) {
	path := writeConfig(t, "font_size = = 14\n")

	if _, err := Load(path); err == nil {
		t.Error("Load accepted malformed TOML")
	}
}

func TestForegroundParsesHex(t *testing.T) {
	cfg := Default()
	cfg.Theme.Foreground = "#ff0000"
	if got := cfg.Foreground(); got != attrs.RGB(0xFF, 0, 0) {
		t.Errorf("Foreground() = %v, want red", got)
	}

	// Unset falls back to the default color.
	cfg.Theme.Foreground = ""
	want, _ := attrs.ParseHex(Default().Theme.Foreground)
	if got := cfg.Foreground(); got != want {
		t.Errorf("Foreground() = %v, want default", got)
	}
}

func TestInsertPolicy(t *testing.T) {
	cfg := Default()
	allow := cfg.InsertPolicy()
	if !allow('a') || !allow('\t') {
		t.Error("default policy rejects text or tab")
	}
	if allow('\x07') || allow('\x7F') {
		t.Error("default policy accepts control characters")
	}

	cfg.Input.AllowTab = false
	if cfg.InsertPolicy()('\t') {
		t.Error("policy accepts tab with allow_tab = false")
	}
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	path := writeConfig(t, "font_size = 14\nline_height = 20\n")

	reloaded := make(chan Config, 1)
	w, err := NewWatcher(path, func(cfg Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	}, WithWatchDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("font_size = 18\nline_height = 26\n"), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.FontSize != 18 || cfg.LineHeight != 26 {
			t.Errorf("reloaded metrics = %d/%d, want 18/26", cfg.FontSize, cfg.LineHeight)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after config write")
	}
}

func TestWatcherIgnoresInvalidEdit(t *testing.T) {
	path := writeConfig(t, "font_size = 14\nline_height = 20\n")

	reloaded := make(chan Config, 1)
	w, err := NewWatcher(path, func(cfg Config) {
		reloaded <- cfg
	}, WithWatchDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("font_size = 0\nline_height = 0\n"), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	select {
	case cfg := <-reloaded:
		t.Errorf("invalid edit reached handler: %+v", cfg)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatcherCloseIdempotent(t *testing.T) {
	path := writeConfig(t, "font_size = 14\nline_height = 20\n")

	w, err := NewWatcher(path, func(Config) {})
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("first Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}
