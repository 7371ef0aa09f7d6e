package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/genricoloni/nowplaying/internal/domain"
	"go.uber.org/zap"
)

// isolate points the config lookup at an empty directory and returns the
// directory a config file should be written to
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("HOME", home)
	dir := filepath.Join(home, appDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	return dir
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestNewAppConfig_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := NewAppConfig(zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.GetBackend() != defaultBackend {
		t.Errorf("backend: want %s, got %s", defaultBackend, cfg.GetBackend())
	}
	if !cfg.GetEnabled() {
		t.Error("session should start enabled")
	}
	if cfg.GetIdentity() != defaultIdentity {
		t.Errorf("identity: want %s, got %s", defaultIdentity, cfg.GetIdentity())
	}
	if cfg.GetLookupTimeout() != 5*time.Second {
		t.Errorf("lookup timeout: want 5s, got %v", cfg.GetLookupTimeout())
	}
	if cfg.GetSinkBuffer() != defaultSinkBuffer {
		t.Errorf("sink buffer: want %d, got %d", defaultSinkBuffer, cfg.GetSinkBuffer())
	}
	if cfg.GetMaxArtSize() != defaultMaxArtSize {
		t.Errorf("max art size: want %d, got %d", defaultMaxArtSize, cfg.GetMaxArtSize())
	}
	if cfg.GetCacheRemoteArt() {
		t.Error("remote art caching should be off by default")
	}
	if cfg.GetCacheDir() == "" {
		t.Error("cache dir should not be empty")
	}

	expected := domain.CapabilityConfig{
		PlayEnabled:     true,
		PauseEnabled:    true,
		NextEnabled:     true,
		PreviousEnabled: true,
		StopEnabled:     true,
	}
	if cfg.GetCapabilities() != expected {
		t.Errorf("capabilities: want %+v, got %+v", expected, cfg.GetCapabilities())
	}
}

func TestNewAppConfig_File(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, `
backend: memory
enabled: false
app_id: com.example.player
identity: Example
artwork:
  lookup_timeout_ms: 250
  cache_remote: true
  cache_dir: ~/art
sink:
  buffer: 4
capabilities:
  fast_forward: true
  stop: false
`)

	cfg, err := NewAppConfig(zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name     string
		got      any
		expected any
	}{
		{name: "Backend", got: cfg.GetBackend(), expected: "memory"},
		{name: "Enabled", got: cfg.GetEnabled(), expected: false},
		{name: "AppID", got: cfg.GetAppID(), expected: "com.example.player"},
		{name: "Identity", got: cfg.GetIdentity(), expected: "Example"},
		{name: "LookupTimeout", got: cfg.GetLookupTimeout(), expected: 250 * time.Millisecond},
		{name: "CacheRemote", got: cfg.GetCacheRemoteArt(), expected: true},
		{name: "CacheDir", got: cfg.GetCacheDir(), expected: filepath.Join(os.Getenv("HOME"), "art")},
		{name: "SinkBuffer", got: cfg.GetSinkBuffer(), expected: 4},
		{name: "FastForward", got: cfg.GetCapabilities().FastForwardEnabled, expected: true},
		{name: "Stop", got: cfg.GetCapabilities().StopEnabled, expected: false},
		{name: "Play Default Kept", got: cfg.GetCapabilities().PlayEnabled, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("want %v, got %v", tt.expected, tt.got)
			}
		})
	}
}

func TestNewAppConfig_EnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "backend: auto\nsink:\n  buffer: 4\n")
	t.Setenv("NOWPLAYING_BACKEND", "memory")
	t.Setenv("NOWPLAYING_SINK_BUFFER", "32")
	t.Setenv("NOWPLAYING_CAPABILITIES_NEXT", "false")

	cfg, err := NewAppConfig(zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.GetBackend() != "memory" {
		t.Errorf("backend: want memory, got %s", cfg.GetBackend())
	}
	if cfg.GetSinkBuffer() != 32 {
		t.Errorf("sink buffer: want 32, got %d", cfg.GetSinkBuffer())
	}
	if cfg.GetCapabilities().NextEnabled {
		t.Error("next should be disabled by the environment")
	}
}

func TestNewAppConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "Negative Timeout", content: "artwork:\n  lookup_timeout_ms: -1\n"},
		{name: "Zero Art Size", content: "artwork:\n  max_size_px: 0\n"},
		{name: "Negative Buffer", content: "sink:\n  buffer: -3\n"},
		{name: "Broken YAML", content: "backend: [unterminated\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			writeConfig(t, dir, tt.content)

			if _, err := NewAppConfig(zap.NewNop()); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestAppConfig_CapabilityReload(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "capabilities:\n  next: true\n")

	cfg, err := NewAppConfig(zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	writeConfig(t, dir, "identity: Ignored\ncapabilities:\n  next: false\n")

	select {
	case caps := <-cfg.CapabilityChanges():
		if caps.NextEnabled {
			t.Error("reloaded capabilities should disable next")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no capability change delivered")
	}

	if cfg.GetCapabilities().NextEnabled {
		t.Error("getter should reflect the reloaded capabilities")
	}
	if cfg.GetIdentity() != defaultIdentity {
		t.Errorf("identity is not reloadable, got %s", cfg.GetIdentity())
	}
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	t.Setenv("ART_ROOT", "/srv/art")

	tests := []struct {
		in       string
		expected string
	}{
		{in: "/abs/path", expected: "/abs/path"},
		{in: "~/cache", expected: "/home/tester/cache"},
		{in: "$ART_ROOT/covers", expected: "/srv/art/covers"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := expandPath(tt.in); got != tt.expected {
				t.Errorf("want %s, got %s", tt.expected, got)
			}
		})
	}
}
