package main

import (
	"context"
	"testing"

	"github.com/genricoloni/nowplaying/internal/domain"
	"github.com/genricoloni/nowplaying/internal/native/memory"
	"go.uber.org/fx"
)

// isolateConfig keeps tests away from the user's config file and selects
// the in-memory backend
func isolateConfig(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("NOWPLAYING_BACKEND", "memory")
}

// TestAppGraphValidity verifies that the dependency graph is resolvable.
// This test will fail if you forget an fx.Provide for a required interface.
func TestAppGraphValidity(t *testing.T) {
	err := fx.ValidateApp(AppOptions)
	if err != nil {
		t.Errorf("Dependency graph is not valid: %v", err)
	}
}

// TestNewLogger specifically verifies the logger configuration
func TestNewLogger(t *testing.T) {
	logger, err := newLogger()
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	if logger == nil {
		t.Fatal("Logger should not be nil")
	}
	logger.Info("Test logger initialization")
}

func TestNewStartupTrack(t *testing.T) {
	titleFlag, artistFlag, albumFlag, artFlag, durationFlag = "", "", "", "", 0
	if newStartupTrack() != nil {
		t.Error("no title means no startup track")
	}

	titleFlag, artistFlag, durationFlag = "Song", "Artist", 1000
	t.Cleanup(func() { titleFlag, artistFlag, durationFlag = "", "", 0 })

	tr := newStartupTrack()
	if tr == nil {
		t.Fatal("expected a startup track")
	}
	if *tr.meta.Title != "Song" || *tr.meta.Artist != "Artist" || tr.meta.Album != nil || tr.durationMs != 1000 {
		t.Errorf("unexpected track %+v", tr)
	}
}

// TestEndToEndStartup runs a real startup and shutdown on the in-memory
// backend and checks the handlers are withdrawn before the controls close
func TestEndToEndStartup(t *testing.T) {
	isolateConfig(t)

	var controls domain.Controls
	app := fx.New(
		AppOptions,
		fx.NopLogger, // Silence Fx logs during tests
		fx.Populate(&controls),
	)

	if err := app.Start(t.Context()); err != nil {
		t.Fatalf("App failed to start: %v", err)
	}

	mem, ok := controls.(*memory.Controls)
	if !ok {
		t.Fatalf("expected memory controls, got %T", controls)
	}
	if mem.HandlerCount() != 4 {
		t.Errorf("expected 4 registered handlers, got %d", mem.HandlerCount())
	}
	state := mem.Snapshot()
	if !state.Enabled || state.AutoManagement {
		t.Errorf("unexpected initial state %+v", state)
	}
	if !state.Buttons[domain.ButtonPlay] {
		t.Error("default capabilities should enable play")
	}

	if err := app.Stop(context.Background()); err != nil {
		t.Fatalf("App failed to stop: %v", err)
	}
	if mem.HandlerCount() != 0 {
		t.Errorf("handlers should be withdrawn on stop, %d left", mem.HandlerCount())
	}
	if !mem.Snapshot().Closed {
		t.Error("controls should be released on stop")
	}
}
