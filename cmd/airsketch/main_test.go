package main

import (
	"path/filepath"
	"testing"

	"github.com/ayusman/airsketch/internal/config"
	"github.com/ayusman/airsketch/internal/naming"
	"github.com/ayusman/airsketch/internal/server/api"
	"github.com/ayusman/airsketch/internal/session"
	"github.com/ayusman/airsketch/internal/store"
	"github.com/ayusman/airsketch/internal/suggest"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestLoadSettings(t *testing.T) {
	t.Run("nothing saved keeps defaults", func(t *testing.T) {
		st := newTestStore(t)
		settings := session.DefaultSettings()
		if err := loadSettings(st, &settings); err != nil {
			t.Fatalf("loadSettings() error = %v", err)
		}
		if settings != session.DefaultSettings() {
			t.Error("settings changed without a saved row")
		}
	})

	t.Run("saved settings win", func(t *testing.T) {
		st := newTestStore(t)
		saved := session.DefaultSettings()
		saved.Mode = session.ModeErase
		saved.Color = "#ff0000"
		if err := st.Settings().SetJSON(api.SettingsKey, saved); err != nil {
			t.Fatal(err)
		}

		settings := session.DefaultSettings()
		if err := loadSettings(st, &settings); err != nil {
			t.Fatalf("loadSettings() error = %v", err)
		}
		if settings != saved {
			t.Errorf("settings = %+v, want %+v", settings, saved)
		}
	})

	t.Run("invalid saved settings are ignored", func(t *testing.T) {
		st := newTestStore(t)
		if err := st.Settings().Set(api.SettingsKey, `{"mode":"paint"}`); err != nil {
			t.Fatal(err)
		}

		settings := session.DefaultSettings()
		if err := loadSettings(st, &settings); err == nil {
			t.Error("loadSettings() should reject an unknown mode")
		}
		if settings != session.DefaultSettings() {
			t.Error("settings changed after a rejected row")
		}
	})
}

func TestBuildNamer(t *testing.T) {
	unconfigured := naming.New(naming.Config{})

	t.Run("url wins", func(t *testing.T) {
		cfg := config.Defaults()
		cfg.Naming.URL = "http://localhost:9/api/recommend-shapes"
		cfg.Naming.Command = "namer"
		if _, ok := buildNamer(cfg, unconfigured).(*suggest.HTTPNamer); !ok {
			t.Error("expected an HTTPNamer")
		}
	})

	t.Run("command", func(t *testing.T) {
		cfg := config.Defaults()
		cfg.Naming.Command = "namer"
		if _, ok := buildNamer(cfg, unconfigured).(*suggest.CommandNamer); !ok {
			t.Error("expected a CommandNamer")
		}
	})

	t.Run("none", func(t *testing.T) {
		cfg := config.Defaults()
		if n := buildNamer(cfg, unconfigured); n != nil {
			t.Errorf("buildNamer() = %T, want nil", n)
		}
	})
}

func TestFindWebDir(t *testing.T) {
	t.Chdir(t.TempDir())
	if got := findWebDir(t.TempDir()); got != "" {
		t.Errorf("findWebDir() = %q, want empty", got)
	}
}
