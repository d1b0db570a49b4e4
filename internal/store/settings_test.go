package store

import (
	"errors"
	"testing"
)

func TestSettingsRepository_GetSet(t *testing.T) {
	repo := newTestStore(t).Settings()

	if _, err := repo.Get("mode"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() on missing key = %v, want ErrNotFound", err)
	}

	if err := repo.Set("mode", "draw"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := repo.Set("mode", "erase"); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}

	got, err := repo.Get("mode")
	if err != nil || got != "erase" {
		t.Errorf("Get() = %q, %v; want erase", got, err)
	}
}

func TestSettingsRepository_JSON(t *testing.T) {
	repo := newTestStore(t).Settings()

	type prefs struct {
		Color string  `json:"color"`
		Width float64 `json:"width"`
	}

	if err := repo.SetJSON("prefs", prefs{Color: "#fff", Width: 4}); err != nil {
		t.Fatalf("SetJSON() error = %v", err)
	}

	var got prefs
	if err := repo.GetJSON("prefs", &got); err != nil {
		t.Fatalf("GetJSON() error = %v", err)
	}
	if got.Color != "#fff" || got.Width != 4 {
		t.Errorf("GetJSON() = %+v", got)
	}

	repo.Set("broken", "{")
	if err := repo.GetJSON("broken", &got); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("GetJSON(broken) = %v, want decode error", err)
	}
}
