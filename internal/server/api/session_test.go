package api

import (
	"net/http"
	"testing"

	"github.com/ayusman/airsketch/internal/scene"
	"github.com/ayusman/airsketch/internal/session"
)

func TestSessionHandler_Scene(t *testing.T) {
	e := newFakeEngine(t)
	e.seed()
	h := NewSessionHandler(e, nil)

	rec := do(h, http.MethodGet, "/api/scene", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	v := decode[session.View](t, rec)
	if len(v.Strokes) != 1 || len(v.Shapes) != 1 {
		t.Errorf("view has %d strokes, %d shapes", len(v.Strokes), len(v.Shapes))
	}
	if !v.CanUndo {
		t.Error("loading should be undoable")
	}
}

func TestSessionHandler_History(t *testing.T) {
	e := newFakeEngine(t)
	e.seed()
	h := NewSessionHandler(e, nil)

	rec := do(h, http.MethodPost, "/api/clear", nil)
	if v := decode[session.View](t, rec); len(v.Strokes) != 0 || len(v.Shapes) != 0 {
		t.Fatalf("after clear: %d strokes, %d shapes", len(v.Strokes), len(v.Shapes))
	}

	rec = do(h, http.MethodPost, "/api/undo", nil)
	v := decode[session.View](t, rec)
	if len(v.Strokes) != 1 || len(v.Shapes) != 1 {
		t.Fatalf("after undo: %d strokes, %d shapes", len(v.Strokes), len(v.Shapes))
	}
	if !v.CanRedo {
		t.Error("redo should be available after undo")
	}

	rec = do(h, http.MethodPost, "/api/redo", nil)
	if v := decode[session.View](t, rec); len(v.Strokes) != 0 {
		t.Errorf("after redo: %d strokes, want 0", len(v.Strokes))
	}
}

func TestSessionHandler_Settings(t *testing.T) {
	s := newTestStore(t)
	e := newFakeEngine(t)
	h := NewSessionHandler(e, s)

	rec := do(h, http.MethodGet, "/api/settings", nil)
	got := decode[session.Settings](t, rec)
	if got.Mode != session.ModeDraw || got.Width != 6 {
		t.Fatalf("initial settings = %+v", got)
	}

	rec = do(h, http.MethodPut, "/api/settings", `{"mode":"erase","eraseRadius":40}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT status = %d: %s", rec.Code, rec.Body.String())
	}
	got = decode[session.Settings](t, rec)
	if got.Mode != session.ModeErase || got.EraseRadius != 40 {
		t.Errorf("updated settings = %+v", got)
	}
	if got.Color != "#00e0ff" {
		t.Errorf("absent fields should be kept, color = %q", got.Color)
	}

	var stored session.Settings
	if err := s.Settings().GetJSON(SettingsKey, &stored); err != nil {
		t.Fatalf("settings not persisted: %v", err)
	}
	if stored.Mode != session.ModeErase {
		t.Errorf("persisted mode = %q", stored.Mode)
	}
}

func TestSessionHandler_Settings_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
	}{
		{"invalid json", `{`, http.StatusBadRequest},
		{"unknown mode", `{"mode":"paint"}`, http.StatusBadRequest},
		{"unknown target", `{"targetType":"hexagon"}`, http.StatusBadRequest},
		{"zero width", `{"width":0}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newFakeEngine(t)
			h := NewSessionHandler(e, nil)

			rec := do(h, http.MethodPut, "/api/settings", tt.body)
			if rec.Code != tt.code {
				t.Errorf("status = %d, want %d", rec.Code, tt.code)
			}
			if mode := e.View().Mode; mode != session.ModeDraw {
				t.Errorf("rejected update changed mode to %q", mode)
			}
		})
	}
}

func TestSessionHandler_Insert(t *testing.T) {
	e := newFakeEngine(t)
	h := NewSessionHandler(e, nil)

	rec := do(h, http.MethodPost, "/api/suggestions/insert", map[string]string{"label": "Smiley circle"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	sh := decode[scene.Shape](t, rec)
	if sh.Type != scene.Circle || sh.CX != 500 || sh.CY != 400 || sh.W != 220 {
		t.Errorf("inserted shape = %+v", sh)
	}
	if n := len(e.View().Shapes); n != 1 {
		t.Errorf("scene shapes = %d, want 1", n)
	}

	rec = do(h, http.MethodPost, "/api/suggestions/insert", map[string]string{"label": "  "})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("blank label status = %d, want 400", rec.Code)
	}
}

func TestSessionHandler_Suggestions(t *testing.T) {
	h := NewSessionHandler(newFakeEngine(t), nil)

	rec := do(h, http.MethodGet, "/api/suggestions", nil)
	resp := decode[suggestionsResponse](t, rec)
	if resp.Suggestions == nil || len(resp.Suggestions) != 0 {
		t.Errorf("suggestions = %#v, want empty list", resp.Suggestions)
	}
}

func TestSessionHandler_MethodNotAllowed(t *testing.T) {
	h := NewSessionHandler(newFakeEngine(t), nil)

	tests := []struct {
		method, path string
	}{
		{http.MethodPost, "/api/scene"},
		{http.MethodGet, "/api/undo"},
		{http.MethodGet, "/api/redo"},
		{http.MethodDelete, "/api/clear"},
		{http.MethodPost, "/api/settings"},
		{http.MethodGet, "/api/suggestions/insert"},
	}
	for _, tt := range tests {
		rec := do(h, tt.method, tt.path, nil)
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s %s: status = %d, want 405", tt.method, tt.path, rec.Code)
		}
	}
}

func TestSessionHandler_Stopped(t *testing.T) {
	e := newFakeEngine(t)
	e.stopped = true
	h := NewSessionHandler(e, nil)

	rec := do(h, http.MethodPost, "/api/undo", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}
