package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ayusman/airsketch/internal/scene"
	"github.com/ayusman/airsketch/internal/session"
	"github.com/ayusman/airsketch/internal/store"
)

var errStopped = errors.New("engine stopped")

// fakeEngine serializes session access with a mutex.
type fakeEngine struct {
	mu      sync.Mutex
	s       *session.Session
	stopped bool
}

func newFakeEngine(t *testing.T) *fakeEngine {
	t.Helper()
	cfg := session.DefaultConfig()
	cfg.Settings.CanvasWidth = 1000
	cfg.Settings.CanvasHeight = 800
	s, err := session.New(cfg, nil)
	if err != nil {
		t.Fatalf("session.New() error = %v", err)
	}
	return &fakeEngine{s: s}
}

func (e *fakeEngine) Do(fn func(*session.Session)) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return errStopped
	}
	fn(e.s)
	return nil
}

func (e *fakeEngine) View() session.View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.s.View()
}

func (e *fakeEngine) seed() {
	e.Do(func(s *session.Session) { s.Load(testContent()) })
}

func testContent() scene.Content {
	return scene.Content{
		Strokes: []scene.Stroke{{
			Points: []scene.StrokePoint{{X: 10, Y: 10, T: 1}, {X: 50, Y: 60, T: 2}},
			Color:  "#00e0ff",
			Size:   6,
		}},
		Shapes: []scene.Shape{{Type: scene.Circle, CX: 300, CY: 300, W: 100, H: 100, Color: "#00e0ff"}},
	}
}

// newTestStore creates a new Store with a temporary database for testing.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func do(h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		json.NewEncoder(&buf).Encode(b)
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return v
}
