package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/ayusman/airsketch/internal/scene"
	"github.com/ayusman/airsketch/internal/session"
	"github.com/ayusman/airsketch/internal/store"
)

// SettingsKey is the settings row holding the persisted session settings.
const SettingsKey = "session.settings"

// SessionHandler serves the live scene, history commands, settings and
// suggestions.
type SessionHandler struct {
	engine Engine
	store  *store.Store
}

// NewSessionHandler creates a handler. A nil store disables settings
// persistence.
func NewSessionHandler(e Engine, s *store.Store) *SessionHandler {
	return &SessionHandler{engine: e, store: s}
}

// ServeHTTP routes by path.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch strings.TrimSuffix(r.URL.Path, "/") {
	case "/api/scene":
		h.onlyGet(w, r, h.scene)
	case "/api/undo":
		h.onlyPost(w, r, h.undo)
	case "/api/redo":
		h.onlyPost(w, r, h.redo)
	case "/api/clear":
		h.onlyPost(w, r, h.clear)
	case "/api/settings":
		switch r.Method {
		case http.MethodGet:
			h.getSettings(w, r)
		case http.MethodPut:
			h.putSettings(w, r)
		default:
			methodNotAllowed(w)
		}
	case "/api/suggestions":
		h.onlyGet(w, r, h.suggestions)
	case "/api/suggestions/insert":
		h.onlyPost(w, r, h.insert)
	default:
		http.NotFound(w, r)
	}
}

func (h *SessionHandler) onlyGet(w http.ResponseWriter, r *http.Request, fn http.HandlerFunc) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	fn(w, r)
}

func (h *SessionHandler) onlyPost(w http.ResponseWriter, r *http.Request, fn http.HandlerFunc) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	fn(w, r)
}

// do runs fn and answers with the resulting view.
func (h *SessionHandler) do(w http.ResponseWriter, fn func(*session.Session)) {
	if err := h.engine.Do(fn); err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.engine.View())
}

// scene handles GET /api/scene.
func (h *SessionHandler) scene(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.View())
}

// undo handles POST /api/undo.
func (h *SessionHandler) undo(w http.ResponseWriter, r *http.Request) {
	h.do(w, func(s *session.Session) { s.Undo() })
}

// redo handles POST /api/redo.
func (h *SessionHandler) redo(w http.ResponseWriter, r *http.Request) {
	h.do(w, func(s *session.Session) { s.Redo() })
}

// clear handles POST /api/clear.
func (h *SessionHandler) clear(w http.ResponseWriter, r *http.Request) {
	h.do(w, func(s *session.Session) { s.Clear() })
}

// getSettings handles GET /api/settings.
func (h *SessionHandler) getSettings(w http.ResponseWriter, r *http.Request) {
	var settings session.Settings
	if err := h.engine.Do(func(s *session.Session) { settings = s.Settings() }); err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// settingsPatch holds the fields a PUT may change; absent fields keep
// their value.
type settingsPatch struct {
	Mode         *string  `json:"mode"`
	Snap         *bool    `json:"snap"`
	TargetType   *string  `json:"targetType"`
	Color        *string  `json:"color"`
	Width        *float64 `json:"width"`
	EraseRadius  *float64 `json:"eraseRadius"`
	PixelRatio   *float64 `json:"pixelRatio"`
	CanvasWidth  *float64 `json:"canvasWidth"`
	CanvasHeight *float64 `json:"canvasHeight"`
	ShowHands    *bool    `json:"showHands"`
}

func (p settingsPatch) apply(s session.Settings) session.Settings {
	if p.Mode != nil {
		s.Mode = session.Mode(*p.Mode)
	}
	if p.Snap != nil {
		s.Snap = *p.Snap
	}
	if p.TargetType != nil {
		s.TargetType = *p.TargetType
	}
	if p.Color != nil {
		s.Color = *p.Color
	}
	if p.Width != nil {
		s.Width = *p.Width
	}
	if p.EraseRadius != nil {
		s.EraseRadius = *p.EraseRadius
	}
	if p.PixelRatio != nil {
		s.PixelRatio = *p.PixelRatio
	}
	if p.CanvasWidth != nil {
		s.CanvasWidth = *p.CanvasWidth
	}
	if p.CanvasHeight != nil {
		s.CanvasHeight = *p.CanvasHeight
	}
	if p.ShowHands != nil {
		s.ShowHands = *p.ShowHands
	}
	return s
}

// putSettings handles PUT /api/settings. Picking an explicit target type
// in edit mode also retypes the selected shape.
func (h *SessionHandler) putSettings(w http.ResponseWriter, r *http.Request) {
	var patch settingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	var (
		settings session.Settings
		err      error
	)
	doErr := h.engine.Do(func(s *session.Session) {
		next := patch.apply(s.Settings())
		if err = s.UpdateSettings(next); err != nil {
			return
		}
		if patch.TargetType != nil {
			_, err = s.SetShapeType(next.TargetType)
		}
		settings = s.Settings()
	})
	if doErr != nil {
		writeError(w, http.StatusServiceUnavailable, doErr.Error())
		return
	}
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	if h.store != nil {
		if err := h.store.Settings().SetJSON(SettingsKey, settings); err != nil {
			log.Printf("Failed to persist settings: %v", err)
		}
	}
	writeJSON(w, http.StatusOK, settings)
}

type suggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

// suggestions handles GET /api/suggestions.
func (h *SessionHandler) suggestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, suggestionsResponse{Suggestions: h.engine.View().Suggestions})
}

type insertRequest struct {
	Label string `json:"label"`
}

// insert handles POST /api/suggestions/insert.
func (h *SessionHandler) insert(w http.ResponseWriter, r *http.Request) {
	var req insertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if strings.TrimSpace(req.Label) == "" {
		writeError(w, http.StatusBadRequest, "Label is required")
		return
	}

	var shape scene.Shape
	if err := h.engine.Do(func(s *session.Session) { shape = s.InsertSuggestion(req.Label) }); err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, shape)
}
