package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/airsketch/internal/session"
	"github.com/ayusman/airsketch/internal/store"
)

// DrawingHandler saves, lists, loads and deletes named drawings.
type DrawingHandler struct {
	store  *store.Store
	engine Engine
}

// NewDrawingHandler creates a new DrawingHandler.
func NewDrawingHandler(s *store.Store, e Engine) *DrawingHandler {
	return &DrawingHandler{store: s, engine: e}
}

// ServeHTTP routes /api/drawings, /api/drawings/{id} and
// /api/drawings/{id}/load.
func (h *DrawingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/drawings")
	path = strings.Trim(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			methodNotAllowed(w)
		}
		return
	}

	if id, ok := strings.CutSuffix(path, "/load"); ok {
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		h.load(w, r, id)
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		methodNotAllowed(w)
	}
}

type createDrawingRequest struct {
	Name string `json:"name"`
}

type listDrawingsResponse struct {
	Drawings []store.Drawing `json:"drawings"`
}

// list handles GET /api/drawings.
func (h *DrawingHandler) list(w http.ResponseWriter, r *http.Request) {
	drawings, err := h.store.Drawings().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list drawings")
		return
	}
	if drawings == nil {
		drawings = []store.Drawing{}
	}
	writeJSON(w, http.StatusOK, listDrawingsResponse{Drawings: drawings})
}

// create handles POST /api/drawings and saves the committed scene.
func (h *DrawingHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createDrawingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	d := &store.Drawing{Name: req.Name}
	if err := h.engine.Do(func(s *session.Session) { d.Content = s.Content() }); err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if err := h.store.Drawings().Create(d); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save drawing")
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

// get handles GET /api/drawings/{id}.
func (h *DrawingHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	d, err := h.store.Drawings().GetByID(id)
	if err != nil {
		h.storeError(w, err, "Failed to get drawing")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// load handles POST /api/drawings/{id}/load and replaces the scene.
func (h *DrawingHandler) load(w http.ResponseWriter, r *http.Request, id string) {
	d, err := h.store.Drawings().GetByID(id)
	if err != nil {
		h.storeError(w, err, "Failed to get drawing")
		return
	}
	if err := h.engine.Do(func(s *session.Session) { s.Load(d.Content) }); err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.engine.View())
}

// delete handles DELETE /api/drawings/{id}.
func (h *DrawingHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Drawings().Delete(id); err != nil {
		h.storeError(w, err, "Failed to delete drawing")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *DrawingHandler) storeError(w http.ResponseWriter, err error, message string) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Drawing not found")
		return
	}
	writeError(w, http.StatusInternalServerError, message)
}
