package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ayusman/airsketch/internal/store"
)

// Capture renders the current frame with the scene on top as PNG.
type Capture func() (png []byte, width, height int, err error)

// SnapshotHandler manages the snapshot gallery.
type SnapshotHandler struct {
	store   *store.Store
	capture Capture
}

// NewSnapshotHandler creates a new SnapshotHandler.
func NewSnapshotHandler(s *store.Store, c Capture) *SnapshotHandler {
	return &SnapshotHandler{store: s, capture: c}
}

// ServeHTTP routes /api/snapshots and /api/snapshots/{id}.
func (h *SnapshotHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/snapshots"), "/")

	if id == "" {
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

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		methodNotAllowed(w)
	}
}

type listSnapshotsResponse struct {
	Snapshots []store.Snapshot `json:"snapshots"`
}

// list handles GET /api/snapshots, newest first.
func (h *SnapshotHandler) list(w http.ResponseWriter, r *http.Request) {
	snapshots, err := h.store.Snapshots().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list snapshots")
		return
	}
	if snapshots == nil {
		snapshots = []store.Snapshot{}
	}
	writeJSON(w, http.StatusOK, listSnapshotsResponse{Snapshots: snapshots})
}

// create handles POST /api/snapshots. An optional drawing query parameter
// links the snapshot to a saved drawing.
func (h *SnapshotHandler) create(w http.ResponseWriter, r *http.Request) {
	if h.capture == nil {
		writeError(w, http.StatusServiceUnavailable, "Capture not available")
		return
	}
	png, width, height, err := h.capture()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to capture snapshot")
		return
	}

	sn := &store.Snapshot{
		DrawingID: r.URL.Query().Get("drawing"),
		Width:     width,
		Height:    height,
		PNG:       png,
	}
	if sn.DrawingID != "" {
		if _, err := h.store.Drawings().GetByID(sn.DrawingID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusBadRequest, "Drawing not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "Failed to get drawing")
			return
		}
	}
	if err := h.store.Snapshots().Create(sn); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save snapshot")
		return
	}
	writeJSON(w, http.StatusCreated, sn)
}

// get handles GET /api/snapshots/{id} and returns the PNG.
func (h *SnapshotHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	sn, err := h.store.Snapshots().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Snapshot not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get snapshot")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(sn.PNG)))
	w.WriteHeader(http.StatusOK)
	w.Write(sn.PNG)
}

// delete handles DELETE /api/snapshots/{id}.
func (h *SnapshotHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Snapshots().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Snapshot not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete snapshot")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
