package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/ayusman/airsketch/internal/naming"
	"github.com/ayusman/airsketch/internal/suggest"
)

// Configurable is implemented by namers that may lack credentials.
type Configurable interface {
	Configured() bool
}

// RecommendHandler names drawn strokes on request.
type RecommendHandler struct {
	namer suggest.Namer
}

// NewRecommendHandler creates a handler over namer. A nil namer answers
// every request as unconfigured.
func NewRecommendHandler(n suggest.Namer) *RecommendHandler {
	return &RecommendHandler{namer: n}
}

func (h *RecommendHandler) configured() bool {
	if h.namer == nil {
		return false
	}
	if c, ok := h.namer.(Configurable); ok {
		return c.Configured()
	}
	return true
}

// ServeHTTP handles POST /api/recommend-shapes.
func (h *RecommendHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if !h.configured() {
		writeError(w, http.StatusInternalServerError, "Missing GOOGLE_API_KEY")
		return
	}

	var req suggest.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if len(req.Strokes) == 0 {
		writeError(w, http.StatusBadRequest, "strokes array required")
		return
	}

	names, err := h.namer.Name(r.Context(), req)
	if err != nil {
		if errors.Is(err, naming.ErrNotConfigured) {
			writeError(w, http.StatusInternalServerError, "Missing GOOGLE_API_KEY")
			return
		}
		log.Printf("recommend-shapes: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "gemini_error", Detail: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, suggestionsResponse{Suggestions: suggest.Clean(names)})
}
