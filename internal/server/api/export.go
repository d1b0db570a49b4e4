package api

import (
	"bytes"
	"log"
	"net/http"
	"strconv"

	"github.com/ayusman/airsketch/internal/export"
	"github.com/ayusman/airsketch/internal/scene"
	"github.com/ayusman/airsketch/internal/session"
)

// ExportHandler serves the committed scene as a PDF.
type ExportHandler struct {
	engine Engine
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(e Engine) *ExportHandler {
	return &ExportHandler{engine: e}
}

// ServeHTTP handles GET /api/export.pdf?title=...
func (h *ExportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	var (
		content  scene.Content
		settings session.Settings
	)
	if err := h.engine.Do(func(s *session.Session) {
		content = s.Content()
		settings = s.Settings()
	}); err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	var buf bytes.Buffer
	err := export.WritePDF(&buf, content, export.Options{
		Title:  r.URL.Query().Get("title"),
		Width:  settings.CanvasWidth,
		Height: settings.CanvasHeight,
	})
	if err != nil {
		log.Printf("PDF export failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to export PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="airsketch.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
