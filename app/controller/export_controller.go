package controller

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"dressup-studio/models"
	"dressup-studio/service"
)

// validFormats is a map of valid export format values
var validFormats = map[models.ExportFormat]bool{
	models.ExportPNG:  true,
	models.ExportWebP: true,
}

// ExportController handles HTTP requests for exporting the composite image
type ExportController struct {
	session    *service.Session
	compositor *service.Compositor
	snapshots  *service.SnapshotService // nil when disabled
}

// NewExportController creates a new ExportController
func NewExportController(session *service.Session, compositor *service.Compositor, snapshots *service.SnapshotService) *ExportController {
	return &ExportController{
		session:    session,
		compositor: compositor,
		snapshots:  snapshots,
	}
}

// parseCanvas reads width, height and dpr query parameters.
// Missing values fall back to the compositor's canvas.
func (c *ExportController) parseCanvas(r *http.Request) (service.Canvas, error) {
	query := r.URL.Query()
	var canvas service.Canvas

	for _, field := range []struct {
		name string
		dst  *int
	}{{"width", &canvas.Width}, {"height", &canvas.Height}} {
		raw := strings.TrimSpace(query.Get(field.name))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 4096 {
			return service.Canvas{}, fmt.Errorf("%s must be an integer between 1 and 4096", field.name)
		}
		*field.dst = n
	}

	if raw := strings.TrimSpace(query.Get("dpr")); raw != "" {
		dpr, err := strconv.ParseFloat(raw, 64)
		if err != nil || dpr <= 0 || dpr > 4 {
			return service.Canvas{}, fmt.Errorf("dpr must be a number between 0 and 4")
		}
		canvas.DPR = dpr
	}

	return canvas.Resolve(c.compositor.Fallback()), nil
}

// Export handles GET /api/export?width=512&height=512&dpr=2&format=png|webp
func (c *ExportController) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	canvas, err := c.parseCanvas(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	format := models.ExportFormat(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format"))))
	if format == "" {
		format = models.ExportPNG
	}
	if !validFormats[format] {
		http.Error(w, "Invalid format. Valid formats: png, webp", http.StatusBadRequest)
		return
	}

	result, err := c.compositor.Export(r.Context(), c.session.Layers(), canvas, format)
	if err != nil {
		log.Printf("❌ Export: %v", err)
		http.Error(w, fmt.Sprintf("Failed to export image: %v", err), http.StatusInternalServerError)
		return
	}

	writeAttachment(w, result)
}

// Snapshot handles GET /api/export/snapshot?width=512&height=512&dpr=2
// It captures the live page with headless Chrome instead of compositing.
func (c *ExportController) Snapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if c.snapshots == nil {
		http.Error(w, "Snapshot export is disabled", http.StatusServiceUnavailable)
		return
	}

	canvas, err := c.parseCanvas(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := c.snapshots.Capture(r.Context(), canvas)
	if err != nil {
		log.Printf("❌ Snapshot: %v", err)
		http.Error(w, fmt.Sprintf("Failed to capture snapshot: %v", err), http.StatusInternalServerError)
		return
	}

	writeAttachment(w, result)
}

func writeAttachment(w http.ResponseWriter, result models.ExportResult) {
	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", result.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Data); err != nil {
		log.Printf("❌ Error writing %s: %v", result.Filename, err)
	}
}
