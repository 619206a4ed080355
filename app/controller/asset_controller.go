package controller

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"dressup-studio/service"
)

// AssetController serves asset files and picker thumbnails
type AssetController struct {
	files     http.Handler
	catalog   *service.Catalog
	optimizer *service.ImageOptimizer
}

// NewAssetController creates a new AssetController serving files under assetRoot
func NewAssetController(assetRoot string, catalog *service.Catalog, optimizer *service.ImageOptimizer) *AssetController {
	return &AssetController{
		files:     http.StripPrefix(FilesPrefix, http.FileServer(http.Dir(assetRoot))),
		catalog:   catalog,
		optimizer: optimizer,
	}
}

// Files handles GET /files/...
func (c *AssetController) Files(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	// No directory listings
	if strings.HasSuffix(r.URL.Path, "/") {
		http.NotFound(w, r)
		return
	}
	c.files.ServeHTTP(w, r)
}

// Thumbnail handles GET /thumbs?src=assets/eyes/01.png&size=thumb
func (c *AssetController) Thumbnail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	src := strings.TrimSpace(r.URL.Query().Get("src"))
	if src == "" {
		http.Error(w, "src parameter is required", http.StatusBadRequest)
		return
	}
	// Only catalog assets are thumbnailed; anything else would be fetched and cached on demand
	if !c.catalog.Serves(src) {
		http.Error(w, fmt.Sprintf("Asset not found: %s", src), http.StatusNotFound)
		return
	}
	size := service.ThumbnailSize(r.URL.Query().Get("size"))

	data, err := c.optimizer.Thumbnail(r.Context(), src, size)
	if err != nil {
		if errors.Is(err, service.ErrAssetLoad) {
			log.Printf("⚠️  Thumbnail: %v", err)
			http.Error(w, fmt.Sprintf("Asset not found: %s", src), http.StatusNotFound)
			return
		}
		log.Printf("❌ Thumbnail: %v", err)
		http.Error(w, "Failed to build thumbnail", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Printf("❌ Thumbnail: Error writing response: %v", err)
	}
}
