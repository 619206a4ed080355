package controller

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"dressup-studio/service"
)

// AssetCacheInterface is anything holding derived copies of assets that
// must be dropped after a sync rewrote them
type AssetCacheInterface interface {
	Forget()
}

// SyncController handles HTTP requests for Google Drive asset sync
type SyncController struct {
	syncService     service.SyncServiceInterface
	defaultFolderID string
	caches          []AssetCacheInterface
}

// NewSyncController creates a new SyncController
func NewSyncController(syncService service.SyncServiceInterface, defaultFolderID string, caches ...AssetCacheInterface) *SyncController {
	return &SyncController{
		syncService:     syncService,
		defaultFolderID: defaultFolderID,
		caches:          caches,
	}
}

// SyncAssets handles POST /admin/assets/sync?folderId=YOUR_FOLDER_ID
// The folder defaults to DRIVE_FOLDER_ID. The running catalog is not
// swapped; the new manifest is used from the next start.
func (c *SyncController) SyncAssets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if c.syncService == nil {
		http.Error(w, "Drive sync is not configured (GOOGLE_APPLICATION_CREDENTIALS is not set)", http.StatusServiceUnavailable)
		return
	}

	folderID := strings.TrimSpace(r.URL.Query().Get("folderId"))
	if folderID == "" {
		folderID = c.defaultFolderID
	}
	if folderID == "" {
		http.Error(w, "folderId parameter is required", http.StatusBadRequest)
		return
	}

	log.Printf("📥 Sync request received for folder: %s", folderID)

	result, err := c.syncService.SyncAssets(r.Context(), folderID)
	if err != nil {
		log.Printf("❌ Sync failed: %v", err)
		http.Error(w, fmt.Sprintf("Failed to sync assets: %v", err), http.StatusInternalServerError)
		return
	}

	for _, cache := range c.caches {
		cache.Forget()
	}

	response := map[string]interface{}{
		"status":     "success",
		"total":      result.Total,
		"downloaded": result.Downloaded,
		"skipped":    result.Skipped,
		"failed":     len(result.Errors),
		"errors":     result.Errors,
		"order":      result.Manifest.Order,
	}
	writeJSON(w, http.StatusOK, response)

	log.Printf("✅ Sync request completed: %d/%d files downloaded", result.Downloaded, result.Total)
}
