package router

import (
	"net/http"

	"dressup-studio/app/controller"
)

type Controllers struct {
	Customizer *controller.CustomizerController
	Export     *controller.ExportController
	Asset      *controller.AssetController
	Sync       *controller.SyncController
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func SetupRoutes(mux *http.ServeMux, controllers *Controllers) {
	// Ping endpoint
	mux.HandleFunc("/ping", pingHandler)

	// Customizer page and its form actions
	mux.HandleFunc("/", controllers.Customizer.Index)
	mux.HandleFunc("/actions/", controllers.Customizer.Action)

	// JSON API
	mux.HandleFunc("/api/state", controllers.Customizer.GetState)
	mux.HandleFunc("/api/page", controllers.Customizer.GetPage)
	mux.HandleFunc("/api/select", controllers.Customizer.Select)
	mux.HandleFunc("/api/clear", controllers.Customizer.Clear)
	mux.HandleFunc("/api/tab", controllers.Customizer.SetTab)
	mux.HandleFunc("/api/mode", controllers.Customizer.SetMode)
	mux.HandleFunc("/api/randomize", controllers.Customizer.Randomize)
	mux.HandleFunc("/api/reset", controllers.Customizer.Reset)

	// Export routes
	mux.HandleFunc("/api/export", controllers.Export.Export)
	mux.HandleFunc("/api/export/snapshot", controllers.Export.Snapshot)

	// Assets
	mux.HandleFunc(controller.FilesPrefix, controllers.Asset.Files)
	mux.HandleFunc("/thumbs", controllers.Asset.Thumbnail)

	// Admin: mirror assets from Google Drive
	mux.HandleFunc("/admin/assets/sync", controllers.Sync.SyncAssets)
}
