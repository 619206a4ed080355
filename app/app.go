package app

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"

	"dressup-studio/app/controller"
	"dressup-studio/app/router"
	"dressup-studio/config"
	"dressup-studio/db"
	"dressup-studio/repository"
	"dressup-studio/service"
	"dressup-studio/templates"
	"dressup-studio/terminal"
)

// App holds everything main needs to serve
type App struct {
	Mux *http.ServeMux
	SSH *terminal.SSHServer // nil when SSH_ADDR is unset

	db *sql.DB
}

// Close releases the database connection and stops the SSH listener.
// Calling it again is a no-op.
func (a *App) Close() {
	if a.SSH != nil {
		if err := a.SSH.Close(); err != nil {
			log.Printf("⚠️  Failed to close SSH server: %v", err)
		}
		a.SSH = nil
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			log.Printf("⚠️  Failed to close database: %v", err)
		}
		a.db = nil
	}
}

// Initialize initializes the application
func Initialize(ctx context.Context, cfg config.Config) (*App, error) {
	a := &App{Mux: http.NewServeMux()}

	// Optional database: required for the postgres manifest source, and used
	// to keep a history of synced manifests when available
	var manifestRepo repository.ManifestRepositoryInterface
	if connStr := db.ConnString(cfg.DatabaseURL); connStr != "" {
		conn, err := db.Open(ctx, connStr)
		if err != nil {
			if cfg.ManifestSource == "postgres" {
				return nil, fmt.Errorf("failed to initialize database: %w", err)
			}
			log.Printf("⚠️  Database unavailable, continuing without it: %v", err)
		} else {
			a.db = conn
			repo := repository.NewManifestRepository(conn)
			if err := repo.EnsureSchema(ctx); err != nil {
				a.Close()
				return nil, fmt.Errorf("failed to prepare manifest table: %w", err)
			}
			manifestRepo = repo
		}
	}

	source, err := manifestSource(cfg, manifestRepo)
	if err != nil {
		a.Close()
		return nil, err
	}

	// A missing catalog is reported but never fatal
	manifest, err := service.LoadManifest(ctx, source)
	if err != nil {
		log.Printf("⚠️  Starting with the fallback catalog: %v", err)
	}
	catalog := service.NewCatalog(manifest)
	policy := service.LayerPolicy{ShowPlaceholder: cfg.ShowPlaceholder}

	randomizer := service.NewRandomizer(nil)
	session := service.NewSession(catalog, service.LogSink{Prefix: "web"}, policy)
	browser := service.NewBrowser(session)
	if cfg.RandomizeOnStart {
		randomizer.RandomizeAll(session)
	}

	// Rendering
	loader := service.NewFileAssetLoader(cfg.AssetRoot)
	exportCanvas := service.Canvas{Width: cfg.ExportWidth, Height: cfg.ExportHeight, DPR: 1}
	compositor := service.NewCompositor(loader, exportCanvas)

	optimizer := service.NewImageOptimizer(loader, cfg.CacheDir)
	if err := optimizer.EnsureCacheDir(); err != nil {
		log.Printf("⚠️  Thumbnail cache disabled: %v", err)
	}

	snapshots := service.NewSnapshotService(cfg.BaseURL, cfg.ChromePath)

	// Drive sync is optional
	var syncService service.SyncServiceInterface
	if cfg.CredentialsPath != "" {
		driveService, err := service.NewDriveService(ctx, cfg.CredentialsPath)
		if err != nil {
			log.Printf("⚠️  Drive sync disabled: %v", err)
		} else {
			syncService = service.NewSyncService(driveService, manifestRepo, cfg.AssetRoot, service.ResolveManifestPath(cfg.AssetRoot, cfg.ManifestPath))
		}
	} else {
		log.Printf("⏭️  GOOGLE_APPLICATION_CREDENTIALS not set, Drive sync disabled")
	}

	tmpl, err := templates.Parse("index.html")
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	// Create controllers
	controllers := &router.Controllers{
		Customizer: controller.NewCustomizerController(session, browser, randomizer, tmpl, exportCanvas),
		Export:     controller.NewExportController(session, compositor, snapshots),
		Asset:      controller.NewAssetController(cfg.AssetRoot, catalog, optimizer),
		Sync:       controller.NewSyncController(syncService, cfg.DriveFolderID, loader, optimizer),
	}

	// Setup routes using standard http router
	router.SetupRoutes(a.Mux, controllers)

	if cfg.SSHAddr != "" {
		a.SSH = terminal.NewSSHServer(cfg.SSHAddr, cfg.SSHHostKey, terminal.Options{
			Catalog:          catalog,
			Policy:           policy,
			Compositor:       compositor,
			Randomizer:       randomizer,
			RandomizeOnStart: cfg.RandomizeOnStart,
		})
	}

	return a, nil
}

// manifestSource picks where the manifest is read from
func manifestSource(cfg config.Config, repo repository.ManifestRepositoryInterface) (service.ManifestSourceInterface, error) {
	switch cfg.ManifestSource {
	case "file":
		return &service.FileManifestSource{Path: service.ResolveManifestPath(cfg.AssetRoot, cfg.ManifestPath)}, nil
	case "http":
		if cfg.ManifestURL == "" {
			return nil, fmt.Errorf("MANIFEST_URL is required when MANIFEST_SOURCE=http")
		}
		return &service.HTTPManifestSource{URL: cfg.ManifestURL}, nil
	case "postgres":
		if repo == nil {
			return nil, fmt.Errorf("MANIFEST_SOURCE=postgres requires DATABASE_URL or DB_* variables")
		}
		return &service.PostgresManifestSource{Repository: repo}, nil
	default:
		return nil, fmt.Errorf("unknown MANIFEST_SOURCE %q (want file, http or postgres)", cfg.ManifestSource)
	}
}
