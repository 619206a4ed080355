package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"

	"dressup-studio/models"
	"dressup-studio/repository"
	"dressup-studio/utils"
)

// assetsPrefix is the directory under the asset root that synced files go to
const assetsPrefix = "assets"

// SyncService mirrors a Google Drive folder into the asset root and
// regenerates the manifest.
// Implements SyncServiceInterface
type SyncService struct {
	driveService DriveServiceInterface
	repository   repository.ManifestRepositoryInterface // optional
	assetRoot    string
	manifestPath string
}

// NewSyncService creates a new SyncService.
// repo may be nil when no database is configured.
func NewSyncService(driveService DriveServiceInterface, repo repository.ManifestRepositoryInterface, assetRoot, manifestPath string) *SyncService {
	return &SyncService{
		driveService: driveService,
		repository:   repo,
		assetRoot:    assetRoot,
		manifestPath: manifestPath,
	}
}

// Ensure SyncService implements SyncServiceInterface
var _ SyncServiceInterface = (*SyncService)(nil)

// syncRun accumulates the stats of one sync
type syncRun struct {
	result models.SyncResult
	used   map[string]bool
}

func (r *syncRun) fail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Printf("❌ %s", msg)
	r.result.Errors = append(r.result.Errors, msg)
}

// SyncAssets mirrors folderID. The folder holds one sub-folder per category
// token; the hair folder holds male/female (or primary/secondary)
// sub-folders; "icon" and "empty" folders are optional.
// Errors for single files are collected in the result, not returned.
func (s *SyncService) SyncAssets(ctx context.Context, folderID string) (models.SyncResult, error) {
	log.Printf("🔄 Starting asset sync for folder: %s", folderID)

	entries, err := s.driveService.ListFolder(ctx, folderID)
	if err != nil {
		return models.SyncResult{}, fmt.Errorf("failed to list asset folder from Drive: %w", err)
	}

	run := &syncRun{used: make(map[string]bool)}
	manifest := models.Manifest{Parts: make(map[string]json.RawMessage)}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return run.result, err
		}
		if !entry.IsFolder() {
			continue
		}

		token := strings.ToLower(strings.TrimSpace(entry.Name))
		switch token {
		case "icon", "icons":
			manifest.Icon = s.mirrorFolder(ctx, run, entry, "icon")
		case "empty":
			if files := s.mirrorFolder(ctx, run, entry, "empty"); len(files) > 0 {
				manifest.Parts["empty"] = mustList(files[:1])
			}
		default:
			category := utils.CanonicalCategory(entry.Name)
			if category == models.CategoryHair {
				hair, err := s.mirrorHair(ctx, run, entry)
				if err != nil {
					run.fail("Failed to sync hair folder %s: %v", entry.Name, err)
					continue
				}
				data, _ := json.Marshal(hair)
				manifest.Parts[string(category)] = data
			} else {
				manifest.Parts[string(category)] = mustList(s.mirrorFolder(ctx, run, entry, string(category)))
			}
			manifest.Order = append(manifest.Order, string(category))
		}
	}

	// Normalize order the same way the catalog will read it
	manifest.Order = utils.CategoryStrings(NewCatalog(manifest).Order())

	if err := s.writeManifest(ctx, manifest); err != nil {
		return run.result, err
	}

	run.result.Manifest = manifest
	log.Printf("🎉 Asset sync completed: %d downloaded, %d skipped, %d failed out of %d total files",
		run.result.Downloaded, run.result.Skipped, len(run.result.Errors), run.result.Total)
	return run.result, nil
}

// mirrorHair syncs the male/female sub-folders of the hair folder.
// Images placed directly in the hair folder count as primary.
func (s *SyncService) mirrorHair(ctx context.Context, run *syncRun, folder models.DriveEntry) (models.HairParts, error) {
	children, err := s.driveService.ListFolder(ctx, folder.ID)
	if err != nil {
		return models.HairParts{}, err
	}

	var hair models.HairParts
	hair.Male = s.mirrorFiles(ctx, run, children, "Hair")
	for _, child := range children {
		if !child.IsFolder() {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(child.Name)) {
		case "male", "primary":
			hair.Male = append(hair.Male, s.mirrorFolder(ctx, run, child, "Hair/male")...)
		case "female", "secondary":
			hair.Female = append(hair.Female, s.mirrorFolder(ctx, run, child, "Hair/female")...)
		default:
			log.Printf("⚠️  Ignoring unknown hair folder %s", child.Name)
		}
	}
	return hair, nil
}

// mirrorFolder syncs the image files of a folder into assets/<dir>
func (s *SyncService) mirrorFolder(ctx context.Context, run *syncRun, folder models.DriveEntry, dir string) []string {
	children, err := s.driveService.ListFolder(ctx, folder.ID)
	if err != nil {
		run.fail("Failed to list folder %s: %v", folder.Name, err)
		return []string{}
	}
	return s.mirrorFiles(ctx, run, children, dir)
}

// mirrorFiles downloads image entries not yet on disk and returns their
// asset references in listing order
func (s *SyncService) mirrorFiles(ctx context.Context, run *syncRun, entries []models.DriveEntry, dir string) []string {
	refs := []string{}
	for _, entry := range entries {
		if entry.IsFolder() || !utils.IsImageFile(entry.Name) {
			continue
		}
		run.result.Total++

		ref := path.Join(assetsPrefix, dir, entry.Name)
		if _, ok := utils.CleanAssetPath(ref); !ok {
			run.fail("Skipping %s: invalid file name", entry.Name)
			continue
		}
		if run.used[ref] {
			log.Printf("⏭️  Skipping %s (duplicate filename in this sync)", ref)
			run.result.Skipped++
			continue
		}
		run.used[ref] = true

		target := filepath.Join(s.assetRoot, filepath.FromSlash(ref))
		if _, err := os.Stat(target); err == nil {
			log.Printf("⏭️  Skipping %s (already exists on disk)", ref)
			run.result.Skipped++
			refs = append(refs, ref)
			continue
		}

		data, err := s.driveService.Download(ctx, entry.ID)
		if err != nil {
			run.fail("Failed to download %s (%s): %v", entry.Name, entry.ID, err)
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			run.fail("Failed to create directory for %s: %v", ref, err)
			continue
		}
		if err := os.WriteFile(target, data, 0644); err != nil {
			run.fail("Failed to save %s: %v", ref, err)
			continue
		}

		log.Printf("✓ Downloaded %s", ref)
		run.result.Downloaded++
		refs = append(refs, ref)
	}
	return refs
}

// writeManifest writes the manifest file and stores it in the database
// when one is configured
func (s *SyncService) writeManifest(ctx context.Context, manifest models.Manifest) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.manifestPath), 0755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}
	if err := os.WriteFile(s.manifestPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	log.Printf("💾 Manifest written to %s", s.manifestPath)

	if s.repository == nil {
		return nil
	}
	id, err := s.repository.Insert(ctx, data, "drive")
	if err != nil {
		return fmt.Errorf("failed to store manifest: %w", err)
	}
	log.Printf("💾 Manifest stored in database (id: %d)", id)
	return nil
}

// mustList encodes a string list; encoding a []string cannot fail
func mustList(items []string) json.RawMessage {
	data, _ := json.Marshal(items)
	return data
}
