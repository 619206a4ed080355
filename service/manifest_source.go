package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"dressup-studio/models"
	"dressup-studio/repository"
	"dressup-studio/utils"
)

// ErrCatalogUnavailable marks a manifest that could not be fetched or parsed
var ErrCatalogUnavailable = errors.New("catalog unavailable")

// ManifestSourceInterface fetches the raw manifest document
type ManifestSourceInterface interface {
	Fetch(ctx context.Context) ([]byte, error)
	String() string
}

// FileManifestSource reads the manifest from disk
type FileManifestSource struct {
	Path string
}

// Ensure FileManifestSource implements ManifestSourceInterface
var _ ManifestSourceInterface = (*FileManifestSource)(nil)

// Fetch reads the manifest file
func (s *FileManifestSource) Fetch(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return data, nil
}

func (s *FileManifestSource) String() string {
	return "file " + s.Path
}

// HTTPManifestSource downloads the manifest from a URL
type HTTPManifestSource struct {
	URL    string
	Client *http.Client
}

// Ensure HTTPManifestSource implements ManifestSourceInterface
var _ ManifestSourceInterface = (*HTTPManifestSource)(nil)

// Fetch downloads the manifest
func (s *HTTPManifestSource) Fetch(ctx context.Context) ([]byte, error) {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build manifest request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch manifest: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("manifest endpoint returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest body: %w", err)
	}
	return data, nil
}

func (s *HTTPManifestSource) String() string {
	return "url " + s.URL
}

// PostgresManifestSource reads the latest manifest stored in the database
type PostgresManifestSource struct {
	Repository repository.ManifestRepositoryInterface
}

// Ensure PostgresManifestSource implements ManifestSourceInterface
var _ ManifestSourceInterface = (*PostgresManifestSource)(nil)

// Fetch returns the newest stored manifest document
func (s *PostgresManifestSource) Fetch(ctx context.Context) ([]byte, error) {
	return s.Repository.GetLatest(ctx)
}

func (s *PostgresManifestSource) String() string {
	return "postgres"
}

// ParseManifest decodes a manifest document.
// Each top-level field is decoded on its own so that one malformed field
// (e.g. a non-list "order") only drops that field.
func ParseManifest(data []byte) (models.Manifest, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return models.Manifest{}, fmt.Errorf("failed to parse manifest: %w", err)
	}

	var manifest models.Manifest
	if raw, ok := fields["order"]; ok {
		if err := json.Unmarshal(raw, &manifest.Order); err != nil {
			log.Printf("⚠️  Manifest order is malformed, using fallback order: %v", err)
			manifest.Order = nil
		}
	}
	if raw, ok := fields["parts"]; ok {
		if err := json.Unmarshal(raw, &manifest.Parts); err != nil {
			log.Printf("⚠️  Manifest parts is malformed, ignoring it: %v", err)
			manifest.Parts = nil
		}
	}
	if raw, ok := fields["icon"]; ok {
		manifest.Icon = decodeItemList(raw)
	}
	if raw, ok := fields["iconsMap"]; ok {
		if err := json.Unmarshal(raw, &manifest.IconsMap); err != nil {
			log.Printf("⚠️  Manifest iconsMap is malformed, ignoring it: %v", err)
			manifest.IconsMap = nil
		}
	}
	return manifest, nil
}

// FallbackManifest is used when no manifest can be loaded:
// the built-in order with empty item lists
func FallbackManifest() models.Manifest {
	order := make([]string, len(utils.FallbackOrder))
	copy(order, utils.FallbackOrder)
	return models.Manifest{Order: order}
}

// LoadManifest fetches and parses the manifest.
// Never fails: on any error the fallback manifest is returned together with
// the ErrCatalogUnavailable-wrapped cause so callers can report it.
func LoadManifest(ctx context.Context, source ManifestSourceInterface) (models.Manifest, error) {
	data, err := source.Fetch(ctx)
	if err != nil {
		log.Printf("⚠️  Failed to load manifest from %s, using fallback: %v", source, err)
		return FallbackManifest(), fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	manifest, err := ParseManifest(data)
	if err != nil {
		log.Printf("⚠️  Failed to parse manifest from %s, using fallback: %v", source, err)
		return FallbackManifest(), fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	log.Printf("✓ Manifest loaded from %s (%d categories in order, %d part lists)", source, len(manifest.Order), len(manifest.Parts))
	return manifest, nil
}

// ResolveManifestPath resolves a manifest path against the asset root
func ResolveManifestPath(assetRoot, manifestPath string) string {
	if filepath.IsAbs(manifestPath) {
		return manifestPath
	}
	return filepath.Join(assetRoot, manifestPath)
}
