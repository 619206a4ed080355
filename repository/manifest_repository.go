package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
)

// ErrNoManifest is returned when the manifests table is empty
var ErrNoManifest = errors.New("no manifest stored")

const createManifestsTable = `
	CREATE TABLE IF NOT EXISTS manifests (
		id         BIGSERIAL PRIMARY KEY,
		document   JSONB NOT NULL,
		source     TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)
`

// ManifestRepository stores catalog manifest documents in PostgreSQL.
// Rows are append-only; the newest row is the active manifest.
type ManifestRepository struct {
	db *sql.DB
}

// NewManifestRepository creates a new ManifestRepository
func NewManifestRepository(db *sql.DB) *ManifestRepository {
	return &ManifestRepository{db: db}
}

// Ensure ManifestRepository implements ManifestRepositoryInterface
var _ ManifestRepositoryInterface = (*ManifestRepository)(nil)

// EnsureSchema creates the manifests table if it does not exist
func (r *ManifestRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createManifestsTable); err != nil {
		return fmt.Errorf("failed to create manifests table: %w", err)
	}
	return nil
}

// GetLatest returns the newest manifest document
func (r *ManifestRepository) GetLatest(ctx context.Context) ([]byte, error) {
	query := `
		SELECT document::text
		FROM manifests
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	var document string
	err := r.db.QueryRowContext(ctx, query).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoManifest
	}
	if err != nil {
		log.Printf("❌ Error querying latest manifest: %v", err)
		return nil, fmt.Errorf("failed to query manifest: %w", err)
	}

	return []byte(document), nil
}

// Insert stores a manifest document and returns its id
func (r *ManifestRepository) Insert(ctx context.Context, document []byte, source string) (int64, error) {
	query := `
		INSERT INTO manifests (document, source)
		VALUES ($1::jsonb, $2)
		RETURNING id
	`

	var id int64
	if err := r.db.QueryRowContext(ctx, query, string(document), source).Scan(&id); err != nil {
		log.Printf("❌ Error inserting manifest: %v", err)
		return 0, fmt.Errorf("failed to insert manifest: %w", err)
	}

	log.Printf("✓ Manifest stored (id=%d, source=%s, %d bytes)", id, source, len(document))
	return id, nil
}
