package repository

import "context"

// ManifestRepositoryInterface defines the contract for manifest storage operations
type ManifestRepositoryInterface interface {
	GetLatest(ctx context.Context) ([]byte, error)
	Insert(ctx context.Context, document []byte, source string) (int64, error)
}
