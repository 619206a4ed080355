package service

import (
	"context"

	"dressup-studio/models"
)

// SyncServiceInterface defines the contract for asset synchronization
type SyncServiceInterface interface {
	// SyncAssets mirrors a Drive folder into the asset root and rebuilds the
	// manifest from it. Files already on disk are skipped.
	SyncAssets(ctx context.Context, folderID string) (models.SyncResult, error)
}
