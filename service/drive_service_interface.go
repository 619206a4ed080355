package service

import (
	"context"

	"dressup-studio/models"
)

// DriveServiceInterface defines the contract for Google Drive operations
type DriveServiceInterface interface {
	ListFolder(ctx context.Context, folderID string) ([]models.DriveEntry, error)
	Download(ctx context.Context, fileID string) ([]byte, error)
}
