package service

import (
	"context"
	"fmt"
	"io"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"dressup-studio/models"
)

// DriveService handles Google Drive API operations
type DriveService struct {
	client *drive.Service
}

// NewDriveService creates a new DriveService instance
// credentialsPath should be the path to the Service Account JSON file
func NewDriveService(ctx context.Context, credentialsPath string) (*DriveService, error) {
	driveService, err := drive.NewService(ctx,
		option.WithCredentialsFile(credentialsPath),
		option.WithScopes(drive.DriveReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &DriveService{
		client: driveService,
	}, nil
}

// Ensure DriveService implements DriveServiceInterface
var _ DriveServiceInterface = (*DriveService)(nil)

// ListFolder lists the direct children of a Google Drive folder
func (ds *DriveService) ListFolder(ctx context.Context, folderID string) ([]models.DriveEntry, error) {
	query := fmt.Sprintf("'%s' in parents and trashed=false", folderID)

	var entries []models.DriveEntry
	pageToken := ""
	for {
		call := ds.client.Files.List().
			Context(ctx).
			Q(query).
			OrderBy("name").
			Fields("nextPageToken, files(id, name, mimeType)")

		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		r, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list files: %w", err)
		}

		for _, file := range r.Files {
			entries = append(entries, models.DriveEntry{
				ID:       file.Id,
				Name:     file.Name,
				MimeType: file.MimeType,
			})
		}

		pageToken = r.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return entries, nil
}

// Download returns the content of a Drive file
func (ds *DriveService) Download(ctx context.Context, fileID string) ([]byte, error) {
	resp, err := ds.client.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("failed to download file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", fileID, err)
	}
	return data, nil
}
