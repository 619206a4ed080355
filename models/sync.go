package models

// DriveEntry is a file or folder listed from Google Drive
type DriveEntry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
}

// IsFolder reports whether the entry is a Drive folder
func (e DriveEntry) IsFolder() bool {
	return e.MimeType == "application/vnd.google-apps.folder"
}

// SyncResult summarizes an asset sync run
type SyncResult struct {
	Total      int      `json:"total"`
	Downloaded int      `json:"downloaded"`
	Skipped    int      `json:"skipped"`
	Errors     []string `json:"errors"`
	Manifest   Manifest `json:"manifest"`
}
