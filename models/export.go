package models

// ExportFormat is the lossless encoding of an exported composite
type ExportFormat string

const (
	ExportPNG  ExportFormat = "png"
	ExportWebP ExportFormat = "webp"
)

// ExportResult is an encoded composite ready for download
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
	Width       int
	Height      int
}
