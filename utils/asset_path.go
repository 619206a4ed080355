package utils

import (
	"net/url"
	"path"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// EncodeAssetURI percent-encodes an asset path for use as a retrieval URI.
// Path separators are kept; the path is NFC-normalized first so that assets
// named on filesystems that store decomposed Unicode resolve the same way.
func EncodeAssetURI(src string) string {
	if src == "" {
		return ""
	}

	u, err := url.Parse(src)
	if err == nil && u.Scheme != "" {
		// Absolute URLs are already retrieval URIs
		return u.String()
	}

	return (&url.URL{Path: norm.NFC.String(src)}).EscapedPath()
}

// CleanAssetPath turns a manifest asset reference into a slash-separated path
// relative to the asset root. ok is false for references that leave the root.
func CleanAssetPath(src string) (string, bool) {
	src = strings.ReplaceAll(strings.TrimSpace(src), "\\", "/")
	if src == "" {
		return "", false
	}

	for _, part := range strings.Split(src, "/") {
		if part == ".." {
			return "", false
		}
	}

	cleaned := strings.TrimPrefix(path.Clean("/"+norm.NFC.String(src)), "/")
	if cleaned == "" {
		return "", false
	}
	return cleaned, true
}

// IsImageFile reports whether name has a decodable image extension
func IsImageFile(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp", ".tga":
		return true
	}
	return false
}
