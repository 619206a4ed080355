// Package templates holds the HTML pages served by the customizer.
package templates

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed *.html
var files embed.FS

var funcs = template.FuncMap{
	"assetURL": AssetURL,
}

// AssetURL joins the file route prefix with an encoded asset URI.
// Absolute http(s) URIs already point at their host and are returned as is.
func AssetURL(prefix, uri string) string {
	if strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://") {
		return uri
	}
	return prefix + uri
}

// Parse parses a page template by file name
func Parse(name string) (*template.Template, error) {
	tmpl, err := template.New(name).Funcs(funcs).ParseFS(files, name)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	return tmpl, nil
}
