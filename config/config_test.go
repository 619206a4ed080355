package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "BASE_URL", "ASSET_ROOT", "MANIFEST_SOURCE", "MANIFEST_PATH",
		"CACHE_DIR", "SHOW_PLACEHOLDER", "RANDOMIZE_ON_START", "EXPORT_WIDTH",
		"EXPORT_HEIGHT", "SSH_ADDR", "SSH_HOST_KEY",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.BaseURL != "http://localhost:8080" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.ManifestSource != "file" || cfg.ManifestPath != "assets/manifest.json" {
		t.Errorf("manifest = %q %q", cfg.ManifestSource, cfg.ManifestPath)
	}
	if !cfg.ShowPlaceholder || !cfg.RandomizeOnStart {
		t.Errorf("bool defaults not applied: %+v", cfg)
	}
	if cfg.ExportWidth != 512 || cfg.ExportHeight != 512 {
		t.Errorf("export size = %dx%d", cfg.ExportWidth, cfg.ExportHeight)
	}
	if cfg.SSHAddr != "" {
		t.Errorf("SSHAddr = %q, want disabled", cfg.SSHAddr)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", ":9000")
	t.Setenv("BASE_URL", "https://dress.example.com/")
	t.Setenv("MANIFEST_SOURCE", " Postgres ")
	t.Setenv("SHOW_PLACEHOLDER", "false")
	t.Setenv("EXPORT_WIDTH", "300")
	t.Setenv("EXPORT_HEIGHT", "not-a-number")

	cfg := Load()

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"port", cfg.Port, "9000"},
		{"addr", cfg.Addr(), "0.0.0.0:9000"},
		{"base url", cfg.BaseURL, "https://dress.example.com"},
		{"source", cfg.ManifestSource, "postgres"},
		{"placeholder", cfg.ShowPlaceholder, false},
		{"width", cfg.ExportWidth, 300},
		{"height", cfg.ExportHeight, 512},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}
