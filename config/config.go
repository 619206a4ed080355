package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all settings read from the environment.
type Config struct {
	// Server
	Port    string
	BaseURL string

	// Catalog
	AssetRoot      string // base every manifest asset path is resolved against
	ManifestSource string // file, http or postgres
	ManifestPath   string
	ManifestURL    string
	DatabaseURL    string

	// Rendering
	CacheDir         string
	ShowPlaceholder  bool
	RandomizeOnStart bool
	ExportWidth      int
	ExportHeight     int

	// Terminal surface
	SSHAddr    string
	SSHHostKey string

	// Integrations
	ChromePath      string
	CredentialsPath string
	DriveFolderID   string
}

// LoadEnvFile loads .env in development.
// Overload is used so .env values win over variables already set.
func LoadEnvFile() {
	if os.Getenv("ENV") == "production" {
		return
	}

	envPath := ".env"
	if err := godotenv.Overload(envPath); err != nil {
		log.Printf("⚠️  .env file not found at %s, using system environment variables", envPath)
		return
	}
	log.Printf("✓ Loaded environment variables from %s", envPath)
}

// Load reads the configuration from environment variables and fills defaults.
func Load() Config {
	cfg := Config{
		Port:             os.Getenv("PORT"),
		BaseURL:          os.Getenv("BASE_URL"),
		AssetRoot:        os.Getenv("ASSET_ROOT"),
		ManifestSource:   strings.ToLower(strings.TrimSpace(os.Getenv("MANIFEST_SOURCE"))),
		ManifestPath:     os.Getenv("MANIFEST_PATH"),
		ManifestURL:      os.Getenv("MANIFEST_URL"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		CacheDir:         os.Getenv("CACHE_DIR"),
		ShowPlaceholder:  envBool("SHOW_PLACEHOLDER", true),
		RandomizeOnStart: envBool("RANDOMIZE_ON_START", true),
		ExportWidth:      envInt("EXPORT_WIDTH", 0),
		ExportHeight:     envInt("EXPORT_HEIGHT", 0),
		SSHAddr:          os.Getenv("SSH_ADDR"),
		SSHHostKey:       os.Getenv("SSH_HOST_KEY"),
		ChromePath:       os.Getenv("CHROME_PATH"),
		CredentialsPath:  os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		DriveFolderID:    os.Getenv("DRIVE_FOLDER_ID"),
	}
	cfg.Resolve()
	return cfg
}

// Resolve fills in empty fields with defaults.
func (c *Config) Resolve() {
	// PORT from some hosts comes with a leading colon
	c.Port = strings.TrimPrefix(c.Port, ":")
	if c.Port == "" {
		c.Port = "8080"
	}
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:" + c.Port
	}
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")

	if c.AssetRoot == "" {
		c.AssetRoot = "."
	}
	if c.ManifestSource == "" {
		c.ManifestSource = "file"
	}
	if c.ManifestPath == "" {
		c.ManifestPath = "assets/manifest.json"
	}
	if c.CacheDir == "" {
		c.CacheDir = "cache/images"
	}

	if c.ExportWidth <= 0 {
		c.ExportWidth = 512
	}
	if c.ExportHeight <= 0 {
		c.ExportHeight = 512
	}

	if c.SSHHostKey == "" {
		c.SSHHostKey = "host_key"
	}
}

// Addr returns the HTTP listen address.
// 0.0.0.0 so that the server is reachable inside containers.
func (c Config) Addr() string {
	return "0.0.0.0:" + c.Port
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("⚠️  Invalid %s=%q, using %v", key, v, def)
		return def
	}
	return b
}

func envInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("⚠️  Invalid %s=%q, using %d", key, v, def)
		return def
	}
	return n
}
