package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Catalog service (TMDB-compatible)
	CatalogURL       string
	CatalogToken     string
	CatalogRateLimit float64 // requests per second budget shared by all catalog calls
	CatalogBurst     int

	// Import pipeline
	ImportWorkers int // concurrent list imports

	// Server
	ServerPort string

	// Paths
	DatabaseFile string // $CONFIG_DIR/golistarr.db
	FilesDir     string // $CONFIG_DIR/files

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Setup viper FIRST to load .env file
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = viper.ReadInConfig()

	// Set defaults
	viper.SetDefault("CATALOG_URL", "https://api.themoviedb.org/3")
	viper.SetDefault("CATALOG_RATE_LIMIT", 40.0)
	viper.SetDefault("CATALOG_BURST", 10)
	viper.SetDefault("IMPORT_WORKERS", 2)
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")

	// NOW read CONFIG_DIR from viper (which has loaded .env file)
	configDir := viper.GetString("CONFIG_DIR")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "golistarr")
	} else {
		// Convert relative path to absolute path
		absPath, err := filepath.Abs(configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
		}
		configDir = absPath
	}

	// Create config and file directories if they don't exist
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	filesDir := filepath.Join(configDir, "files")
	if err := os.MkdirAll(filesDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create files directory: %w", err)
	}

	config := &Config{
		// Catalog
		CatalogURL:       viper.GetString("CATALOG_URL"),
		CatalogToken:     viper.GetString("CATALOG_TOKEN"),
		CatalogRateLimit: viper.GetFloat64("CATALOG_RATE_LIMIT"),
		CatalogBurst:     viper.GetInt("CATALOG_BURST"),

		// Import
		ImportWorkers: viper.GetInt("IMPORT_WORKERS"),

		// Server
		ServerPort: viper.GetString("SERVER_PORT"),

		// Paths
		DatabaseFile: filepath.Join(configDir, "golistarr.db"),
		FilesDir:     filesDir,

		// Logging
		LogLevel: viper.GetString("LOG_LEVEL"),
	}

	// Validate required fields
	if config.CatalogToken == "" {
		return nil, fmt.Errorf("CATALOG_TOKEN is required")
	}
	if config.CatalogRateLimit <= 0 {
		return nil, fmt.Errorf("CATALOG_RATE_LIMIT must be positive")
	}
	if config.ImportWorkers < 1 {
		return nil, fmt.Errorf("IMPORT_WORKERS must be at least 1")
	}

	return config, nil
}
