package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Blob      BlobConfig
	Catalog   CatalogConfig
	Search    SearchConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig holds the relational store configuration
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// BlobConfig holds blob object store configuration
type BlobConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Token   string `mapstructure:"token"`
}

// CatalogConfig holds catalog build and snapshot configuration
type CatalogConfig struct {
	SnapshotName    string `mapstructure:"snapshot_name"`
	DefaultCurrency string `mapstructure:"default_currency"`
	CSVPath         string `mapstructure:"csv_path"`
}

// SearchConfig holds search pagination configuration
type SearchConfig struct {
	DefaultPageSize int `mapstructure:"default_page_size"`
	MaxPageSize     int `mapstructure:"max_page_size"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"`
	Blob  int `mapstructure:"blob"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/shopstream/")

	// Environment variable settings
	v.SetEnvPrefix("SHOPSTREAM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Database defaults
	v.SetDefault("database.path", "data/products.db")

	// Blob defaults
	v.SetDefault("blob.base_url", "")
	v.SetDefault("blob.token", "")

	// Catalog defaults
	v.SetDefault("catalog.snapshot_name", "catalog_snapshot.json")
	v.SetDefault("catalog.default_currency", "GBP")
	v.SetDefault("catalog.csv_path", "data/products.csv")

	// Search defaults
	v.SetDefault("search.default_page_size", 20)
	v.SetDefault("search.max_page_size", 100)

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
	v.SetDefault("ratelimit.blob", 120)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Database.Path == "" {
		return fmt.Errorf("database path is required (set SHOPSTREAM_DATABASE_PATH)")
	}

	if config.Blob.BaseURL != "" && config.Blob.Token == "" {
		return fmt.Errorf("blob token is required when a blob base URL is configured (set SHOPSTREAM_BLOB_TOKEN)")
	}

	if config.Search.DefaultPageSize <= 0 {
		return fmt.Errorf("search default page size must be positive, got: %d", config.Search.DefaultPageSize)
	}

	if config.Search.MaxPageSize < config.Search.DefaultPageSize {
		return fmt.Errorf("search max page size must be >= default page size")
	}

	return nil
}
