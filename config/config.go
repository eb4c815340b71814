package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Catalog   CatalogConfig
	Cache     CacheConfig
	Matching  MatchingConfig
	Discounts DiscountsConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Environment     string        `mapstructure:"environment"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// CatalogConfig says where catalog files come from and which ones to load
type CatalogConfig struct {
	Source         string        `mapstructure:"source"` // "file" or "http"
	DataDir        string        `mapstructure:"data_dir"`
	BaseURL        string        `mapstructure:"base_url"`
	ProductFiles   []string      `mapstructure:"product_files"`
	DiscountFiles  []string      `mapstructure:"discount_files"`
	ReloadInterval time.Duration `mapstructure:"reload_interval"` // 0 disables periodic reload
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// MatchingConfig holds product matching configuration
type MatchingConfig struct {
	MinSimilarity      float64 `mapstructure:"min_similarity"`
	MaxAlternatives    int     `mapstructure:"max_alternatives"`
	EnableDebugLogging bool    `mapstructure:"enable_debug_logging"`
}

// DiscountsConfig holds defaults for discount queries
type DiscountsConfig struct {
	BestLimit int `mapstructure:"best_limit"`
	NewDays   int `mapstructure:"new_days"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP  int     `mapstructure:"per_ip"` // requests per minute
	Burst  int     `mapstructure:"burst"`
	Remote float64 `mapstructure:"remote"` // catalog downloads per second
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/pricecmp/")

	// PRICECMP_CATALOG_DATA_DIR overrides catalog.data_dir
	v.SetEnvPrefix("PRICECMP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env into the environment when present. Variables that
// are already set keep their value.
func loadEnvFile() error {
	err := godotenv.Load()
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})
	v.SetDefault("server.shutdown_timeout", "10s")

	// Catalog defaults
	v.SetDefault("catalog.source", "file")
	v.SetDefault("catalog.data_dir", "./data")
	v.SetDefault("catalog.base_url", "")
	v.SetDefault("catalog.product_files", []string{
		"altex_2025-05-20.csv", "emag_2025-05-20.csv",
		"kaufland_2025-05-01.csv", "kaufland_2025-05-08.csv",
		"lidl_2025-05-01.csv", "lidl_2025-05-08.csv",
		"profi_2025-05-01.csv", "profi_2025-05-08.csv",
	})
	v.SetDefault("catalog.discount_files", []string{
		"altex_discounts-2025-05-20.csv", "emag_discounts_2025-05-20.csv",
		"kaufland_discounts_2025-05-01.csv", "kaufland_discounts_2025-05-08.csv",
		"lidl_discounts_2025-05-01.csv", "lidl_discounts_2025-05-08.csv",
		"profi_discounts_2025-05-01.csv", "profi_discounts_2025-05-08.csv",
	})
	v.SetDefault("catalog.reload_interval", "0s")

	// Cache defaults
	v.SetDefault("cache.ttl", "10m")
	v.SetDefault("cache.cleanup_interval", "10m")

	// Matching defaults
	v.SetDefault("matching.min_similarity", 0.2)
	v.SetDefault("matching.max_alternatives", 5)
	v.SetDefault("matching.enable_debug_logging", false)

	// Discount defaults
	v.SetDefault("discounts.best_limit", 10)
	v.SetDefault("discounts.new_days", 1)

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
	v.SetDefault("ratelimit.burst", 20)
	v.SetDefault("ratelimit.remote", 2.0)
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Catalog.Source {
	case "file":
		if config.Catalog.DataDir == "" {
			return fmt.Errorf("catalog data dir is required when source is 'file' (set PRICECMP_CATALOG_DATA_DIR)")
		}
	case "http":
		if config.Catalog.BaseURL == "" {
			return fmt.Errorf("catalog base URL is required when source is 'http' (set PRICECMP_CATALOG_BASE_URL)")
		}
	default:
		return fmt.Errorf("catalog source must be 'file' or 'http', got: %s", config.Catalog.Source)
	}

	if config.Matching.MinSimilarity <= 0 || config.Matching.MinSimilarity > 1 {
		return fmt.Errorf("matching min similarity must be in (0, 1], got: %v", config.Matching.MinSimilarity)
	}

	if config.Matching.MaxAlternatives <= 0 {
		return fmt.Errorf("matching max alternatives must be positive, got: %d", config.Matching.MaxAlternatives)
	}

	if config.Discounts.NewDays < 0 {
		return fmt.Errorf("discounts new days must not be negative, got: %d", config.Discounts.NewDays)
	}

	if config.RateLimit.PerIP < 0 || config.RateLimit.Burst < 0 {
		return fmt.Errorf("rate limits must not be negative")
	}

	return nil
}
