// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port           string `mapstructure:"PORT"`
	DBHost         string `mapstructure:"DB_HOST"`
	DBPort         string `mapstructure:"DB_PORT"`
	DBUser         string `mapstructure:"DB_USER"`
	DBPassword     string `mapstructure:"DB_PASSWORD"`
	DBName         string `mapstructure:"DB_NAME"`
	DBSSLMode      string `mapstructure:"DB_SSLMODE"`
	RedisURL       string `mapstructure:"REDIS_URL"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`
	Env            string `mapstructure:"APP_ENV"`

	// ArenaWindowHours is how long an arena accepts submissions after creation.
	ArenaWindowHours int `mapstructure:"ARENA_WINDOW_HOURS"`
	// AuthorSalt keys the derivation of pseudonymous author handles from
	// session ids. Rotating it re-labels every author.
	AuthorSalt string `mapstructure:"AUTHOR_SALT"`

	// ModerationTimeoutMS bounds every moderation gate call; on timeout the
	// result is treated as rejected (fail-closed).
	ModerationTimeoutMS int `mapstructure:"MODERATION_TIMEOUT_MS"`
	// ModerationURL, when set, points at a remote classifier; empty selects
	// the built-in heuristic gate.
	ModerationURL string `mapstructure:"MODERATION_URL"`

	// DailyTopics is a comma-separated rotation list for the daily challenge.
	// Empty selects the built-in list.
	DailyTopics string `mapstructure:"DAILY_TOPICS"`

	ImageUploadDir       string `mapstructure:"IMAGE_UPLOAD_DIR"`
	ImageMaxUploadSizeMB int    `mapstructure:"IMAGE_MAX_UPLOAD_SIZE_MB"`
	// ImageBaseURL prefixes stored image paths when building arena imageUrl values.
	ImageBaseURL string `mapstructure:"IMAGE_BASE_URL"`

	TracingEnabled  bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint    string  `mapstructure:"OTLP_ENDPOINT"`
	TracingSampler  float64 `mapstructure:"TRACING_SAMPLER_RATIO"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// Initial read to get APP_ENV if set in base config.
	// The config file may not exist yet; env vars and defaults still apply.
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" && env != "" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("required profile-specific config 'config.%s.yml' not found: %w", env, err)
		}
		log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
	}

	// Set default values for development
	viper.SetDefault("PORT", "8480")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "roastarena")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("ARENA_WINDOW_HOURS", 24)
	viper.SetDefault("AUTHOR_SALT", "roastarena-dev-salt-change-in-production")
	viper.SetDefault("MODERATION_TIMEOUT_MS", 3000)
	viper.SetDefault("MODERATION_URL", "")
	viper.SetDefault("DAILY_TOPICS", "")
	viper.SetDefault("IMAGE_UPLOAD_DIR", "/tmp/roastarena/uploads/images")
	viper.SetDefault("IMAGE_MAX_UPLOAD_SIZE_MB", 10)
	viper.SetDefault("IMAGE_BASE_URL", "/images")
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_EXPORTER", "stdout")
	viper.SetDefault("OTLP_ENDPOINT", "localhost:4318")
	viper.SetDefault("TRACING_SAMPLER_RATIO", 1.0)

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.ArenaWindowHours <= 0 {
		return errors.New("ARENA_WINDOW_HOURS must be positive")
	}
	if c.ModerationTimeoutMS <= 0 {
		return errors.New("MODERATION_TIMEOUT_MS must be positive")
	}

	isProduction := c.Env == "production" || c.Env == "prod"

	// Strict checks for production
	if isProduction {
		if strings.Contains(c.AuthorSalt, "dev-salt") || len(c.AuthorSalt) < 16 {
			return errors.New("AUTHOR_SALT must be changed from the default value in production")
		}
		if c.DBPassword == "password" || c.DBPassword == "" {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
			log.Println("WARNING: DB_SSLMODE is 'disable' in production. It is highly recommended to use SSL for database connections.")
		}
		if c.AllowedOrigins == "*" {
			log.Println("WARNING: ALLOWED_ORIGINS is set to '*' in production. This is insecure.")
		}
	}

	return nil
}

// TopicRotation returns the configured daily topic list, or nil when the
// built-in list should be used.
func (c *Config) TopicRotation() []string {
	if strings.TrimSpace(c.DailyTopics) == "" {
		return nil
	}
	parts := strings.Split(c.DailyTopics, ",")
	topics := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			topics = append(topics, t)
		}
	}
	return topics
}
