package runtime

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix of every configuration variable.
const EnvPrefix = "PEBBLE"

// Config holds the record store credentials and client settings.
type Config struct {
	// ProjectID and PublicKey identify the hosted record store project.
	ProjectID string `envconfig:"PROJECT_ID"`
	PublicKey string `envconfig:"PUBLIC_KEY"`

	// DatabaseURL selects the PostgreSQL-backed store.
	DatabaseURL string `envconfig:"DATABASE_URL"`
	MaxConns    int32  `envconfig:"MAX_CONNS" default:"10"`
	MinConns    int32  `envconfig:"MIN_CONNS" default:"2"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
}

// LoadConfig reads optional dotenv files and then the PEBBLE_* environment.
// Missing dotenv files are ignored; variables already set win over file values.
func LoadConfig(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	cfg := &Config{}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with default client settings.
func DefaultConfig() *Config {
	return &Config{
		MaxConns:  10,
		MinConns:  2,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Validate checks the settings that have a fixed vocabulary.
func (c *Config) Validate() error {
	switch c.LogFormat {
	case "text", "json":
	default:
		return &ValidationError{Field: "LogFormat", Message: fmt.Sprintf("unknown log format %q", c.LogFormat)}
	}
	if c.MinConns > c.MaxConns && c.MaxConns > 0 {
		return &ValidationError{Field: "MinConns", Message: "must not exceed MaxConns"}
	}
	return nil
}
