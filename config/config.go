package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// ModelConfig describes one configured LLM backend.
type ModelConfig struct {
	Provider      string `mapstructure:"provider"`       // "bedrock" or "azure"
	ModelID       string `mapstructure:"model_id"`       // Bedrock model id
	Region        string `mapstructure:"region"`         // AWS region for the client
	Deployment    string `mapstructure:"deployment"`     // Azure deployment name
	EndpointParam string `mapstructure:"endpoint_param"` // SSM parameter holding the Azure endpoint
	APIKeyParam   string `mapstructure:"api_key_param"`  // SSM parameter holding the Azure API key
	MaxTokens     int    `mapstructure:"max_tokens"`
}

type ServerConfig struct {
	Addr      string `mapstructure:"addr"`
	StaticDir string `mapstructure:"static_dir"`
}

type DatabaseConfig struct {
	Driver  string `mapstructure:"driver"` // "sqlite" (default) or "postgres"
	Path    string `mapstructure:"path"`   // sqlite file path
	DSN     string `mapstructure:"dsn"`    // postgres DSN; env vars used when empty
	LogMode bool   `mapstructure:"log_mode"`
}

type ModelsConfig struct {
	Default string                 `mapstructure:"default"`
	LLM     map[string]ModelConfig `mapstructure:"llm"`
}

type ImageSearchConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type Settings struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Timezone    string            `mapstructure:"timezone"`
	Nutrition   []string          `mapstructure:"nutrition"`
	Models      ModelsConfig      `mapstructure:"models"`
	ImageSearch ImageSearchConfig `mapstructure:"image_search"`
}

// Load reads settings from the given yaml file (default "config.yaml").
func Load(path string) (*Settings, error) {
	v := viper.New()
	if path == "" {
		path = "config.yaml"
	}
	v.SetConfigFile(path)

	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.static_dir", "static")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", filepath.Join("db", "healthcheck.sqlite3"))
	v.SetDefault("timezone", "America/Chicago")
	v.SetDefault("nutrition", []string{
		"calories", "total_fat", "carbohydrates", "protein", "fiber", "sugars", "sodium",
	})
	v.SetDefault("image_search.enabled", true)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &s, nil
}

// DefaultModel resolves the configured default LLM backend.
func (s *Settings) DefaultModel() (ModelConfig, error) {
	mc, ok := s.Models.LLM[s.Models.Default]
	if !ok {
		return ModelConfig{}, fmt.Errorf("default model %q not configured under models.llm", s.Models.Default)
	}
	return mc, nil
}

// ReferenceLocation loads the timezone that defines calendar-day boundaries.
// Always taken from configuration, never from the host locale, so day
// attribution is reproducible wherever the server runs.
func (s *Settings) ReferenceLocation() (*time.Location, error) {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", s.Timezone, err)
	}
	return loc, nil
}

// PostgresDSN builds the DSN from config or, like the other secrets, from
// the environment.
func (d DatabaseConfig) PostgresDSN() string {
	if d.DSN != "" {
		return d.DSN
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)
}
