package config

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	KeyOrgID            = "org.id"
	KeyOrgName          = "org.name"
	KeyAIEnabled        = "ai.enabled"
	KeyAIAPIKey         = "ai.api_key"
	KeyAIModel          = "ai.model"
	KeyAITimeoutSeconds = "ai.timeout_seconds"
	KeyImportMaxFileMB  = "import.max_file_size_mb"
)

type Config struct {
	Org    OrgConfig    `mapstructure:"org" validate:"required"`
	AI     AIConfig     `mapstructure:"ai"`
	Import ImportConfig `mapstructure:"import"`
}

type OrgConfig struct {
	ID   string `mapstructure:"id" validate:"required"`
	Name string `mapstructure:"name"`
}

type AIConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	APIKey         string `mapstructure:"api_key"`
	Model          string `mapstructure:"model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"gte=0,lte=300"`
}

type ImportConfig struct {
	MaxFileSizeMB int `mapstructure:"max_file_size_mb" validate:"gt=0,lte=100"`
}

// AITimeout returns the classifier timeout as a duration.
func (c AIConfig) AITimeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// MaxFileSizeBytes returns the upload size cap in bytes.
func (c ImportConfig) MaxFileSizeBytes() int64 {
	return int64(c.MaxFileSizeMB) << 20
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# goship configuration
org:
  id: "org-demo"
  name: "Demo Org"

ai:
  enabled: false
  api_key: ""            # or set GEMINI_API_KEY in the environment
  model: "gemini-2.0-flash"
  timeout_seconds: 30

import:
  max_file_size_mb: 10
`
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if cfg.AI.Enabled && cfg.AI.APIKey == "" {
		return nil, fmt.Errorf("validation failed: ai.enabled requires ai.api_key (or GEMINI_API_KEY)")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyAIEnabled, false)
	v.SetDefault(KeyAIModel, "gemini-2.0-flash")
	v.SetDefault(KeyAITimeoutSeconds, 30)
	v.SetDefault(KeyImportMaxFileMB, 10)
}
