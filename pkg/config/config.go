package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/kamal-hamza/vocx/pkg/logging"
)

const (
	// InStateDir as logging.output_path or metrics_textfile places the file
	// in the state directory
	InStateDir = "state"

	DefaultFormat     = "tensorFlowPascalVOC"
	DefaultAssetState = "all"
)

type Config struct {
	// Export
	DefaultExportFormat string `yaml:"default_export_format" toml:"default_export_format"`
	AssetState          string `yaml:"asset_state" toml:"asset_state"`
	MaxWorkers          int    `yaml:"max_workers" toml:"max_workers"`
	CopyOutputPath      bool   `yaml:"copy_output_path" toml:"copy_output_path"`
	HTTPTimeoutSeconds  int    `yaml:"http_timeout_seconds" toml:"http_timeout_seconds"`

	// Metadata files live next to the project unless set
	MetadataDir string `yaml:"metadata_dir" toml:"metadata_dir"`

	// Logging
	Logging logging.Config `yaml:"logging" toml:"logging"`

	// UI Settings
	ColorTheme string `yaml:"color_theme" toml:"color_theme"`
	TableWidth int    `yaml:"table_width" toml:"table_width"`

	// Performance
	WatchDebounceMS int `yaml:"watch_debounce_ms" toml:"watch_debounce_ms"`

	// Metrics
	MetricsTextfile string `yaml:"metrics_textfile" toml:"metrics_textfile"`

	// S3 defaults merged under a connection's provider options
	S3 S3Settings `yaml:"s3" toml:"s3"`
}

// S3Settings are default settings for s3 target connections
type S3Settings struct {
	Endpoint        string `yaml:"endpoint" toml:"endpoint"`
	Region          string `yaml:"region" toml:"region"`
	Bucket          string `yaml:"bucket" toml:"bucket"`
	AccessKeyID     string `yaml:"access_key_id" toml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key" toml:"secret_access_key"`
	UseSSL          bool   `yaml:"use_ssl" toml:"use_ssl"`
}

// DefaultConfig returns a Config struct with default values
func DefaultConfig() *Config {
	return &Config{
		DefaultExportFormat: DefaultFormat,
		AssetState:          DefaultAssetState,
		MaxWorkers:          4,
		CopyOutputPath:      false,
		HTTPTimeoutSeconds:  30,
		MetadataDir:         "",
		Logging:             logging.DefaultConfig(),
		ColorTheme:          "auto",
		TableWidth:          0,
		WatchDebounceMS:     500,
		MetricsTextfile:     "",
		S3: S3Settings{
			Region: "us-east-1",
			UseSSL: true,
		},
	}
}

// Load reads configuration from the specified file path. Files ending in
// .toml are decoded as TOML, everything else as YAML.
func Load(path string) (*Config, error) {
	// Start with default config
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		// If file doesn't exist, return default config (not an error)
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if isTOML(path) {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply defaults for essential values if missing
	if cfg.DefaultExportFormat == "" {
		cfg.DefaultExportFormat = DefaultFormat
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 4
	}
	if cfg.HTTPTimeoutSeconds <= 0 {
		cfg.HTTPTimeoutSeconds = 30
	}
	if cfg.WatchDebounceMS <= 0 {
		cfg.WatchDebounceMS = 500
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = logging.DefaultConfig().Level
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = logging.DefaultConfig().Format
	}

	// Validate AssetState
	if !isValidAssetState(cfg.AssetState) {
		cfg.AssetState = DefaultAssetState
	}

	return cfg, nil
}

// Save persists the current configuration to the specified file path
func (c *Config) Save(path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var data []byte
	if isTOML(path) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		data = buf.Bytes()
	} else {
		var err error
		data, err = yaml.Marshal(c)
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// isValidAssetState checks if the asset state policy is valid
func isValidAssetState(state string) bool {
	validStates := []string{"all", "visited", "tagged"}
	for _, valid := range validStates {
		if state == valid {
			return true
		}
	}
	return false
}
