package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/ssargent/wordpack/pkg/codec"
	"github.com/ssargent/wordpack/pkg/codec/schema"
)

// Config represents the wordpack configuration
type Config struct {
	Format  string  `yaml:"format"`
	Schema  Schema  `yaml:"schema"`
	Output  Output  `yaml:"output"`
	Mmap    Mmap    `yaml:"mmap"`
	Metrics Metrics `yaml:"metrics"`
	Logging Logging `yaml:"logging"`
}

// Schema contains the segmented message layout's limits
type Schema struct {
	FirstSegmentWords   int    `yaml:"first_segment_words"`
	TraversalLimitWords uint64 `yaml:"traversal_limit_words"`
	MaxSegments         int    `yaml:"max_segments"`
}

// Output controls how encoded files are written
type Output struct {
	Sync bool `yaml:"sync"`
}

// Mmap controls how encoded files are mapped
type Mmap struct {
	CopyOnWrite bool `yaml:"copy_on_write"`
}

// Metrics configures the Prometheus textfile export
type Metrics struct {
	Textfile string `yaml:"textfile"`
}

// Logging contains logging configuration
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Format: codec.Relocatable.String(),
		Schema: Schema{
			FirstSegmentWords:   schema.DefaultFirstSegmentWords,
			TraversalLimitWords: schema.DefaultTraversalLimitWords,
			MaxSegments:         schema.DefaultMaxSegments,
		},
		Output: Output{
			Sync: true,
		},
		Mmap: Mmap{
			CopyOnWrite: true,
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks that every field holds a usable value
func (c *Config) Validate() error {
	if _, err := codec.ParseFormat(c.Format); err != nil {
		return errors.Wrap(err, "invalid format")
	}
	if c.Schema.FirstSegmentWords < 0 {
		return errors.Newf("invalid schema.first_segment_words: %d", c.Schema.FirstSegmentWords)
	}
	if c.Schema.MaxSegments < 0 {
		return errors.Newf("invalid schema.max_segments: %d", c.Schema.MaxSegments)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return errors.Newf("invalid logging.level: %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return errors.Newf("invalid logging.format: %q", c.Logging.Format)
	}
	return nil
}

// LoadConfig loads configuration from the specified path. Fields missing from
// the file keep their defaults.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, errors.Newf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, errors.Wrap(err, "invalid config path")
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}

	return nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./wordpack.yaml"
	}

	// For Linux/macOS, use ~/.config/wordpack/config.yaml
	configDir := filepath.Join(homeDir, ".config", "wordpack")
	return filepath.Join(configDir, "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
