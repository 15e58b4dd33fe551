package pestplay

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// ErrConfigValidation is returned when configuration validation fails
var ErrConfigValidation = errors.New("configuration validation failed")

// DefaultConfigFile is the configuration file looked up by the CLI.
const DefaultConfigFile = "pestplay.yaml"

// Config represents the pestplay configuration
type Config struct {
	Output    OutputConfig    `yaml:"output"`
	Engine    EngineConfig    `yaml:"engine"`
	Workspace WorkspaceConfig `yaml:"workspace"`
	Server    ServerConfig    `yaml:"server"`
}

// OutputConfig controls how trees and errors are printed
type OutputConfig struct {
	Format string `yaml:"format"` // text, json, yaml or xml
	Color  *bool  `yaml:"color"`  // Pointer to distinguish between unset and false
}

// ColorEnabled returns true unless color is explicitly disabled
func (o OutputConfig) ColorEnabled() bool {
	return o.Color == nil || *o.Color
}

// EngineConfig tunes the matcher
type EngineConfig struct {
	MaxDepth int `yaml:"max_depth"`
}

// WorkspaceConfig locates persisted playground state
type WorkspaceConfig struct {
	AutoSave     bool   `yaml:"auto_save"`
	InputStore   string `yaml:"input_store"`
	SettingsFile string `yaml:"settings_file"`
}

// ServerConfig represents HTTP server settings
type ServerConfig struct {
	Addr        string        `yaml:"addr"`
	ReadTimeout time.Duration `yaml:"read_timeout"`
}

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatXML  = "xml"
)

// LoadConfig loads configuration from the specified file
func LoadConfig(configPath string) (*Config, error) {
	// Load .env files first
	err := loadEnvFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to load environment files: %w", err)
	}

	// Check if config file exists
	_, err = os.Stat(configPath)
	if os.IsNotExist(err) {
		// Return default configuration if file doesn't exist
		config := getDefaultConfig()
		expandConfigEnvVars(config)

		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML with strict mode to detect unknown fields
	var config Config

	err = yaml.UnmarshalWithOptions(data, &config, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	applyDefaults(&config)
	expandConfigEnvVars(&config)

	return &config, nil
}

// validateConfig validates the configuration for common errors and inconsistencies
func validateConfig(config *Config) error {
	if config.Output.Format != "" {
		validFormats := map[string]bool{
			FormatText: true,
			FormatJSON: true,
			FormatYAML: true,
			FormatXML:  true,
		}
		if !validFormats[config.Output.Format] {
			return fmt.Errorf("%w: output.format '%s' is invalid: must be one of text, json, yaml, xml", ErrConfigValidation, config.Output.Format)
		}
	}

	if config.Engine.MaxDepth < 0 {
		return fmt.Errorf("%w: engine.max_depth must be non-negative, got %d", ErrConfigValidation, config.Engine.MaxDepth)
	}

	if config.Server.ReadTimeout < 0 {
		return fmt.Errorf("%w: server.read_timeout must be >= 0, got %s", ErrConfigValidation, config.Server.ReadTimeout)
	}

	return nil
}

// getDefaultConfig returns the default configuration
func getDefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Format: FormatText,
		},
		Engine: EngineConfig{
			MaxDepth: 20000,
		},
		Workspace: WorkspaceConfig{
			AutoSave:     false,
			InputStore:   ".pestplay/inputs.yaml",
			SettingsFile: ".pestplay/settings.yaml",
		},
		Server: ServerConfig{
			Addr:        "127.0.0.1:8080",
			ReadTimeout: 10 * time.Second,
		},
	}
}

// applyDefaults fills values left empty in the configuration file
func applyDefaults(config *Config) {
	defaults := getDefaultConfig()

	if config.Output.Format == "" {
		config.Output.Format = defaults.Output.Format
	}

	if config.Engine.MaxDepth == 0 {
		config.Engine.MaxDepth = defaults.Engine.MaxDepth
	}

	if config.Workspace.InputStore == "" {
		config.Workspace.InputStore = defaults.Workspace.InputStore
	}

	if config.Workspace.SettingsFile == "" {
		config.Workspace.SettingsFile = defaults.Workspace.SettingsFile
	}

	if config.Server.Addr == "" {
		config.Server.Addr = defaults.Server.Addr
	}

	if config.Server.ReadTimeout == 0 {
		config.Server.ReadTimeout = defaults.Server.ReadTimeout
	}
}

// loadEnvFiles loads .env files if they exist
func loadEnvFiles() error {
	if fileExists(".env") {
		err := godotenv.Load(".env")
		if err != nil {
			return fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	return nil
}

var (
	bracedEnvPattern = regexp.MustCompile(`\$\{([^}]+)\}`)
	bareEnvPattern   = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// expandEnvVars expands environment variables in the format ${VAR} or $VAR
func expandEnvVars(s string) string {
	s = bracedEnvPattern.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})

	return bareEnvPattern.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[1:])
	})
}

// expandConfigEnvVars expands environment variables in path-like fields
func expandConfigEnvVars(config *Config) {
	config.Workspace.InputStore = expandEnvVars(config.Workspace.InputStore)
	config.Workspace.SettingsFile = expandEnvVars(config.Workspace.SettingsFile)
	config.Server.Addr = expandEnvVars(config.Server.Addr)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
