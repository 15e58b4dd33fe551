package pestplay

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestLoadConfig_StrictMode_UnknownKeys(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "pestplay.yaml")

	configContent := `
output:
  format: text
  unknown_output_key: "should cause error"
`

	err := os.WriteFile(configPath, []byte(configContent), 0644)
	assert.NoError(t, err)

	_, err = LoadConfig(configPath)
	assert.Error(t, err, "expected error for unknown keys in strict mode")
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadConfig_InvalidFormat(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "pestplay.yaml")

	err := os.WriteFile(configPath, []byte("output:\n  format: html\n"), 0644)
	assert.NoError(t, err)

	_, err = LoadConfig(configPath)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfigValidation))
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{
			name:   "empty config",
			config: Config{},
		},
		{
			name:    "invalid format",
			config:  Config{Output: OutputConfig{Format: "csv"}},
			wantErr: "output.format 'csv' is invalid",
		},
		{
			name:    "negative depth",
			config:  Config{Engine: EngineConfig{MaxDepth: -1}},
			wantErr: "engine.max_depth must be non-negative",
		},
		{
			name:    "negative timeout",
			config:  Config{Server: ServerConfig{ReadTimeout: -1}},
			wantErr: "server.read_timeout must be >= 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfig(&tt.config)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.True(t, errors.Is(err, ErrConfigValidation))
		})
	}
}
