package pestplay

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/goccy/go-yaml"
)

func TestGetDefaultConfig(t *testing.T) {
	config := getDefaultConfig()

	assert.Equal(t, FormatText, config.Output.Format)
	assert.True(t, config.Output.ColorEnabled())
	assert.Equal(t, 20000, config.Engine.MaxDepth)
	assert.False(t, config.Workspace.AutoSave)
	assert.Equal(t, "127.0.0.1:8080", config.Server.Addr)
	assert.Equal(t, 10*time.Second, config.Server.ReadTimeout)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.NoError(t, err)
	assert.Equal(t, getDefaultConfig(), config)
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), DefaultConfigFile)
	err := os.WriteFile(configPath, []byte(`
output:
  format: json
  color: false
workspace:
  auto_save: true
server:
  read_timeout: 3s
`), 0644)
	assert.NoError(t, err)

	config, err := LoadConfig(configPath)
	assert.NoError(t, err)
	assert.Equal(t, FormatJSON, config.Output.Format)
	assert.False(t, config.Output.ColorEnabled())
	assert.True(t, config.Workspace.AutoSave)
	assert.Equal(t, ".pestplay/inputs.yaml", config.Workspace.InputStore)
	assert.Equal(t, 3*time.Second, config.Server.ReadTimeout)
	assert.Equal(t, 20000, config.Engine.MaxDepth)
}

func TestLoadConfig_ExpandsEnvironment(t *testing.T) {
	t.Setenv("PESTPLAY_HOME", "/tmp/pest")
	t.Setenv("PESTPLAY_PORT", "9000")

	configPath := filepath.Join(t.TempDir(), DefaultConfigFile)
	err := os.WriteFile(configPath, []byte(`
workspace:
  input_store: "${PESTPLAY_HOME}/inputs.yaml"
  settings_file: "$PESTPLAY_HOME/settings.yaml"
server:
  addr: ":${PESTPLAY_PORT}"
`), 0644)
	assert.NoError(t, err)

	config, err := LoadConfig(configPath)
	assert.NoError(t, err)
	assert.Equal(t, "/tmp/pest/inputs.yaml", config.Workspace.InputStore)
	assert.Equal(t, "/tmp/pest/settings.yaml", config.Workspace.SettingsFile)
	assert.Equal(t, ":9000", config.Server.Addr)
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("PP_A", "alpha")

	tests := []struct {
		input    string
		expected string
	}{
		{"${PP_A}", "alpha"},
		{"$PP_A/x", "alpha/x"},
		{"plain", "plain"},
		{"${PP_UNSET_VALUE}", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, expandEnvVars(tt.input))
		})
	}
}

func TestConfig_YAMLRoundTrip(t *testing.T) {
	config := getDefaultConfig()
	data, err := yaml.Marshal(config)
	assert.NoError(t, err)

	var decoded Config
	err = yaml.UnmarshalWithOptions(data, &decoded, yaml.Strict())
	assert.NoError(t, err)
	assert.Equal(t, config.Workspace, decoded.Workspace)
	assert.Equal(t, config.Output.Format, decoded.Output.Format)
}
