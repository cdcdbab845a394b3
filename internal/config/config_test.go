package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_CreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "configs", "config.toml")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.FileExists(t, path)
	assert.Equal(t, "Input", cfg.Import.Sheet)
	assert.Equal(t, 1, cfg.Import.StartRow)
	assert.Equal(t, 1, cfg.Import.StartCol)
	assert.True(t, cfg.Import.OpenOutput)
	assert.False(t, cfg.Import.ClearSheet)
	assert.Equal(t, 3*time.Second, cfg.UI.SuccessTimeout())
	assert.Equal(t, 100*time.Millisecond, cfg.UI.SoundPollInterval())
	assert.Equal(t, "config.json", filepath.Base(cfg.Paths.Preferences))
	assert.Equal(t, "Otter_wizard_log.log", filepath.Base(cfg.Paths.Log))
}

func TestLoadConfig_FillsMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[paths]
preferences = "prefs.json"

[import]
clear_sheet = true
start_row = 3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "prefs.json", cfg.Paths.Preferences)
	assert.Equal(t, "Otter_wizard_log.log", filepath.Base(cfg.Paths.Log))
	assert.Equal(t, "Input", cfg.Import.Sheet)
	assert.Equal(t, 3, cfg.Import.StartRow)
	assert.Equal(t, 1, cfg.Import.StartCol)
	assert.True(t, cfg.Import.ClearSheet)
	assert.True(t, cfg.Import.OpenOutput, "open_output defaults to true when absent")
	assert.Equal(t, 3000, cfg.UI.SuccessTimeoutMs)
}

func TestLoadConfig_ExplicitFalseIsKept(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[import]\nopen_output = false\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.False(t, cfg.Import.OpenOutput)
}

func TestLoadConfig_InvalidToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[import\nsheet = "), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := Default()
	cfg.Import.Sheet = "Data"
	cfg.UI.SuccessTimeoutMs = 1500

	require.NoError(t, SaveConfig(path, cfg))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
