package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"otterWizard/internal/logger"

	"github.com/BurntSushi/toml"
)

// Version is shown in the form footer and by `otterwizard version`.
const Version = "1.1.4"

type Config struct {
	Paths  PathsConfig  `toml:"paths"`
	Import ImportConfig `toml:"import"`
	UI     UIConfig     `toml:"ui"`
}

type PathsConfig struct {
	Preferences string `toml:"preferences"`
	Log         string `toml:"log"`
}

type ImportConfig struct {
	Sheet      string `toml:"sheet"`
	StartRow   int    `toml:"start_row"`
	StartCol   int    `toml:"start_col"`
	ClearSheet bool   `toml:"clear_sheet"`
	OpenOutput bool   `toml:"open_output"`
}

type UIConfig struct {
	SuccessTimeoutMs int `toml:"success_timeout_ms"`
	SoundPollMs      int `toml:"sound_poll_ms"`
}

// SuccessTimeout is how long the success notice stays up.
func (u UIConfig) SuccessTimeout() time.Duration {
	return time.Duration(u.SuccessTimeoutMs) * time.Millisecond
}

// SoundPollInterval is how often playback completion is checked.
func (u UIConfig) SoundPollInterval() time.Duration {
	return time.Duration(u.SoundPollMs) * time.Millisecond
}

// Default returns the configuration written on first run. File paths are
// placed beside the executable.
func Default() *Config {
	base := executableDir()
	return &Config{
		Paths: PathsConfig{
			Preferences: filepath.Join(base, "config.json"),
			Log:         filepath.Join(base, "Otter_wizard_log.log"),
		},
		Import: ImportConfig{
			Sheet:      "Input",
			StartRow:   1,
			StartCol:   1,
			ClearSheet: false,
			OpenOutput: true,
		},
		UI: UIConfig{
			SuccessTimeoutMs: 3000,
			SoundPollMs:      100,
		},
	}
}

// LoadConfig loads configuration from the specified config file path,
// creating it with defaults if it does not exist.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		configDir := filepath.Dir(configPath)
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}

		defaultConfig := Default()
		if err := SaveConfig(configPath, defaultConfig); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}

		logger.Info("Created default config file", "path", configPath)
		return defaultConfig, nil
	}

	// open_output defaults to true, so it must be seeded before decoding
	config := Config{Import: ImportConfig{OpenOutput: true}}
	if _, err := toml.DecodeFile(configPath, &config); err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}

	applyDefaults(&config)

	logger.Info("Loaded configuration", "path", configPath)
	return &config, nil
}

func applyDefaults(config *Config) {
	def := Default()
	if config.Paths.Preferences == "" {
		config.Paths.Preferences = def.Paths.Preferences
	}
	if config.Paths.Log == "" {
		config.Paths.Log = def.Paths.Log
	}
	if config.Import.Sheet == "" {
		config.Import.Sheet = def.Import.Sheet
	}
	if config.Import.StartRow <= 0 {
		config.Import.StartRow = def.Import.StartRow
	}
	if config.Import.StartCol <= 0 {
		config.Import.StartCol = def.Import.StartCol
	}
	if config.UI.SuccessTimeoutMs <= 0 {
		config.UI.SuccessTimeoutMs = def.UI.SuccessTimeoutMs
	}
	if config.UI.SoundPollMs <= 0 {
		config.UI.SoundPollMs = def.UI.SoundPollMs
	}
}

// SaveConfig saves configuration to the specified config file path
func SaveConfig(configPath string, config *Config) error {
	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	if err := toml.NewEncoder(file).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	logger.Info("Saved configuration", "path", configPath)
	return nil
}

func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}
