package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config is the main configuration structure
type Config struct {
	// PortMatch is a case-insensitive substring of the MIDI output port name.
	PortMatch string `json:"portMatch"`
	// PatchesDir is scanned for patch definition files.
	PatchesDir string `json:"patchesDir"`
	// Zero-based MIDI channels for the two voices.
	BassChannel uint8 `json:"bassChannel"`
	DrumChannel uint8 `json:"drumChannel"`
	InitialBPM  int   `json:"initialBpm"`
	// PalettePath points at an optional GPL palette for the TUI.
	PalettePath string `json:"palettePath,omitempty"`
}

// DefaultConfig returns a config with sensible defaults: a Roland T-8 with
// bass on wire channel 2 and rhythm on channel 10.
func DefaultConfig() *Config {
	return &Config{
		PortMatch:   "T-8",
		PatchesDir:  "patches",
		BassChannel: 1,
		DrumChannel: 9,
		InitialBPM:  90,
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "acidloop"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
