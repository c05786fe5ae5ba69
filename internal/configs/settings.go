package configs

import (
	"fmt"
	"os"
)

// Settings are the persisted preferences stored in <base_dir>/config.toml.
// Every field is optional; environment variables take precedence.
type Settings struct {
	CryptoExtension   string `toml:"crypto_extension,omitempty"`
	PublicKeyFilename string `toml:"public_key_filename,omitempty"`
	Editor            string `toml:"editor,omitempty"`
}

// LoadSettings reads the settings file. A missing file yields empty settings.
func LoadSettings(path string) (*Settings, error) {
	settings := &Settings{}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return settings, nil
	}

	if err := LoadTOML(path, settings); err != nil {
		return nil, fmt.Errorf("failed to load settings from %s: %w", path, err)
	}

	return settings, nil
}

// SaveSettings writes the settings file.
func SaveSettings(path string, settings *Settings) error {
	if err := SaveTOML(path, settings); err != nil {
		return fmt.Errorf("failed to save settings to %s: %w", path, err)
	}
	return nil
}

// RecordBackend persists the chosen crypto extension so later invocations
// skip backend detection.
func RecordBackend(cfg Config, ext string) error {
	settings, err := LoadSettings(cfg.SettingsPath)
	if err != nil {
		return err
	}
	settings.CryptoExtension = ext
	return SaveSettings(cfg.SettingsPath, settings)
}
