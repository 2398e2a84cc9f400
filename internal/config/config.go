// Package config provides configuration management for the emulator:
// window scale/fullscreen and keyboard bindings only.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds all application configuration.
type Config struct {
	Window WindowConfig `json:"window"`
	Input  InputConfig  `json:"input"`

	configPath string
	loaded     bool
}

// WindowConfig contains window-related configuration.
type WindowConfig struct {
	Fullscreen bool `json:"fullscreen"`
	Scale      int  `json:"scale"` // NES resolution multiplier
}

// InputConfig contains keyboard bindings for both controller ports.
type InputConfig struct {
	Player1Keys KeyMapping `json:"player1_keys"`
	Player2Keys KeyMapping `json:"player2_keys"`
}

// KeyMapping represents keyboard key names mapped to NES controller buttons.
type KeyMapping struct {
	Up     string `json:"up"`
	Down   string `json:"down"`
	Left   string `json:"left"`
	Right  string `json:"right"`
	A      string `json:"a"`
	B      string `json:"b"`
	Start  string `json:"start"`
	Select string `json:"select"`
}

// New creates a configuration with default values.
func New() *Config {
	return &Config{
		Window: WindowConfig{
			Fullscreen: false,
			Scale:      2,
		},
		Input: InputConfig{
			Player1Keys: KeyMapping{
				Up: "W", Down: "S", Left: "A", Right: "D",
				A: "J", B: "K", Start: "Return", Select: "Space",
			},
			Player2Keys: KeyMapping{
				Up: "Up", Down: "Down", Left: "Left", Right: "Right",
				A: "N", B: "M", Start: "RShift", Select: "RCtrl",
			},
		},
	}
}

// LoadFromFile loads configuration from a JSON file, writing the default
// configuration to path first if it doesn't exist.
func (c *Config) LoadFromFile(path string) error {
	c.configPath = path

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return c.SaveToFile(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	c.validate()
	c.loaded = true
	return nil
}

// SaveToFile saves the configuration to a JSON file.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	c.configPath = path
	return nil
}

func (c *Config) validate() {
	if c.Window.Scale <= 0 {
		c.Window.Scale = 1
	}
}

// GetNESResolution returns the native NES resolution.
func (c *Config) GetNESResolution() (int, int) { return 256, 240 }

// GetWindowResolution returns the window resolution based on scale.
func (c *Config) GetWindowResolution() (int, int) {
	w, h := c.GetNESResolution()
	return w * c.Window.Scale, h * c.Window.Scale
}

// IsLoaded returns whether the configuration was loaded from file.
func (c *Config) IsLoaded() bool { return c.loaded }

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string { return "./config/nescore.json" }
