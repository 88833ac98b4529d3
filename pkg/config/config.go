// Package config loads the TOML file describing named partitions and
// CLI defaults for cmd/sornctl, in the style of the arm_emulator
// example repo's config loader.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"

	"github.com/oisee/sornarith/pkg/partition"
)

// PartitionSpec describes one named partition, built either from a
// uniform grid or from the textual format (spec §6). Mode selects the
// shape Build uses; the fields of the other shape are ignored, and Build
// reports an error only for an unrecognized Mode.
type PartitionSpec struct {
	Mode string `toml:"mode"` // "grid" or "string"

	Start  float64 `toml:"start"`
	End    float64 `toml:"end"`
	Step   float64 `toml:"step"`
	HasInf bool    `toml:"has_inf"`

	Text string `toml:"text"`
}

// Build constructs the partition this spec describes.
func (s PartitionSpec) Build() (*partition.Partition, error) {
	switch s.Mode {
	case "grid":
		return partition.NewGrid(s.Start, s.End, s.Step, s.HasInf)
	case "string":
		return partition.NewFromString(s.Text)
	default:
		return nil, fmt.Errorf("sornarith/config: unknown partition mode %q", s.Mode)
	}
}

// Config is the top-level TOML document.
type Config struct {
	// Defaults mirrors the teacher's top-level settings groups
	// (Execution, Display, ...): small flat structs of CLI defaults.
	Defaults struct {
		Operation string `toml:"operation"`
		LogLevel  string `toml:"log_level"`
		LogFormat string `toml:"log_format"` // "text" or "json"
	} `toml:"defaults"`

	Partitions map[string]PartitionSpec `toml:"partitions"`
}

// DefaultConfig returns a configuration with sensible built-in defaults
// and no named partitions.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Defaults.Operation = "add"
	cfg.Defaults.LogLevel = "info"
	cfg.Defaults.LogFormat = "text"
	cfg.Partitions = map[string]PartitionSpec{}
	return cfg
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "sornctl")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "sornctl.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "sornctl")

	default:
		return "sornctl.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "sornctl.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file, returning
// built-in defaults unmodified if the file does not exist.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("sornarith/config: failed to parse config file: %w", err)
	}
	if cfg.Partitions == nil {
		cfg.Partitions = map[string]PartitionSpec{}
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("sornarith/config: failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("sornarith/config: failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("sornarith/config: failed to encode config: %w", err)
	}

	return nil
}

// Partition looks up a named partition and builds it.
func (c *Config) Partition(name string) (*partition.Partition, error) {
	spec, ok := c.Partitions[name]
	if !ok {
		return nil, fmt.Errorf("sornarith/config: no partition named %q", name)
	}
	return spec.Build()
}
