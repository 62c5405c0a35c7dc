package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/brettbedarf/elfshelf/internal/util"
	"gopkg.in/yaml.v3"
)

// AppName is used for the mount name and the XDG config directory
const AppName = "elfshelf"

// Default configuration constants. See [Config] for field descriptions.
const (
	// DefaultCapacity is the total disk space of the emulated filesystem in bytes
	DefaultCapacity uint64 = 70_000_000

	// DefaultTargetFree is the free space an update needs; drives the
	// "smallest directory to delete" analysis
	DefaultTargetFree uint64 = 30_000_000

	// DefaultSmallThreshold is the exclusive upper bound for "small" directories
	DefaultSmallThreshold uint64 = 100_000

	DefaultLogLvl = util.WarnLevel

	DefaultFsName = AppName
	DefaultName   = AppName
)

// MountOptions holds high-level settings for the read-only FUSE view.
// No go-fuse types are exposed here.
type MountOptions struct {
	Debug  bool   // fuse debug logs
	FsName string // mount's FsName
	Name   string // mount's Name
}

// Config contains runtime configuration values for the emulated filesystem.
type Config struct {
	MountOptions
	LogLvl         util.LogLevel // Internal log level (Default Warn)
	Capacity       uint64        // Disk capacity in bytes (Default 70,000,000)
	TargetFree     uint64        // Free space wanted by the analysis (Default 30,000,000)
	SmallThreshold uint64        // Small directory threshold, exclusive (Default 100,000)
	SeedScript     string        // Optional bulk-load script replayed at startup
	NoColor        bool          // Render plain text instead of styled output
}

// ConfigOverride uses pointer fields to distinguish between unset and zero values
// when loading partial configuration. See [Config] for field descriptions.
type ConfigOverride struct {
	// LogLvl is CLI style verbosity between 1 (error) and 5 (trace)
	LogLvl         *int    `yaml:"verbose,omitempty" json:"verbose,omitempty"`
	Capacity       *uint64 `yaml:"capacity,omitempty" json:"capacity,omitempty"`
	TargetFree     *uint64 `yaml:"target_free,omitempty" json:"target_free,omitempty"`
	SmallThreshold *uint64 `yaml:"small_threshold,omitempty" json:"small_threshold,omitempty"`
	SeedScript     *string `yaml:"seed_script,omitempty" json:"seed_script,omitempty"`
	NoColor        *bool   `yaml:"no_color,omitempty" json:"no_color,omitempty"`
	FsName         *string `yaml:"fs_name,omitempty" json:"fs_name,omitempty"`
	Name           *string `yaml:"name,omitempty" json:"name,omitempty"`
	MountDebug     *bool   `yaml:"mount_debug,omitempty" json:"mount_debug,omitempty"`
}

// NewDefaultConfig creates a new Config with all default values.
func NewDefaultConfig() *Config {
	return &Config{
		MountOptions: MountOptions{
			FsName: DefaultFsName,
			Name:   DefaultName,
		},
		LogLvl:         DefaultLogLvl,
		Capacity:       DefaultCapacity,
		TargetFree:     DefaultTargetFree,
		SmallThreshold: DefaultSmallThreshold,
	}
}

// NewConfig creates a Config from defaults with override applied on top.
// A nil override yields the defaults.
func NewConfig(override *ConfigOverride) *Config {
	cfg := NewDefaultConfig()
	if override != nil {
		cfg.Merge(override)
	}
	return cfg
}

// Merge applies non-nil values from override onto this Config.
// This allows partial configuration updates while preserving existing values.
func (c *Config) Merge(override *ConfigOverride) {
	if override.LogLvl != nil {
		c.LogLvl = util.VerbosityToLevel(*override.LogLvl)
	}
	c.Capacity = util.ValueOr(override.Capacity, c.Capacity)
	c.TargetFree = util.ValueOr(override.TargetFree, c.TargetFree)
	c.SmallThreshold = util.ValueOr(override.SmallThreshold, c.SmallThreshold)
	c.SeedScript = util.ValueOr(override.SeedScript, c.SeedScript)
	c.NoColor = util.ValueOr(override.NoColor, c.NoColor)
	c.FsName = util.ValueOr(override.FsName, c.FsName)
	c.Name = util.ValueOr(override.Name, c.Name)
	c.Debug = util.ValueOr(override.MountDebug, c.Debug)
}

// Validate reports configuration values the filesystem cannot run with
func (c *Config) Validate() error {
	if c.Capacity == 0 {
		return errors.New("capacity must be greater than zero")
	}
	if c.TargetFree > c.Capacity {
		return fmt.Errorf("target free space %d exceeds capacity %d", c.TargetFree, c.Capacity)
	}
	return nil
}

// LoadConfigOverrideFile loads configuration overrides from a file without merging.
// Supports both YAML (.yaml, .yml) and JSON (.json) formats.
func LoadConfigOverrideFile(path string) (*ConfigOverride, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var override ConfigOverride

	// Determine format by file extension
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown config file extension: %s", path)
	}

	return &override, nil
}

// NewConfigFromFile creates a new Config by merging file overrides with defaults.
// This is a convenience function that combines NewDefaultConfig, LoadConfigOverrideFile, and Merge.
func NewConfigFromFile(path string) (*Config, error) {
	override, err := LoadConfigOverrideFile(path)
	if err != nil {
		return nil, err
	}
	return NewConfig(override), nil
}

// DefaultConfigFile searches the XDG config directories for
// "elfshelf/config.yaml". Returns false if none exists.
func DefaultConfigFile() (string, bool) {
	path, err := xdg.SearchConfigFile(filepath.Join(AppName, "config.yaml"))
	if err != nil {
		return "", false
	}
	return path, true
}
