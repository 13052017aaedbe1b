package fsdiag

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-ini/ini"
)

// Config represents the fsdiag configuration
type Config struct {
	configPath string
	ini        *ini.File
}

// HashConfig represents hash algorithm configuration
type HashConfig struct {
	Default string // Digest algorithm used by scan
	Buffer  string // Read buffer size, human readable ("1K", "2M")
}

// OutputConfig represents manifest and console output configuration
type OutputConfig struct {
	File   string // Manifest name written by scan
	Format string // plain or jsonl
	Color  string // auto, always, never
}

// VerboseConfig represents verbosity configuration
type VerboseConfig struct {
	Level int    // Default verbose level (0=quiet, 1=basic, 2=detailed, 3=trace)
	Debug string // Default debug flags (comma-separated)
}

// ScanConfig represents directory walk configuration
type ScanConfig struct {
	Ignore string // Path of an ignore-pattern file, empty for none
}

// AllConfig represents all configuration options
type AllConfig struct {
	Hash    *HashConfig
	Output  *OutputConfig
	Verbose *VerboseConfig
	Scan    *ScanConfig
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/fsdiag/config, falling back to
// ~/.config/fsdiag/config
func DefaultConfigPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, ConfigDirName, ConfigFileName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", ConfigDirName, ConfigFileName)
}

// LoadConfig loads configuration from configPath, or from DefaultConfigPath
// when configPath is empty. A missing file yields the built-in defaults and
// nothing is written to disk.
func LoadConfig(configPath string) (*Config, error) {
	explicit := configPath != ""
	if !explicit {
		configPath = DefaultConfigPath()
	}

	cfg := &Config{
		configPath: configPath,
	}

	if configPath == "" {
		return DefaultConfig(), nil
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if explicit {
			return nil, fmt.Errorf("config file %s does not exist", configPath)
		}
		VerboseLog(2, "no config file at %s, using defaults", configPath)
		cfg.ini = ini.Empty()
		if err := cfg.setDefaults(); err != nil {
			return nil, fmt.Errorf("failed to set default config: %w", err)
		}
		return cfg, nil
	}

	iniFile, err := ini.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	cfg.ini = iniFile
	VerboseLog(2, "loaded config from %s", configPath)

	return cfg, nil
}

// DefaultConfig returns an in-memory configuration holding the defaults
func DefaultConfig() *Config {
	cfg := &Config{ini: ini.Empty()}
	// Only fails on duplicate section names, which cannot happen on an empty file
	_ = cfg.setDefaults()
	return cfg
}

// Path returns the file the configuration was read from, if any
func (c *Config) Path() string {
	return c.configPath
}

// setDefaults sets default configuration values
func (c *Config) setDefaults() error {
	defaults := []struct {
		section, key, value string
	}{
		{"filehash", "default", DefaultHashAlgorithm},
		{"filehash", "buffer", DefaultHashBuffer},
		{"output", "file", DefaultOutputFile},
		{"output", "format", FormatPlain},
		{"output", "color", ColorAuto},
		{"verbose", "level", "0"},
		{"verbose", "debug", ""},
		{"scan", "ignore", ""},
	}

	for _, d := range defaults {
		section, err := c.ini.GetSection(d.section)
		if err != nil {
			section, err = c.ini.NewSection(d.section)
			if err != nil {
				return fmt.Errorf("failed to create %s section: %w", d.section, err)
			}
		}
		if _, err := section.NewKey(d.key, d.value); err != nil {
			return fmt.Errorf("failed to set default %s.%s: %w", d.section, d.key, err)
		}
	}

	return nil
}

// GetHashConfig returns the hash configuration
func (c *Config) GetHashConfig() *HashConfig {
	hashConfig := &HashConfig{
		Default: DefaultHashAlgorithm,
		Buffer:  DefaultHashBuffer,
	}

	if c.ini.HasSection("filehash") {
		section := c.ini.Section("filehash")
		if section.HasKey("default") {
			hashConfig.Default = section.Key("default").String()
		}
		if section.HasKey("buffer") {
			if buffer := section.Key("buffer").String(); buffer != "" {
				hashConfig.Buffer = buffer
			}
		}
	}

	return hashConfig
}

// GetOutputConfig returns the output configuration
func (c *Config) GetOutputConfig() *OutputConfig {
	outputConfig := &OutputConfig{
		File:   DefaultOutputFile,
		Format: FormatPlain,
		Color:  ColorAuto,
	}

	if c.ini.HasSection("output") {
		section := c.ini.Section("output")
		if section.HasKey("file") {
			if file := section.Key("file").String(); file != "" {
				outputConfig.File = file
			}
		}
		if section.HasKey("format") {
			outputConfig.Format = section.Key("format").String()
		}
		if section.HasKey("color") {
			outputConfig.Color = section.Key("color").String()
		}
	}

	return outputConfig
}

// GetVerboseConfig returns the verbose configuration
func (c *Config) GetVerboseConfig() *VerboseConfig {
	verboseConfig := &VerboseConfig{}

	if c.ini.HasSection("verbose") {
		section := c.ini.Section("verbose")
		if section.HasKey("level") {
			if level, err := section.Key("level").Int(); err == nil {
				verboseConfig.Level = level
			}
		}
		if section.HasKey("debug") {
			verboseConfig.Debug = section.Key("debug").String()
		}
	}

	return verboseConfig
}

// GetScanConfig returns the directory walk configuration
func (c *Config) GetScanConfig() *ScanConfig {
	scanConfig := &ScanConfig{}

	if c.ini.HasSection("scan") {
		section := c.ini.Section("scan")
		if section.HasKey("ignore") {
			scanConfig.Ignore = section.Key("ignore").String()
		}
	}

	return scanConfig
}

// GetAllConfig returns all configuration options
func (c *Config) GetAllConfig() *AllConfig {
	return &AllConfig{
		Hash:    c.GetHashConfig(),
		Output:  c.GetOutputConfig(),
		Verbose: c.GetVerboseConfig(),
		Scan:    c.GetScanConfig(),
	}
}

// overrideKeys maps an override key to its section.key location
var overrideKeys = map[string][2]string{
	"default": {"filehash", "default"},
	"buffer":  {"filehash", "buffer"},
	"file":    {"output", "file"},
	"format":  {"output", "format"},
	"color":   {"output", "color"},
	"level":   {"verbose", "level"},
	"debug":   {"verbose", "debug"},
	"ignore":  {"scan", "ignore"},
}

// ApplyOverrides applies command-line overrides to the configuration
// Accepts strings like "default:sha256", "format:jsonl", "level:2", "debug:walk"
func (c *Config) ApplyOverrides(overrides []string) error {
	for _, override := range overrides {
		parts := strings.SplitN(override, ":", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid override format '%s', expected 'key:value'", override)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		location, ok := overrideKeys[key]
		if !ok {
			return fmt.Errorf("unsupported override key '%s' (supported: default, buffer, file, format, color, level, debug, ignore)", key)
		}
		c.ini.Section(location[0]).Key(location[1]).SetValue(value)
	}

	return nil
}

// Validate checks every configured value, including overrides
func (c *Config) Validate() error {
	all := c.GetAllConfig()

	if err := ValidateHashAlgorithm(all.Hash.Default); err != nil {
		return err
	}
	if _, err := ParseHumanSize(all.Hash.Buffer); err != nil {
		return fmt.Errorf("invalid hash buffer: %w", err)
	}
	if err := ValidateOutputFormat(all.Output.Format); err != nil {
		return err
	}
	if err := ValidateColorMode(all.Output.Color); err != nil {
		return err
	}
	if c.ini.Section("verbose").HasKey("level") {
		level, err := c.ini.Section("verbose").Key("level").Int()
		if err != nil {
			return fmt.Errorf("invalid verbose level: %s", c.ini.Section("verbose").Key("level").String())
		}
		if err := ValidateVerboseLevel(level); err != nil {
			return err
		}
	}
	return nil
}

// ValidateHashAlgorithm validates that a hash algorithm is supported
func ValidateHashAlgorithm(algorithm string) error {
	if _, ok := HashTypeFromName(algorithm); !ok {
		return fmt.Errorf("unsupported hash algorithm: %s (supported: md5, sha1, sha256, sha512)", algorithm)
	}
	return nil
}

// ValidateOutputFormat validates that a manifest format is supported
func ValidateOutputFormat(format string) error {
	switch strings.ToLower(format) {
	case FormatPlain, FormatJSONL:
		return nil
	default:
		return fmt.Errorf("unsupported manifest format: %s (supported: plain, jsonl)", format)
	}
}

// ValidateColorMode validates a console colour mode
func ValidateColorMode(mode string) error {
	switch strings.ToLower(mode) {
	case ColorAuto, ColorAlways, ColorNever:
		return nil
	default:
		return fmt.Errorf("unsupported color mode: %s (supported: auto, always, never)", mode)
	}
}

// ValidateVerboseLevel validates that a verbose level is valid
func ValidateVerboseLevel(level int) error {
	if level < 0 || level > 3 {
		return fmt.Errorf("invalid verbose level: %d (supported: 0-3)", level)
	}
	return nil
}
