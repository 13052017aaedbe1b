package fsdiag

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigDefaults(t *testing.T) {
	// Point the default location at an empty directory
	tempDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tempDir)

	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	all := config.GetAllConfig()
	if all.Hash.Default != "md5" {
		t.Errorf("Expected default hash algorithm 'md5', got '%s'", all.Hash.Default)
	}
	if all.Hash.Buffer != "1K" {
		t.Errorf("Expected default buffer '1K', got '%s'", all.Hash.Buffer)
	}
	if all.Output.File != DefaultOutputFile {
		t.Errorf("Expected default output '%s', got '%s'", DefaultOutputFile, all.Output.File)
	}
	if all.Output.Format != FormatPlain {
		t.Errorf("Expected default format 'plain', got '%s'", all.Output.Format)
	}
	if all.Output.Color != ColorAuto {
		t.Errorf("Expected default color 'auto', got '%s'", all.Output.Color)
	}
	if all.Verbose.Level != 0 {
		t.Errorf("Expected default verbose level 0, got %d", all.Verbose.Level)
	}

	// Defaults are never written out
	configPath := filepath.Join(tempDir, ConfigDirName, ConfigFileName)
	if _, err := os.Stat(configPath); !os.IsNotExist(err) {
		t.Error("Config file should not have been created")
	}
	if config.Path() != configPath {
		t.Errorf("Expected path %s, got %s", configPath, config.Path())
	}
}

func TestConfigLoadFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config")
	content := `[filehash]
default = sha256
buffer = 64K

[output]
file = sums.log
format = jsonl
color = never

[verbose]
level = 2
debug = walk,hash
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if err := config.Validate(); err != nil {
		t.Fatalf("Expected valid config: %v", err)
	}

	all := config.GetAllConfig()
	if all.Hash.Default != "sha256" || all.Hash.Buffer != "64K" {
		t.Errorf("Unexpected hash config %+v", all.Hash)
	}
	if all.Output.File != "sums.log" || all.Output.Format != "jsonl" || all.Output.Color != "never" {
		t.Errorf("Unexpected output config %+v", all.Output)
	}
	if all.Verbose.Level != 2 || all.Verbose.Debug != "walk,hash" {
		t.Errorf("Unexpected verbose config %+v", all.Verbose)
	}
	// Section absent from the file falls back to defaults
	if all.Scan.Ignore != "" {
		t.Errorf("Expected no ignore file, got %s", all.Scan.Ignore)
	}
}

func TestConfigExplicitMissing(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("Expected error for missing explicit config file")
	}
}

func TestConfigOverrides(t *testing.T) {
	config := DefaultConfig()

	err := config.ApplyOverrides([]string{
		"default:sha1",
		"format:jsonl",
		"level:2",
		"debug:walk,compare",
		"file: out.log ",
		"ignore:/tmp/ignore",
	})
	if err != nil {
		t.Fatalf("Failed to apply overrides: %v", err)
	}

	all := config.GetAllConfig()
	if all.Hash.Default != "sha1" {
		t.Errorf("Expected hash algorithm 'sha1' after override, got '%s'", all.Hash.Default)
	}
	if all.Output.Format != "jsonl" {
		t.Errorf("Expected format 'jsonl' after override, got '%s'", all.Output.Format)
	}
	if all.Output.File != "out.log" {
		t.Errorf("Expected trimmed file 'out.log', got '%s'", all.Output.File)
	}
	if all.Verbose.Level != 2 {
		t.Errorf("Expected verbose level 2 after override, got %d", all.Verbose.Level)
	}
	if all.Verbose.Debug != "walk,compare" {
		t.Errorf("Expected debug flags 'walk,compare', got '%s'", all.Verbose.Debug)
	}
	if all.Scan.Ignore != "/tmp/ignore" {
		t.Errorf("Expected ignore '/tmp/ignore', got '%s'", all.Scan.Ignore)
	}
}

func TestConfigOverrideErrors(t *testing.T) {
	tests := []struct {
		override string
		contains string
	}{
		{"default", "expected 'key:value'"},
		{"colour:never", "unsupported override key"},
	}

	for _, tt := range tests {
		err := DefaultConfig().ApplyOverrides([]string{tt.override})
		if err == nil {
			t.Errorf("Expected error for %q", tt.override)
			continue
		}
		if !strings.Contains(err.Error(), tt.contains) {
			t.Errorf("Error for %q = %v, expected it to contain %q", tt.override, err, tt.contains)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name     string
		override string
		valid    bool
	}{
		{"default", "", true},
		{"sha512", "default:SHA512", true},
		{"bad hash", "default:crc32", false},
		{"bad buffer", "buffer:lots", false},
		{"zero buffer", "buffer:0", false},
		{"bad format", "format:xml", false},
		{"bad color", "color:sometimes", false},
		{"level too high", "level:4", false},
		{"level not a number", "level:loud", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			if tt.override != "" {
				if err := config.ApplyOverrides([]string{tt.override}); err != nil {
					t.Fatalf("Failed to apply override: %v", err)
				}
			}
			err := config.Validate()
			if tt.valid && err != nil {
				t.Errorf("Expected valid config, got %v", err)
			}
			if !tt.valid && err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}
