// Package config loads nexus-audit runtime settings from
// ~/.nexus-audit/config.yaml.
//
// A missing file is not an error: every field has a default. The file
// path can be overridden with NEXUS_AUDIT_CONFIG or the --config flag.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// Dir is the per-user directory holding config and the archive.
	Dir = ".nexus-audit"

	// File is the config file name inside Dir.
	File = "config.yaml"

	// EnvPath overrides the config file location.
	EnvPath = "NEXUS_AUDIT_CONFIG"

	// ArchiveFile is the SQLite report archive inside DataDir.
	ArchiveFile = "audits.db"
)

// Dataset limits applied when profiling uploaded files.
const (
	DefaultMaxBytes = 10 << 20 // 10 MiB
	DefaultMaxRows  = 100_000
)

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DatasetConfig bounds dataset profiling.
type DatasetConfig struct {
	MaxBytes int64 `yaml:"max_bytes"`
	MaxRows  int   `yaml:"max_rows"`
}

// ArchiveConfig toggles the SQLite report archive.
type ArchiveConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Config models config.yaml.
type Config struct {
	DataDir string        `yaml:"data_dir"`
	Log     LogConfig     `yaml:"log"`
	Dataset DatasetConfig `yaml:"dataset"`
	Archive ArchiveConfig `yaml:"archive"`
}

// homeDir is swappable for tests.
var homeDir = os.UserHomeDir

// Default returns the settings used when no config file exists.
func Default() Config {
	dataDir := Dir
	if home, err := homeDir(); err == nil {
		dataDir = filepath.Join(home, Dir)
	}
	return Config{
		DataDir: dataDir,
		Log:     LogConfig{Level: "info", Format: "text"},
		Dataset: DatasetConfig{MaxBytes: DefaultMaxBytes, MaxRows: DefaultMaxRows},
		Archive: ArchiveConfig{Enabled: true},
	}
}

// ResolvePath picks the config file location: an explicit flag value
// wins, then NEXUS_AUDIT_CONFIG, then ~/.nexus-audit/config.yaml.
func ResolvePath(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv(EnvPath); env != "" {
		return env
	}
	home, err := homeDir()
	if err != nil {
		return filepath.Join(Dir, File)
	}
	return filepath.Join(home, Dir, File)
}

// Load reads the config at path, layering it over Default. A missing
// file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validate %s: %w", path, err)
	}
	cfg.DataDir = expandHome(cfg.DataDir)
	return cfg, nil
}

// Validate checks field ranges.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return errors.New("data_dir must not be empty")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	if c.Dataset.MaxBytes <= 0 {
		return fmt.Errorf("dataset.max_bytes must be positive, got %d", c.Dataset.MaxBytes)
	}
	if c.Dataset.MaxRows <= 0 {
		return fmt.Errorf("dataset.max_rows must be positive, got %d", c.Dataset.MaxRows)
	}
	return nil
}

// ArchivePath returns the archive database location.
func (c Config) ArchivePath() string {
	return filepath.Join(c.DataDir, ArchiveFile)
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := homeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
