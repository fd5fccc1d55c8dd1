package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

// DataDirName is the per-project directory holding config and cache files.
const DataDirName = ".micode"

// Config holds all configuration for the docs tool.
type Config struct {
	Docs    DocsConfig    `yaml:"docs"`
	Scan    ScanConfig    `yaml:"scan"`
	Cache   CacheConfig   `yaml:"cache"`
	Render  RenderConfig  `yaml:"render"`
	Logging LoggingConfig `yaml:"logging"`
}

// DocsConfig selects the grammar and tag extensions.
type DocsConfig struct {
	Grammar   string   `yaml:"grammar"`              // "generic", "php"
	Ignore    []string `yaml:"ignore,omitempty"`     // extra names exempt from missing-summary
	ExtraTags []string `yaml:"extra_tags,omitempty"` // tags kept as a single value, last one wins
}

// ScanConfig holds file discovery configuration.
type ScanConfig struct {
	Includes    []string `yaml:"includes"`
	Excludes    []string `yaml:"excludes"`
	Gitignore   bool     `yaml:"gitignore"`
	MaxFileSize int64    `yaml:"max_file_size"`
}

// CacheConfig holds document cache configuration.
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Backend    string `yaml:"backend"` // "bolt", "file", "memory"
	Path       string `yaml:"path"`    // relative to the project dir unless absolute
	MemorySlot bool   `yaml:"memory_slot"`
}

// RenderConfig holds output configuration.
type RenderConfig struct {
	Formatter string `yaml:"formatter"` // "minimal", "markdown"
	Width     int    `yaml:"width"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Docs: DocsConfig{
			Grammar: "php",
		},
		Scan: ScanConfig{
			Includes:    []string{"**/*.php"},
			Excludes:    []string{"**/vendor/**", "**/node_modules/**", "**/.git/**", DataDirName + "/**"},
			Gitignore:   true,
			MaxFileSize: 2 << 20,
		},
		Cache: CacheConfig{
			Enabled:    true,
			Backend:    "bolt",
			MemorySlot: true,
		},
		Render: RenderConfig{
			Formatter: "minimal",
			Width:     100,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports the first unknown enumerated value.
func (c *Config) Validate() error {
	switch c.Docs.Grammar {
	case "generic", "php":
	default:
		return fmt.Errorf("docs.grammar: unknown grammar %q", c.Docs.Grammar)
	}
	switch c.Cache.Backend {
	case "bolt", "file", "memory":
	default:
		return fmt.Errorf("cache.backend: unknown backend %q", c.Cache.Backend)
	}
	switch c.Render.Formatter {
	case "minimal", "markdown":
	default:
		return fmt.Errorf("render.formatter: unknown formatter %q", c.Render.Formatter)
	}
	if _, err := log.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if c.Scan.MaxFileSize < 0 {
		return fmt.Errorf("scan.max_file_size must not be negative")
	}
	return nil
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for micode.yaml,
// then .micode/config.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "micode.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, DataDirName, "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// CachePath returns the cache location for the project in dir. Bolt uses it
// as a file, the file backend as a directory.
func (c *Config) CachePath(dir string) string {
	if c.Cache.Path != "" {
		if filepath.IsAbs(c.Cache.Path) {
			return c.Cache.Path
		}
		return filepath.Join(dir, c.Cache.Path)
	}
	if c.Cache.Backend == "file" {
		return filepath.Join(dir, DataDirName, "docs")
	}
	return CacheDBPath(dir)
}

// CacheDBPath returns the default path of the bolt cache database.
func CacheDBPath(dir string) string {
	return filepath.Join(dir, DataDirName, "docs.db")
}

// EnsureDataDir ensures the .micode directory exists.
func EnsureDataDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, DataDirName), 0755)
}
