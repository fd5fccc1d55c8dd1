package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "php", cfg.Docs.Grammar)
	assert.Equal(t, "bolt", cfg.Cache.Backend)
	assert.True(t, cfg.Cache.Enabled)
	assert.True(t, cfg.Cache.MemorySlot)
	assert.Equal(t, "minimal", cfg.Render.Formatter)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "micode.yaml")

	content := `
docs:
  grammar: generic
  extra_tags: [license]
cache:
  backend: file
  memory_slot: false
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "generic", cfg.Docs.Grammar)
	assert.Equal(t, []string{"license"}, cfg.Docs.ExtraTags)
	assert.Equal(t, "file", cfg.Cache.Backend)
	assert.False(t, cfg.Cache.MemorySlot)
	// untouched sections keep their defaults
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "micode.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("docs: [unclosed"), 0644))

	_, err := Load(configPath)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"grammar", func(c *Config) { c.Docs.Grammar = "cobol" }, "docs.grammar"},
		{"backend", func(c *Config) { c.Cache.Backend = "redis" }, "cache.backend"},
		{"formatter", func(c *Config) { c.Render.Formatter = "rst" }, "render.formatter"},
		{"level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"size", func(c *Config) { c.Scan.MaxFileSize = -1 }, "scan.max_file_size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestLoadFromDir(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := LoadFromDir(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "php", cfg.Docs.Grammar)

	require.NoError(t, EnsureDataDir(tmpDir))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, DataDirName, "config.yaml"),
		[]byte("docs:\n  grammar: generic\n"), 0644))
	cfg, err = LoadFromDir(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "generic", cfg.Docs.Grammar)

	// micode.yaml takes precedence
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "micode.yaml"),
		[]byte("render:\n  formatter: markdown\n"), 0644))
	cfg, err = LoadFromDir(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "php", cfg.Docs.Grammar)
	assert.Equal(t, "markdown", cfg.Render.Formatter)
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "micode.yaml")
	cfg := DefaultConfig()
	cfg.Docs.Ignore = []string{"init"}

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestCachePath(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, filepath.Join("/p", DataDirName, "docs.db"), cfg.CachePath("/p"))

	cfg.Cache.Backend = "file"
	assert.Equal(t, filepath.Join("/p", DataDirName, "docs"), cfg.CachePath("/p"))

	cfg.Cache.Path = "tmp/cache"
	assert.Equal(t, filepath.Join("/p", "tmp", "cache"), cfg.CachePath("/p"))

	cfg.Cache.Path = "/var/cache/micode"
	assert.Equal(t, "/var/cache/micode", cfg.CachePath("/p"))
}
