package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "index.md", cfg.IndexFile)
	assert.Equal(t, 2, cfg.Depth)
	assert.Equal(t, "concepts/", cfg.BacklinkedPrefix)
	assert.Equal(t, "index/", cfg.IndexPrefix)
	assert.Equal(t, "links-here.md", cfg.LinksHereFile)
	assert.Equal(t, "indexed-by.md", cfg.IndexedByFile)
	assert.False(t, cfg.LegacyMarkerScan)
}

func TestLoadWithoutProjectFileUsesDefaults(t *testing.T) {
	cfg, path, err := Load(t.TempDir(), "")
	require.NoError(t, err)
	assert.Equal(t, "", path)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadProjectFileOverridesDefaults(t *testing.T) {
	root := t.TempDir()
	content := `index_file: _index.md
depth: 3
backlinked_prefix: docs/concepts
legacy_marker_scan: true
title_from_heading: true
ignore:
  - drafts/
watch:
  debounce: 1s
`
	require.NoError(t, os.WriteFile(filepath.Join(root, ProjectConfigFile), []byte(content), 0644))

	cfg, path, err := Load(root, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, ProjectConfigFile), path)
	assert.Equal(t, "_index.md", cfg.IndexFile)
	assert.Equal(t, 3, cfg.Depth)
	assert.Equal(t, "docs/concepts", cfg.BacklinkedPrefix)
	assert.Equal(t, "index/", cfg.IndexPrefix, "unset keys keep defaults")
	assert.True(t, cfg.LegacyMarkerScan)
	assert.Equal(t, []string{"drafts/"}, cfg.Ignore)
	assert.Equal(t, time.Second, cfg.Watch.Debounce)

	assert.True(t, cfg.Parser().LegacyMarkerScan)
	assert.True(t, cfg.Parser().TitleFromHeading)
	assert.Equal(t, 3, cfg.LocateOptions().Depth)
	assert.Equal(t, "docs/concepts", cfg.BacklinkOptions().BacklinkedPrefix)
}

func TestLoadExplicitPathMustExist(t *testing.T) {
	_, _, err := Load(t.TempDir(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("links_here_file: index.md\n"), 0644))

	_, _, err := Load(root, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "would overwrite the index file")
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "empty index file", mutate: func(c *Config) { c.IndexFile = "" }},
		{name: "index file with dir", mutate: func(c *Config) { c.IndexFile = "a/index.md" }},
		{name: "zero depth", mutate: func(c *Config) { c.Depth = 0 }},
		{name: "same outputs", mutate: func(c *Config) { c.IndexedByFile = c.LinksHereFile }},
		{name: "nested output", mutate: func(c *Config) { c.LinksHereFile = "gen/links.md" }},
		{name: "negative debounce", mutate: func(c *Config) { c.Watch.Debounce = -time.Second }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestSaveToFileRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), ProjectConfigFile)
	cfg := DefaultConfig()
	cfg.Ignore = []string{"archive/"}
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
