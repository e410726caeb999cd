// Package config provides configuration loading for links-here.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/morozRed/linkshere/internal/backlinks"
	"github.com/morozRed/linkshere/internal/document"
)

// ProjectConfigFile is looked up at the content root.
const ProjectConfigFile = ".links-here.yaml"

// Config is the complete links-here configuration.
type Config struct {
	// IndexFile marks a leaf directory as a document (default: index.md)
	IndexFile string `yaml:"index_file"`
	// Depth is how many directory levels below the root leaf documents live
	Depth int `yaml:"depth"`
	// BacklinkedPrefix selects the category whose documents get generated lists
	BacklinkedPrefix string `yaml:"backlinked_prefix"`
	// IndexPrefix selects the category whose references count as "indexed by"
	IndexPrefix   string `yaml:"index_prefix"`
	LinksHereFile string `yaml:"links_here_file"`
	IndexedByFile string `yaml:"indexed_by_file"`
	// LegacyMarkerScan stops scanning a line at the first non-reference marker
	LegacyMarkerScan bool `yaml:"legacy_marker_scan"`
	// TitleFromHeading uses the first body heading when metadata has no title
	TitleFromHeading bool `yaml:"title_from_heading"`
	// Ignore holds gitignore-style patterns for directories to skip
	Ignore []string    `yaml:"ignore"`
	Watch  WatchConfig `yaml:"watch"`
}

// WatchConfig configures the watch command.
type WatchConfig struct {
	// Debounce is how long to wait for more changes before rebuilding
	Debounce time.Duration `yaml:"debounce"`
}

// DefaultConfig returns a Config with the publishing convention's defaults.
func DefaultConfig() *Config {
	return &Config{
		IndexFile:        document.DefaultIndexFile,
		Depth:            document.DefaultDepth,
		BacklinkedPrefix: backlinks.DefaultBacklinkedPrefix,
		IndexPrefix:      backlinks.DefaultIndexPrefix,
		LinksHereFile:    backlinks.DefaultLinksHereFile,
		IndexedByFile:    backlinks.DefaultIndexedByFile,
		Watch: WatchConfig{
			Debounce: 300 * time.Millisecond,
		},
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.IndexFile == "" {
		return fmt.Errorf("index_file is required")
	}
	if filepath.Base(c.IndexFile) != c.IndexFile {
		return fmt.Errorf("index_file must be a file name, got %q", c.IndexFile)
	}
	if c.Depth < 1 {
		return fmt.Errorf("depth must be at least 1, got %d", c.Depth)
	}
	if c.LinksHereFile == "" || c.IndexedByFile == "" {
		return fmt.Errorf("links_here_file and indexed_by_file are required")
	}
	if c.LinksHereFile == c.IndexedByFile {
		return fmt.Errorf("links_here_file and indexed_by_file must differ")
	}
	for _, name := range []string{c.LinksHereFile, c.IndexedByFile} {
		if name == c.IndexFile {
			return fmt.Errorf("generated file %q would overwrite the index file", name)
		}
		if filepath.Base(name) != name {
			return fmt.Errorf("generated file must be a file name, got %q", name)
		}
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file on top of the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file.
func (c *Config) SaveToFile(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Load resolves the configuration for a content root. An explicit path must
// exist; otherwise the project file at the root is used when present.
func Load(rootPath, explicitPath string) (*Config, string, error) {
	path := explicitPath
	if path == "" {
		candidate := filepath.Join(rootPath, ProjectConfigFile)
		if _, err := os.Stat(candidate); err != nil {
			if os.IsNotExist(err) {
				return DefaultConfig(), "", nil
			}
			return nil, "", fmt.Errorf("failed to inspect %s: %w", candidate, err)
		}
		path = candidate
	}

	config, err := LoadFromFile(path)
	if err != nil {
		return nil, "", err
	}
	if err := config.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid config %s: %w", path, err)
	}
	return config, path, nil
}

// LocateOptions converts the config into walker options.
func (c *Config) LocateOptions() document.LocateOptions {
	return document.LocateOptions{
		IndexFile: c.IndexFile,
		Depth:     c.Depth,
	}
}

// Parser returns the document parser configured by c.
func (c *Config) Parser() document.Parser {
	return document.Parser{
		LegacyMarkerScan: c.LegacyMarkerScan,
		TitleFromHeading: c.TitleFromHeading,
	}
}

// BacklinkOptions converts the config into emitter options.
func (c *Config) BacklinkOptions() backlinks.Options {
	return backlinks.Options{
		BacklinkedPrefix: c.BacklinkedPrefix,
		IndexPrefix:      c.IndexPrefix,
		LinksHereFile:    c.LinksHereFile,
		IndexedByFile:    c.IndexedByFile,
	}
}
