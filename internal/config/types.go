package config

import (
	"fmt"
	"time"
)

// Config represents the ssg.yaml site configuration.
type Config struct {
	Version     int               `yaml:"version"`
	OutputDir   string            `yaml:"output_dir,omitempty"`
	Concurrency int               `yaml:"concurrency,omitempty"`
	Cache       CacheConfig       `yaml:"cache,omitempty"`
	Fetch       FetchConfig       `yaml:"fetch,omitempty"`
	Variables   map[string]string `yaml:"variables,omitempty"`
	Layouts     map[string]string `yaml:"layouts,omitempty"`
	Files       []File            `yaml:"files"`
}

// DefaultOutputDir is used when output_dir is not set.
const DefaultOutputDir = "public"

// Output returns the configured output directory or the default.
func (c *Config) Output() string {
	if c.OutputDir == "" {
		return DefaultOutputDir
	}
	return c.OutputDir
}

// CacheConfig controls caching of fetched remote content.
type CacheConfig struct {
	Dir           string `yaml:"dir,omitempty"`
	MemoryEntries int    `yaml:"memory_entries,omitempty"`
	Disabled      bool   `yaml:"disabled,omitempty"`
}

// FetchConfig controls remote fetches.
type FetchConfig struct {
	Timeout string `yaml:"timeout,omitempty"` // Go duration, e.g. "30s"
	MaxSize int64  `yaml:"max_size,omitempty"`
}

// TimeoutDuration parses Timeout. An empty value means no extra timeout.
func (f FetchConfig) TimeoutDuration() (time.Duration, error) {
	if f.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(f.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid fetch timeout '%s': %w", f.Timeout, err)
	}
	return d, nil
}

// File types.
const (
	TypeStatic   = "static"
	TypeURL      = "url"
	TypeFile     = "file"
	TypeTemplate = "template"
	TypeMarkdown = "markdown"
)

// File declares one generated target and where its content comes from.
type File struct {
	Target string `yaml:"target"`
	Type   string `yaml:"type"`

	// Inline text for static, template and markdown files.
	Content string `yaml:"content,omitempty"`

	// Path relative to the project root, for file, template and markdown files.
	Path string `yaml:"path,omitempty"`

	// URL for url files.
	URL string `yaml:"url,omitempty"`

	// Markdown page fields.
	Layout string `yaml:"layout,omitempty"`
	Title  string `yaml:"title,omitempty"`

	Vars      map[string]string `yaml:"vars,omitempty"`
	Expects   []string          `yaml:"expects,omitempty"`
	ScanLinks bool              `yaml:"scan_links,omitempty"`
}
