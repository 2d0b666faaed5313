// Package config provides configuration loading and management for semcatalog.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/c360studio/semcatalog/bundle"
	"github.com/c360studio/semcatalog/graph"
)

// Config represents the complete semcatalog configuration
type Config struct {
	Catalog  CatalogConfig  `yaml:"catalog"`
	Ontology OntologyConfig `yaml:"ontology"`
	Loader   LoaderConfig   `yaml:"loader"`
	Bundle   BundleConfig   `yaml:"bundle"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// CatalogConfig locates the XML catalog
type CatalogConfig struct {
	// Path is the catalog file (default: catalog-v001.xml)
	Path string `yaml:"path"`
}

// OntologyConfig locates the root ontology
type OntologyConfig struct {
	// Path is the root ontology document
	Path string `yaml:"path"`
}

// LoaderConfig configures import loading
type LoaderConfig struct {
	// RootFormat is the serialization of the root ontology (default: turtle)
	RootFormat string `yaml:"root_format"`
	// ImportFormat is the serialization of imported files (default: xml)
	ImportFormat string `yaml:"import_format"`
	// Recursive follows imports declared by imported files
	Recursive bool `yaml:"recursive"`
}

// BundleConfig configures the release bundle fetcher
type BundleConfig struct {
	APIURL        string        `yaml:"api_url"`
	TargetDir     string        `yaml:"target_dir"`
	Patterns      []string      `yaml:"patterns"`
	Timeout       time.Duration `yaml:"timeout"`
	MaxSize       int64         `yaml:"max_size"`
	UserAgent     string        `yaml:"user_agent"`
	Source        string        `yaml:"source"`
	Publisher     string        `yaml:"publisher"`
	License       string        `yaml:"license"`
	Homepage      string        `yaml:"homepage"`
	AllowInsecure bool          `yaml:"allow_insecure"`
}

// MetricsConfig configures metrics export
type MetricsConfig struct {
	// Textfile is a Prometheus textfile path written after each command (empty = disabled)
	Textfile string `yaml:"textfile"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Path: "catalog-v001.xml",
		},
		Loader: LoaderConfig{
			RootFormat:   string(graph.FormatTurtle),
			ImportFormat: string(graph.FormatRDFXML),
		},
		Bundle: BundleConfig{
			Patterns:  append([]string(nil), bundle.DefaultPatterns...),
			Timeout:   5 * time.Minute,
			MaxSize:   1 << 30,
			UserAgent: "semcatalog",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Catalog.Path == "" {
		return fmt.Errorf("catalog.path is required")
	}
	if _, ok := graph.ParseFormat(c.Loader.RootFormat); !ok {
		return fmt.Errorf("loader.root_format %q is not a supported format", c.Loader.RootFormat)
	}
	if _, ok := graph.ParseFormat(c.Loader.ImportFormat); !ok {
		return fmt.Errorf("loader.import_format %q is not a supported format", c.Loader.ImportFormat)
	}
	if c.Bundle.Timeout < 0 {
		return fmt.Errorf("bundle.timeout must not be negative")
	}
	if c.Bundle.MaxSize < 0 {
		return fmt.Errorf("bundle.max_size must not be negative")
	}
	return nil
}

// Formats returns the parsed root and import formats.
func (c *Config) Formats() (root, imported graph.Format, err error) {
	root, ok := graph.ParseFormat(c.Loader.RootFormat)
	if !ok {
		return "", "", fmt.Errorf("%w: %s", graph.ErrUnsupportedFormat, c.Loader.RootFormat)
	}
	imported, ok = graph.ParseFormat(c.Loader.ImportFormat)
	if !ok {
		return "", "", fmt.Errorf("%w: %s", graph.ErrUnsupportedFormat, c.Loader.ImportFormat)
	}
	return root, imported, nil
}

// ToBundleConfig converts the bundle section into a fetcher config.
func (c *Config) ToBundleConfig() bundle.Config {
	b := c.Bundle
	return bundle.Config{
		APIURL:        b.APIURL,
		TargetDir:     b.TargetDir,
		Patterns:      append([]string(nil), b.Patterns...),
		Timeout:       b.Timeout,
		MaxSize:       b.MaxSize,
		UserAgent:     b.UserAgent,
		Source:        b.Source,
		Publisher:     b.Publisher,
		License:       b.License,
		Homepage:      b.Homepage,
		AllowInsecure: b.AllowInsecure,
	}
}

// LoadFromFile loads configuration from a YAML file on top of the defaults,
// expanding ${VAR} and ${VAR:-default} references first.
func LoadFromFile(path string) (*Config, error) {
	config := DefaultConfig()
	if err := readInto(path, config); err != nil {
		return nil, err
	}
	return config, nil
}

// readLayer parses one layer of the layered configuration. Keys the file
// omits stay zero so Merge leaves lower layers untouched.
func readLayer(path string) (*Config, error) {
	var config Config
	if err := readInto(path, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

func readInto(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal([]byte(ExpandEnvWithDefaults(string(data))), config); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Catalog.Path != "" {
		c.Catalog.Path = other.Catalog.Path
	}
	if other.Ontology.Path != "" {
		c.Ontology.Path = other.Ontology.Path
	}

	// Loader
	if other.Loader.RootFormat != "" {
		c.Loader.RootFormat = other.Loader.RootFormat
	}
	if other.Loader.ImportFormat != "" {
		c.Loader.ImportFormat = other.Loader.ImportFormat
	}
	if other.Loader.Recursive {
		c.Loader.Recursive = true
	}

	// Bundle
	b := other.Bundle
	mergeString(&c.Bundle.APIURL, b.APIURL)
	mergeString(&c.Bundle.TargetDir, b.TargetDir)
	mergeString(&c.Bundle.UserAgent, b.UserAgent)
	mergeString(&c.Bundle.Source, b.Source)
	mergeString(&c.Bundle.Publisher, b.Publisher)
	mergeString(&c.Bundle.License, b.License)
	mergeString(&c.Bundle.Homepage, b.Homepage)
	if len(b.Patterns) > 0 {
		c.Bundle.Patterns = b.Patterns
	}
	if b.Timeout != 0 {
		c.Bundle.Timeout = b.Timeout
	}
	if b.MaxSize != 0 {
		c.Bundle.MaxSize = b.MaxSize
	}
	if b.AllowInsecure {
		c.Bundle.AllowInsecure = true
	}

	// Metrics
	mergeString(&c.Metrics.Textfile, other.Metrics.Textfile)
}

func mergeString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// ExpandEnvWithDefaults replaces ${VAR} and ${VAR:-default} with values from
// the environment. A set but empty variable falls back to the default.
func ExpandEnvWithDefaults(s string) string {
	return os.Expand(s, func(key string) string {
		name, def, hasDefault := strings.Cut(key, ":-")
		if v := os.Getenv(name); v != "" || !hasDefault {
			return v
		}
		return def
	})
}
