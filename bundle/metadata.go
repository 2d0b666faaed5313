package bundle

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// MetadataFile is the name of the metadata file written into the target directory.
const MetadataFile = "METADATA.txt"

// Metadata describes a downloaded bundle.
type Metadata struct {
	Source       string    `yaml:"source"`
	Publisher    string    `yaml:"publisher"`
	DownloadDate time.Time `yaml:"download_date"`
	Version      string    `yaml:"version"`
	ReleaseName  string    `yaml:"release_name"`
	ReleaseURL   string    `yaml:"release_url"`
	License      string    `yaml:"license"`
	Homepage     string    `yaml:"homepage"`
}

// WriteMetadata writes m to dir/METADATA.txt as key: value lines under a
// commented header.
func WriteMetadata(dir string, m Metadata) (string, error) {
	body, err := yaml.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("marshal metadata: %w", err)
	}

	title := m.Source
	if title == "" {
		title = "Ontologies"
	}
	title += " - Download Information"

	var buf bytes.Buffer
	buf.WriteString("# " + title + "\n")
	buf.WriteString("# " + strings.Repeat("=", 50) + "\n\n")
	buf.Write(body)

	path := filepath.Join(dir, MetadataFile)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("write metadata: %w", err)
	}
	return path, nil
}

// ReadMetadata reads a metadata file written by WriteMetadata.
func ReadMetadata(path string) (*Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}

	var m Metadata
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse metadata: %w", err)
	}
	return &m, nil
}
