package catalog

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"strings"
)

// Namespace is the OASIS XML catalog namespace.
const Namespace = "urn:oasis:names:tc:entity:xmlns:xml:catalog"

// Entry is a catalog uri record that was accepted into the mapping.
type Entry struct {
	// Name is the ontology URI as written in the catalog.
	Name string

	// URI is the location as written in the catalog, relative to the catalog directory.
	URI string

	// Path is the absolute local path the entry resolves to.
	Path string
}

// Resolver maps ontology URIs to local file paths.
type Resolver struct {
	path     string
	mappings map[string]string
	entries  []Entry
	logger   *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used while loading the catalog.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver parses the catalog at path and builds the URI mapping.
// It fails with a *NotFoundError if path does not exist and with a
// *ParseError if the file is not well-formed XML.
func NewResolver(path string, opts ...Option) (*Resolver, error) {
	r := &Resolver{
		path:     path,
		mappings: make(map[string]string),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

// catalogDocument is the subset of the OASIS catalog schema that is honoured.
type catalogDocument struct {
	URIs []uriElement `xml:"urn:oasis:names:tc:entity:xmlns:xml:catalog uri"`
}

type uriElement struct {
	Name string `xml:"name,attr"`
	URI  string `xml:"uri,attr"`
}

// decodeCatalog decodes the root element and requires that only whitespace,
// comments and processing instructions follow it.
func decodeCatalog(data []byte) (*catalogDocument, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var doc catalogDocument
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return &doc, nil
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.Comment, xml.ProcInst:
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return nil, fmt.Errorf("junk after document element (line %d)", lineOf(dec))
			}
		default:
			return nil, fmt.Errorf("junk after document element (line %d)", lineOf(dec))
		}
	}
}

func lineOf(dec *xml.Decoder) int {
	line, _ := dec.InputPos()
	return line
}

func (r *Resolver) load() error {
	if _, err := os.Stat(r.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &NotFoundError{Path: r.path, Err: err}
		}
		return fmt.Errorf("stat catalog: %w", err)
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}

	doc, err := decodeCatalog(data)
	if err != nil {
		return &ParseError{Path: r.path, Err: err}
	}

	dir := filepath.Dir(r.path)
	skipped := 0
	for _, el := range doc.URIs {
		if el.Name == "" || el.URI == "" {
			skipped++
			continue
		}

		local, err := resolveLocal(dir, el.URI)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", el.URI, err)
		}

		key := normalize(el.Name)
		r.mappings[key] = local
		r.mappings[strings.TrimRight(key, "/")] = local
		r.entries = append(r.entries, Entry{Name: el.Name, URI: el.URI, Path: local})

		r.logger.Debug("Catalog entry", "name", el.Name, "path", local)
	}

	r.logger.Debug("Catalog loaded",
		"path", r.path,
		"entries", len(r.entries),
		"skipped", skipped)
	return nil
}

// resolveLocal joins a catalog-relative location onto the catalog directory
// and returns its canonical absolute form. Symlinks are evaluated in the
// deepest existing ancestor, so missing targets share the prefix of their
// existing siblings.
func resolveLocal(dir, location string) (string, error) {
	abs, err := filepath.Abs(filepath.Join(dir, filepath.FromSlash(location)))
	if err != nil {
		return "", err
	}

	rest := ""
	for p := abs; ; {
		if real, err := filepath.EvalSymlinks(p); err == nil {
			return filepath.Join(real, rest), nil
		}
		parent := filepath.Dir(p)
		if parent == p {
			return abs, nil
		}
		rest = filepath.Join(filepath.Base(p), rest)
		p = parent
	}
}

// normalize returns uri with trailing slashes replaced by exactly one.
func normalize(uri string) string {
	return strings.TrimRight(uri, "/") + "/"
}

// Resolve returns the local path mapped to uri. Lookup tries the raw input,
// then the slash-terminated form, then the form without trailing slashes.
func (r *Resolver) Resolve(uri string) (string, bool) {
	if p, ok := r.mappings[uri]; ok {
		return p, true
	}
	if p, ok := r.mappings[normalize(uri)]; ok {
		return p, true
	}
	if p, ok := r.mappings[strings.TrimRight(uri, "/")]; ok {
		return p, true
	}
	return "", false
}

// IsMapped reports whether Resolve finds a path for uri.
func (r *Resolver) IsMapped(uri string) bool {
	_, ok := r.Resolve(uri)
	return ok
}

// AllMappings returns a copy of the key to path table, including both slash
// variants of every entry.
func (r *Resolver) AllMappings() map[string]string {
	return maps.Clone(r.mappings)
}

// Entries returns the accepted catalog records in document order.
func (r *Resolver) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of keys in the mapping.
func (r *Resolver) Len() int {
	return len(r.mappings)
}

// Path returns the catalog file the resolver was built from.
func (r *Resolver) Path() string {
	return r.path
}
