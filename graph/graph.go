// Package graph provides an in-memory RDF graph with set semantics on
// triples. Documents are decoded with github.com/knakk/rdf.
package graph

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/knakk/rdf"
)

// ErrUnsupportedFormat is returned when a format has no registered decoder.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Graph is a set of triples. Adding a triple that is already present is a
// no-op, so parsing the same document twice leaves the graph unchanged.
//
// A Graph is not safe for concurrent mutation.
type Graph struct {
	index   map[string]struct{}
	triples []Triple
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{index: make(map[string]struct{})}
}

// Add inserts a triple and reports whether it was new.
func (g *Graph) Add(t Triple) bool {
	key := t.String()
	if _, ok := g.index[key]; ok {
		return false
	}
	g.index[key] = struct{}{}
	g.triples = append(g.triples, t)
	return true
}

// Has reports whether the triple is in the graph.
func (g *Graph) Has(t Triple) bool {
	_, ok := g.index[t.String()]
	return ok
}

// Len returns the number of distinct triples.
func (g *Graph) Len() int {
	return len(g.triples)
}

// Triples returns a copy of the triples in insertion order.
func (g *Graph) Triples() []Triple {
	out := make([]Triple, len(g.triples))
	copy(out, g.triples)
	return out
}

// Objects returns the distinct object values of all triples with the given
// predicate IRI, sorted.
func (g *Graph) Objects(predicate string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, t := range g.triples {
		if t.Predicate.Value != predicate {
			continue
		}
		if _, ok := seen[t.Object.Value]; ok {
			continue
		}
		seen[t.Object.Value] = struct{}{}
		out = append(out, t.Object.Value)
	}
	sort.Strings(out)
	return out
}

// Subjects returns the distinct subjects of triples matching predicate and
// object IRIs, sorted.
func (g *Graph) Subjects(predicate, object string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, t := range g.triples {
		if t.Predicate.Value != predicate || t.Object.Value != object {
			continue
		}
		if _, ok := seen[t.Subject.Value]; ok {
			continue
		}
		seen[t.Subject.Value] = struct{}{}
		out = append(out, t.Subject.Value)
	}
	sort.Strings(out)
	return out
}

// Value returns the first object of a triple with the given subject and
// predicate IRIs.
func (g *Graph) Value(subject, predicate string) (Term, bool) {
	for _, t := range g.triples {
		if t.Subject.Value == subject && t.Predicate.Value == predicate {
			return t.Object, true
		}
	}
	return Term{}, false
}

// ParseFile decodes the file at path and adds its triples to the graph.
// The file URI of path is used as the base IRI, and blank node labels are
// scoped to the file. It returns the number of triples that were new.
func (g *Graph) ParseFile(path string, format Format) (int, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return 0, fmt.Errorf("resolve path: %w", err)
	}

	f, err := os.Open(abs)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return g.Parse(f, format, "file://"+filepath.ToSlash(abs))
}

// Parse decodes a document and adds its triples to the graph. Parsing is all
// or nothing: if the document fails to decode, no triples are added.
func (g *Graph) Parse(r io.Reader, format Format, base string) (int, error) {
	info, ok := GetFormatInfo(format)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	if format == FormatRDFXML {
		data, err := io.ReadAll(r)
		if err != nil {
			return 0, fmt.Errorf("read %s: %w", format, err)
		}
		r = bytes.NewReader(expandEntities(data))
	}

	dec := rdf.NewTripleDecoder(r, info.codec)
	if base != "" {
		if iri, err := rdf.NewIRI(base); err == nil {
			if err := dec.SetOption(rdf.Base, iri); err != nil {
				return 0, fmt.Errorf("set base %s: %w", base, err)
			}
		}
	}

	scope := blankScope(base)
	var decoded []Triple
	for {
		tr, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("decode %s: %w", format, err)
		}
		decoded = append(decoded, convertTriple(tr, scope))
	}

	added := 0
	for _, t := range decoded {
		if g.Add(t) {
			added++
		}
	}
	return added, nil
}

// blankScope derives a stable blank node prefix from the document base so
// that two documents never share blank nodes.
func blankScope(base string) string {
	sum := sha256.Sum256([]byte(base))
	return "d" + hex.EncodeToString(sum[:4]) + "x"
}
