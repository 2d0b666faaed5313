package graph

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/knakk/rdf"
)

// DefaultPrefixes are the namespace prefixes declared in Turtle output.
var DefaultPrefixes = map[string]string{
	"rdf":     "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
	"rdfs":    "http://www.w3.org/2000/01/rdf-schema#",
	"owl":     "http://www.w3.org/2002/07/owl#",
	"xsd":     "http://www.w3.org/2001/XMLSchema#",
	"dcterms": "http://purl.org/dc/terms/",
	"skos":    "http://www.w3.org/2004/02/skos/core#",
}

// sorted returns the triples ordered by subject, predicate and object so
// output is stable across runs.
func (g *Graph) sorted() []Triple {
	out := g.Triples()
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Subject.key != b.Subject.key {
			return a.Subject.key < b.Subject.key
		}
		if a.Predicate.key != b.Predicate.key {
			return a.Predicate.key < b.Predicate.key
		}
		return a.Object.key < b.Object.key
	})
	return out
}

// Write serializes the graph. N-Triples and Turtle are supported; RDF/XML
// is read-only.
func (g *Graph) Write(w io.Writer, format Format) error {
	switch format {
	case FormatNTriples:
		bw := bufio.NewWriter(w)
		for _, t := range g.sorted() {
			if _, err := fmt.Fprintln(bw, t.String()); err != nil {
				return err
			}
		}
		return bw.Flush()
	case FormatTurtle:
		enc := rdf.NewTripleEncoder(w, rdf.Turtle)
		enc.Namespaces = make(map[string]string, len(DefaultPrefixes))
		for prefix, ns := range DefaultPrefixes {
			enc.Namespaces[ns] = prefix
		}
		for _, t := range g.sorted() {
			tr, err := t.rdfTriple()
			if err != nil {
				return fmt.Errorf("encode triple: %w", err)
			}
			if err := enc.Encode(tr); err != nil {
				return fmt.Errorf("encode triple: %w", err)
			}
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w for writing: %s", ErrUnsupportedFormat, format)
	}
}

// WriteFile serializes the graph to path, choosing the format from the
// extension when format is empty.
func (g *Graph) WriteFile(path string, format Format) error {
	if format == "" {
		f, ok := FormatForPath(path)
		if !ok {
			return fmt.Errorf("%w: cannot infer format of %s", ErrUnsupportedFormat, path)
		}
		format = f
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := g.Write(f, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
