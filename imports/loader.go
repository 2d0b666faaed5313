package imports

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/c360studio/semcatalog/catalog"
	"github.com/c360studio/semcatalog/graph"
	"github.com/c360studio/semcatalog/vocabulary/ontology"
)

// legacyScheme marks imports that point at files directly instead of going
// through the catalog.
const legacyScheme = "file://"

// Resolver maps an import IRI to a local path. *catalog.Resolver satisfies it.
type Resolver interface {
	Resolve(uri string) (string, bool)
}

// Observer receives each outcome as soon as it is recorded.
type Observer interface {
	Observe(Outcome)
}

// ObserverFunc adapts a function to an Observer.
type ObserverFunc func(Outcome)

// Observe calls f(o).
func (f ObserverFunc) Observe(o Outcome) { f(o) }

// Loader resolves and parses the imports of an ontology graph.
type Loader struct {
	resolver     Resolver
	rootFormat   graph.Format
	importFormat graph.Format
	recursive    bool
	observers    []Observer
	logger       *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithFormats overrides the formats used for the root ontology and its imports.
// Empty values keep the defaults.
func WithFormats(root, imported graph.Format) Option {
	return func(l *Loader) {
		if root != "" {
			l.rootFormat = root
		}
		if imported != "" {
			l.importFormat = imported
		}
	}
}

// WithRecursive makes the loader follow imports declared by imported
// ontologies. Each import IRI is reported once and each file is parsed once.
func WithRecursive(recursive bool) Option {
	return func(l *Loader) {
		l.recursive = recursive
	}
}

// WithObserver adds an observer notified of every outcome.
func WithObserver(o Observer) Option {
	return func(l *Loader) {
		if o != nil {
			l.observers = append(l.observers, o)
		}
	}
}

// WithLogger sets the loader's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader creates a loader that resolves imports through resolver.
func NewLoader(resolver Resolver, opts ...Option) *Loader {
	l := &Loader{
		resolver:     resolver,
		rootFormat:   graph.FormatTurtle,
		importFormat: graph.FormatRDFXML,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadGraphWithCatalog parses the ontology at ontologyPath and loads its
// imports using the catalog at catalogPath. Catalog construction errors and
// root parse errors are returned; per-import failures are only reported.
func LoadGraphWithCatalog(ontologyPath, catalogPath string, opts ...Option) (*graph.Graph, *Report, error) {
	resolver, err := catalog.NewResolver(catalogPath)
	if err != nil {
		return nil, nil, err
	}
	return NewLoader(resolver, opts...).LoadFile(ontologyPath)
}

// LoadFile parses the root ontology into a new graph and loads its imports.
func (l *Loader) LoadFile(ontologyPath string) (*graph.Graph, *Report, error) {
	g := graph.New()
	if _, err := g.ParseFile(ontologyPath, l.rootFormat); err != nil {
		return nil, nil, fmt.Errorf("parse ontology %s: %w", ontologyPath, err)
	}

	report := l.Load(g)
	report.Root = ontologyPath
	return g, report, nil
}

// Load processes every owl:imports object of g, parsing resolvable imports
// into g. It never fails; the outcome of each import is in the report.
func (l *Loader) Load(g *graph.Graph) *Report {
	report := &Report{
		RunID:    uuid.New().String(),
		Ontology: readHeader(g),
	}

	importsIRI := ontology.IRI(ontology.Imports)
	queue := g.Objects(importsIRI)
	seen := make(map[string]bool, len(queue))
	for _, uri := range queue {
		seen[uri] = true
	}
	parsed := make(map[string]bool)

	for len(queue) > 0 {
		uri := queue[0]
		queue = queue[1:]

		outcome := l.process(g, uri, parsed)
		report.record(outcome)
		l.notify(outcome)

		if !l.recursive || outcome.Status != StatusLoaded {
			continue
		}
		for _, next := range g.Objects(importsIRI) {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}

	report.Triples = g.Len()
	l.logger.Info("Imports loaded via catalog",
		"run_id", report.RunID,
		"loaded", report.Loaded,
		"total", report.Total,
		"triples", report.Triples)
	return report
}

// process runs the per-import state machine: legacy skip, resolve, existence
// check, parse.
func (l *Loader) process(g *graph.Graph, uri string, parsed map[string]bool) Outcome {
	if strings.HasPrefix(uri, legacyScheme) {
		l.logger.Warn("Skipping file:// import, use the catalog instead", "uri", uri)
		return Outcome{
			URI:     uri,
			Status:  StatusSkippedLegacy,
			Message: "file:// import skipped; use the catalog instead",
		}
	}

	path, ok := l.resolver.Resolve(uri)
	if !ok {
		l.logger.Warn("No catalog mapping for import", "uri", uri)
		return Outcome{
			URI:     uri,
			Status:  StatusUnmapped,
			Message: "no catalog mapping",
			Err:     fmt.Errorf("%w: %s", ErrImportUnmapped, uri),
		}
	}

	if _, err := os.Stat(path); err != nil {
		l.logger.Warn("Catalog maps import to a missing file", "uri", uri, "path", path)
		return Outcome{
			URI:     uri,
			Status:  StatusUnmapped,
			Path:    path,
			Message: "mapped file does not exist",
			Err:     fmt.Errorf("%w: %s: %w", ErrImportUnmapped, uri, err),
		}
	}

	if l.recursive && parsed[path] {
		return Outcome{
			URI:     uri,
			Status:  StatusLoaded,
			Path:    path,
			Message: "already loaded",
		}
	}

	added, err := g.ParseFile(path, l.importFormat)
	if err != nil {
		l.logger.Error("Failed to load import", "uri", uri, "path", path, "error", err)
		return Outcome{
			URI:     uri,
			Status:  StatusLoadError,
			Path:    path,
			Message: err.Error(),
			Err:     fmt.Errorf("%w: %s: %w", ErrImportLoad, path, err),
		}
	}
	parsed[path] = true

	l.logger.Debug("Loaded import", "uri", uri, "path", path, "triples", added)
	return Outcome{
		URI:     uri,
		Status:  StatusLoaded,
		Path:    path,
		Message: "loaded",
		Triples: added,
	}
}

func (l *Loader) notify(o Outcome) {
	for _, obs := range l.observers {
		obs.Observe(o)
	}
}

// readHeader extracts the root ontology's IRI, title and version annotations.
func readHeader(g *graph.Graph) Header {
	subjects := g.Subjects(ontology.RDFType, ontology.OWLOntology)
	if len(subjects) == 0 {
		return Header{}
	}

	h := Header{IRI: subjects[0]}
	for _, pred := range []string{ontology.Title, ontology.Label} {
		if t, ok := g.Value(h.IRI, ontology.IRI(pred)); ok {
			h.Title = t.Value
			break
		}
	}
	if t, ok := g.Value(h.IRI, ontology.IRI(ontology.VersionIRI)); ok {
		h.VersionIRI = t.Value
	}
	if t, ok := g.Value(h.IRI, ontology.IRI(ontology.VersionInfo)); ok {
		h.VersionInfo = t.Value
	}
	return h
}
