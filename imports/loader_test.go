package imports

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semcatalog/catalog"
	"github.com/c360studio/semcatalog/graph"
)

const testCatalog = `<?xml version="1.0" encoding="UTF-8"?>
<catalog xmlns="urn:oasis:names:tc:entity:xmlns:xml:catalog">
  <uri name="https://ex.org/a/" uri="./a.rdf"/>
  <uri name="https://ex.org/b/" uri="./b.rdf"/>
  <uri name="https://ex.org/c/" uri="./c.rdf"/>
  <uri name="https://ex.org/broken/" uri="./broken.rdf"/>
  <uri name="https://ex.org/alias/" uri="./a.rdf"/>
  <uri name="file://local/old.rdf" uri="./a.rdf"/>
</catalog>
`

const rootTTL = `@prefix owl: <http://www.w3.org/2002/07/owl#> .
@prefix dcterms: <http://purl.org/dc/terms/> .

<https://ex.org/root> a owl:Ontology ;
    dcterms:title "Root ontology" ;
    owl:versionIRI <https://ex.org/root/1.0> ;
    owl:versionInfo "1.0 (2025 Q1)" ;
    owl:imports <https://ex.org/a> , <file://local/old.rdf> , <https://ex.org/missing> .
`

const aRDF = `<?xml version="1.0"?>
<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"
         xmlns:owl="http://www.w3.org/2002/07/owl#"
         xmlns:rdfs="http://www.w3.org/2000/01/rdf-schema#">
  <owl:Ontology rdf:about="https://ex.org/a/">
    <rdfs:label>A</rdfs:label>
  </owl:Ontology>
</rdf:RDF>
`

const cRDF = `<?xml version="1.0"?>
<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"
         xmlns:owl="http://www.w3.org/2002/07/owl#">
  <owl:Ontology rdf:about="https://ex.org/c/">
    <owl:imports rdf:resource="https://ex.org/a/"/>
    <owl:imports rdf:resource="https://ex.org/d/"/>
  </owl:Ontology>
</rdf:RDF>
`

const brokenRDF = `<?xml version="1.0"?>
<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
  <rdf:Description rdf:about=></rdf:Description>
</rdf:RDF>
`

type fixture struct {
	dir     string
	catalog string
}

// newFixture writes the catalog plus a.rdf, c.rdf and broken.rdf; b.rdf is
// deliberately missing.
func newFixture(t *testing.T, root string) fixture {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"catalog-v001.xml": testCatalog,
		"a.rdf":            aRDF,
		"c.rdf":            cRDF,
		"broken.rdf":       brokenRDF,
		"root.ttl":         root,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return fixture{dir: dir, catalog: filepath.Join(dir, "catalog-v001.xml")}
}

func (f fixture) root() string { return filepath.Join(f.dir, "root.ttl") }

func outcomesByURI(r *Report) map[string]Outcome {
	out := make(map[string]Outcome, len(r.Outcomes))
	for _, o := range r.Outcomes {
		out[o.URI] = o
	}
	return out
}

func TestLoadGraphWithCatalog(t *testing.T) {
	f := newFixture(t, rootTTL)

	g, report, err := LoadGraphWithCatalog(f.root(), f.catalog)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 1, report.Loaded)
	assert.Equal(t, "1/3", report.Summary())
	assert.Equal(t, 1, report.Count(StatusLoaded))
	assert.Equal(t, 1, report.Count(StatusSkippedLegacy))
	assert.Equal(t, 1, report.Count(StatusUnmapped))
	assert.Zero(t, report.Count(StatusLoadError))
	assert.Len(t, report.Outcomes, 3)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, f.root(), report.Root)

	byURI := outcomesByURI(report)
	assert.Equal(t, StatusLoaded, byURI["https://ex.org/a"].Status)
	assert.Equal(t, "a.rdf", filepath.Base(byURI["https://ex.org/a"].Path))
	assert.Equal(t, StatusSkippedLegacy, byURI["file://local/old.rdf"].Status)
	assert.Empty(t, byURI["file://local/old.rdf"].Path)
	assert.Equal(t, StatusUnmapped, byURI["https://ex.org/missing"].Status)
	assert.ErrorIs(t, byURI["https://ex.org/missing"].Err, ErrImportUnmapped)

	// Root statements plus the two statements of a.rdf.
	assert.Equal(t, 9, g.Len())
	assert.Equal(t, g.Len(), report.Triples)
	label, ok := g.Value("https://ex.org/a/", "http://www.w3.org/2000/01/rdf-schema#label")
	require.True(t, ok)
	assert.Equal(t, "A", label.Value)

	assert.Equal(t, Header{
		IRI:         "https://ex.org/root",
		Title:       "Root ontology",
		VersionIRI:  "https://ex.org/root/1.0",
		VersionInfo: "1.0 (2025 Q1)",
	}, report.Ontology)
}

const entityRDF = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE rdf:RDF [
	<!ENTITY fibo-fnd-utl-av "https://spec.edmcouncil.org/fibo/ontology/FND/Utilities/AnnotationVocabulary/">
	<!ENTITY owl "http://www.w3.org/2002/07/owl#">
	<!ENTITY rdf "http://www.w3.org/1999/02/22-rdf-syntax-ns#">
]>
<rdf:RDF xmlns:rdf="&rdf;" xmlns:owl="&owl;">
  <owl:Ontology rdf:about="&fibo-fnd-utl-av;"/>
</rdf:RDF>
`

func TestImportWithDTDEntitiesLoads(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"catalog-v001.xml": `<catalog xmlns="urn:oasis:names:tc:entity:xmlns:xml:catalog">
  <uri name="https://spec.edmcouncil.org/fibo/ontology/FND/Utilities/AnnotationVocabulary/" uri="FND/Utilities/AnnotationVocabulary.rdf"/>
</catalog>`,
		"FND/Utilities/AnnotationVocabulary.rdf": entityRDF,
		"root.ttl": `<https://ex.org/root> <http://www.w3.org/2002/07/owl#imports> <https://spec.edmcouncil.org/fibo/ontology/FND/Utilities/AnnotationVocabulary/> .`,
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	g, report, err := LoadGraphWithCatalog(filepath.Join(dir, "root.ttl"), filepath.Join(dir, "catalog-v001.xml"))
	require.NoError(t, err)

	require.Len(t, report.Outcomes, 1)
	assert.Equal(t, StatusLoaded, report.Outcomes[0].Status, report.Outcomes[0].Message)
	assert.Equal(t, "1/1", report.Summary())
	assert.Equal(t, 1, report.Outcomes[0].Triples)
	assert.Equal(t, 2, g.Len())
}

func TestMappedButMissingFileIsUnmapped(t *testing.T) {
	root := `<https://ex.org/root> <http://www.w3.org/2002/07/owl#imports> <https://ex.org/b/> .`
	f := newFixture(t, root)

	_, report, err := LoadGraphWithCatalog(f.root(), f.catalog)
	require.NoError(t, err)

	require.Len(t, report.Outcomes, 1)
	o := report.Outcomes[0]
	assert.Equal(t, StatusUnmapped, o.Status)
	assert.Equal(t, "b.rdf", filepath.Base(o.Path))
	assert.ErrorIs(t, o.Err, ErrImportUnmapped)
	assert.Equal(t, "0/1", report.Summary())
}

func TestBrokenImportDoesNotAbort(t *testing.T) {
	root := `@prefix owl: <http://www.w3.org/2002/07/owl#> .
<https://ex.org/root> owl:imports <https://ex.org/broken> , <https://ex.org/a/> .`
	f := newFixture(t, root)

	g, report, err := LoadGraphWithCatalog(f.root(), f.catalog)
	require.NoError(t, err)

	byURI := outcomesByURI(report)
	assert.Equal(t, StatusLoadError, byURI["https://ex.org/broken"].Status)
	assert.ErrorIs(t, byURI["https://ex.org/broken"].Err, ErrImportLoad)
	assert.NotEmpty(t, byURI["https://ex.org/broken"].Message)
	assert.Equal(t, StatusLoaded, byURI["https://ex.org/a/"].Status)
	assert.Equal(t, "1/2", report.Summary())
	assert.Equal(t, 4, g.Len())
}

func TestDiamondImportsDoNotDuplicateStatements(t *testing.T) {
	root := `@prefix owl: <http://www.w3.org/2002/07/owl#> .
<https://ex.org/root> owl:imports <https://ex.org/a> , <https://ex.org/alias> .`
	f := newFixture(t, root)

	g, report, err := LoadGraphWithCatalog(f.root(), f.catalog)
	require.NoError(t, err)

	assert.Equal(t, "2/2", report.Summary())
	outcomes := outcomesByURI(report)
	assert.Equal(t, 2, outcomes["https://ex.org/a"].Triples+outcomes["https://ex.org/alias"].Triples)
	assert.Equal(t, 4, g.Len())
}

type spyResolver struct {
	calls []string
	inner Resolver
}

func (s *spyResolver) Resolve(uri string) (string, bool) {
	s.calls = append(s.calls, uri)
	return s.inner.Resolve(uri)
}

func TestLegacyImportNeverResolved(t *testing.T) {
	f := newFixture(t, rootTTL)
	resolver, err := catalog.NewResolver(f.catalog)
	require.NoError(t, err)
	require.True(t, resolver.IsMapped("file://local/old.rdf"))

	spy := &spyResolver{inner: resolver}
	_, report, err := NewLoader(spy).LoadFile(f.root())
	require.NoError(t, err)

	assert.NotContains(t, spy.calls, "file://local/old.rdf")
	assert.Equal(t, StatusSkippedLegacy, outcomesByURI(report)["file://local/old.rdf"].Status)
}

func TestObserverSeesEveryOutcome(t *testing.T) {
	f := newFixture(t, rootTTL)

	var seen []Outcome
	_, report, err := LoadGraphWithCatalog(f.root(), f.catalog,
		WithObserver(ObserverFunc(func(o Outcome) { seen = append(seen, o) })))
	require.NoError(t, err)

	assert.Equal(t, report.Outcomes, seen)
}

func TestRecursiveFollowsImportsOnce(t *testing.T) {
	root := `@prefix owl: <http://www.w3.org/2002/07/owl#> .
<https://ex.org/root> owl:imports <https://ex.org/c> , <https://ex.org/a> .`
	f := newFixture(t, root)

	_, flat, err := LoadGraphWithCatalog(f.root(), f.catalog)
	require.NoError(t, err)
	assert.Equal(t, 2, flat.Total)

	g, report, err := LoadGraphWithCatalog(f.root(), f.catalog, WithRecursive(true))
	require.NoError(t, err)

	// c declares a/ (already loaded as a) and d/ (unmapped).
	byURI := outcomesByURI(report)
	assert.Equal(t, 4, report.Total)
	assert.Len(t, byURI, 4)
	assert.Equal(t, StatusLoaded, byURI["https://ex.org/a/"].Status)
	assert.Equal(t, "already loaded", byURI["https://ex.org/a/"].Message)
	assert.Equal(t, StatusUnmapped, byURI["https://ex.org/d/"].Status)
	assert.Equal(t, "3/4", report.Summary())
	assert.Equal(t, report.Triples, g.Len())
}

func TestWithFormats(t *testing.T) {
	dir := t.TempDir()
	catalogXML := `<catalog xmlns="urn:oasis:names:tc:entity:xmlns:xml:catalog">
  <uri name="https://ex.org/a" uri="a.ttl"/>
</catalog>`
	files := map[string]string{
		"catalog.xml": catalogXML,
		"root.nt":     "<https://ex.org/root> <http://www.w3.org/2002/07/owl#imports> <https://ex.org/a> .\n",
		"a.ttl":       "<https://ex.org/a> <http://www.w3.org/2000/01/rdf-schema#label> \"A\" .\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}

	g, report, err := LoadGraphWithCatalog(filepath.Join(dir, "root.nt"), filepath.Join(dir, "catalog.xml"),
		WithFormats(graph.FormatNTriples, graph.FormatTurtle))
	require.NoError(t, err)
	assert.Equal(t, "1/1", report.Summary())
	assert.Equal(t, 2, g.Len())
}

func TestLoadGraphWithCatalogErrors(t *testing.T) {
	f := newFixture(t, rootTTL)

	_, _, err := LoadGraphWithCatalog(f.root(), filepath.Join(f.dir, "nope.xml"))
	assert.ErrorIs(t, err, catalog.ErrCatalogNotFound)

	bad := filepath.Join(f.dir, "bad.xml")
	require.NoError(t, os.WriteFile(bad, []byte("<catalog>"), 0644))
	_, _, err = LoadGraphWithCatalog(f.root(), bad)
	assert.ErrorIs(t, err, catalog.ErrCatalogParse)

	g, report, err := LoadGraphWithCatalog(filepath.Join(f.dir, "absent.ttl"), f.catalog)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Nil(t, g)
	assert.Nil(t, report)
}

func TestNoImports(t *testing.T) {
	f := newFixture(t, `<https://ex.org/root> <http://www.w3.org/2000/01/rdf-schema#label> "x" .`)

	g, report, err := LoadGraphWithCatalog(f.root(), f.catalog)
	require.NoError(t, err)
	assert.Equal(t, "0/0", report.Summary())
	assert.Empty(t, report.Outcomes)
	assert.Equal(t, 1, g.Len())
	assert.Equal(t, Header{}, report.Ontology)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "loaded", StatusLoaded.String())
	assert.Equal(t, "skipped", StatusSkippedLegacy.String())
	assert.Equal(t, "unmapped", StatusUnmapped.String())
	assert.Equal(t, "error", StatusLoadError.String())
	assert.Equal(t, "unknown", Status(42).String())
}
