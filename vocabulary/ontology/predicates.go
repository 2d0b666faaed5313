package ontology

import "github.com/c360studio/semstreams/vocabulary"

// Ontology header predicates.
const (
	// Imports links an ontology to an ontology it imports.
	Imports = "ontology.header.imports"

	// VersionIRI is the versioned IRI of the ontology.
	VersionIRI = "ontology.header.version_iri"

	// VersionInfo is the free text version annotation.
	VersionInfo = "ontology.header.version_info"

	// Title is the ontology title.
	Title = "ontology.header.title"

	// Label is the ontology label, used when no title is present.
	Label = "ontology.header.label"
)

func init() {
	vocabulary.Register(Imports,
		vocabulary.WithDescription("Ontology imported by this ontology"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(OWLImports))

	vocabulary.Register(VersionIRI,
		vocabulary.WithDescription("Versioned IRI of the ontology"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(OWLVersionIRI))

	vocabulary.Register(VersionInfo,
		vocabulary.WithDescription("Free text version annotation"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(OWLVersionInfo))

	vocabulary.Register(Title,
		vocabulary.WithDescription("Ontology title"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(vocabulary.DcTitle))

	vocabulary.Register(Label,
		vocabulary.WithDescription("Human readable ontology label"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(vocabulary.RdfsLabel))
}

// IRI returns the standard IRI registered for a dotted predicate name.
// Returns an empty string if the predicate is unknown or has no IRI.
func IRI(predicate string) string {
	meta := vocabulary.GetPredicateMetadata(predicate)
	if meta == nil {
		return ""
	}
	return meta.StandardIRI
}
