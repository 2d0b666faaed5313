package ontology

// Standard namespaces.
const (
	RDFNamespace  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNamespace = "http://www.w3.org/2000/01/rdf-schema#"
	OWLNamespace  = "http://www.w3.org/2002/07/owl#"
	DCNamespace   = "http://purl.org/dc/terms/"
)

// OWL and RDF IRIs used by the import loader.
const (
	// RDFType is rdf:type.
	RDFType = RDFNamespace + "type"

	// OWLOntology is the class of ontology headers.
	OWLOntology = OWLNamespace + "Ontology"

	// OWLImports declares that one ontology includes another.
	// Domain: owl:Ontology, Range: ontology IRI
	OWLImports = OWLNamespace + "imports"

	// OWLVersionIRI identifies a specific version of an ontology.
	OWLVersionIRI = OWLNamespace + "versionIRI"

	// OWLVersionInfo is a free text version annotation.
	OWLVersionInfo = OWLNamespace + "versionInfo"
)
