// Package ontology provides vocabulary predicates and standard IRIs used when
// loading ontologies and their imports.
//
// The dotted predicate names are registered with the semstreams vocabulary
// registry, each pointing at its W3C IRI. Import this package to
// auto-register them:
//
//	import _ "github.com/c360studio/semcatalog/vocabulary/ontology"
package ontology
