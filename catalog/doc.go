// Package catalog resolves ontology URIs to local files through an OASIS XML
// catalog.
//
// A Resolver is built once from a catalog file and is read-only afterwards,
// so it can be shared between goroutines. Each catalog uri entry is stored
// under both its slash-terminated and its bare form, and lookups fall back
// across the two, because ontology tooling writes the same IRI both ways.
//
// Only direct uri children of the catalog root are honoured. nextCatalog,
// rewriteURI and delegation entries are ignored.
package catalog
