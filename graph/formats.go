package graph

import (
	"path/filepath"
	"strings"

	"github.com/knakk/rdf"
)

// Format specifies an RDF serialization format.
type Format string

const (
	// FormatTurtle is Turtle (.ttl), the serialization of root ontologies.
	FormatTurtle Format = "turtle"

	// FormatRDFXML is RDF/XML (.rdf, .owl), the serialization of imported ontologies.
	FormatRDFXML Format = "xml"

	// FormatNTriples is N-Triples (.nt).
	FormatNTriples Format = "ntriples"
)

// FormatInfo provides metadata about a serialization format.
type FormatInfo struct {
	// Name is the format identifier.
	Name Format

	// MIMEType is the standard MIME type.
	MIMEType string

	// Extensions are the file extensions (with dot) commonly used for the format.
	Extensions []string

	// Description describes the format.
	Description string

	codec rdf.Format
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatTurtle: {
		Name:        FormatTurtle,
		MIMEType:    "text/turtle",
		Extensions:  []string{".ttl"},
		Description: "Turtle - Terse RDF Triple Language",
		codec:       rdf.Turtle,
	},
	FormatRDFXML: {
		Name:        FormatRDFXML,
		MIMEType:    "application/rdf+xml",
		Extensions:  []string{".rdf", ".owl", ".xml"},
		Description: "RDF/XML - XML syntax for RDF",
		codec:       rdf.RDFXML,
	},
	FormatNTriples: {
		Name:        FormatNTriples,
		MIMEType:    "application/n-triples",
		Extensions:  []string{".nt"},
		Description: "N-Triples - Line-based RDF format",
		codec:       rdf.NTriples,
	},
}

// GetFormatInfo returns metadata for a format.
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

// ParseFormat maps a user supplied name to a Format. Both the canonical
// names and common aliases ("ttl", "rdfxml", "rdf", "owl", "nt") are accepted.
func ParseFormat(name string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "turtle", "ttl":
		return FormatTurtle, true
	case "xml", "rdfxml", "rdf/xml", "rdf", "owl":
		return FormatRDFXML, true
	case "ntriples", "n-triples", "nt":
		return FormatNTriples, true
	}
	return "", false
}

// FormatForPath guesses the format of a file from its extension.
func FormatForPath(path string) (Format, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	for name, info := range FormatRegistry {
		for _, e := range info.Extensions {
			if e == ext {
				return name, true
			}
		}
	}
	return "", false
}
