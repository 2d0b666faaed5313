package graph

import (
	"bytes"
	"regexp"
	"strings"
)

var (
	doctypePattern = regexp.MustCompile(`(?s)<!DOCTYPE\s[^\[>]*(?:\[(.*?)\])?\s*>`)
	entityPattern  = regexp.MustCompile(`<!ENTITY\s+([A-Za-z_][\w.\-]*)\s+(?:"([^"]*)"|'([^']*)')\s*>`)
)

// predefinedEntities are expanded by the XML decoder itself.
var predefinedEntities = map[string]bool{
	"amp": true, "lt": true, "gt": true, "apos": true, "quot": true,
}

// expandEntities replaces references to general entities declared in the
// internal DTD subset and removes the DOCTYPE. RDF/XML exported by ontology
// editors declares namespace entities there (rdf:about="&owl;Thing"), which
// the decoder cannot expand. Documents without a DOCTYPE are returned as is.
func expandEntities(doc []byte) []byte {
	loc := doctypePattern.FindSubmatchIndex(doc)
	if loc == nil {
		return doc
	}

	var pairs []string
	if loc[2] >= 0 {
		subset := string(doc[loc[2]:loc[3]])
		var replacer *strings.Replacer
		for _, m := range entityPattern.FindAllStringSubmatch(subset, -1) {
			name, value := m[1], m[2]
			if value == "" {
				value = m[3]
			}
			if predefinedEntities[name] {
				continue
			}
			// Values may refer to entities declared before them.
			if replacer != nil {
				value = replacer.Replace(value)
			}
			pairs = append(pairs, "&"+name+";", value)
			replacer = strings.NewReplacer(pairs...)
		}
	}

	// Keep the line count so decoder errors point at the right line.
	doctype := doc[loc[0]:loc[1]]
	var out bytes.Buffer
	out.Grow(len(doc))
	out.Write(doc[:loc[0]])
	out.WriteString(strings.Repeat("\n", bytes.Count(doctype, []byte("\n"))))

	body := string(doc[loc[1]:])
	if len(pairs) > 0 {
		body = strings.NewReplacer(pairs...).Replace(body)
	}
	out.WriteString(body)
	return out.Bytes()
}
