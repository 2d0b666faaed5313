// Package report renders import load reports and catalog validations for
// people (text) or tools (JSON).
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/c360studio/semcatalog/catalog"
	"github.com/c360studio/semcatalog/imports"
)

// Format selects a renderer.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Renderer writes reports to an output stream.
type Renderer interface {
	Load(r *imports.Report) error
	Validation(v *catalog.Validation) error
}

// New returns the renderer for format writing to w.
func New(format Format, w io.Writer) (Renderer, error) {
	switch format {
	case FormatText, "":
		return NewText(w), nil
	case FormatJSON:
		return &JSON{w: w}, nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

// Text renders human readable status lines. Colors are only emitted when w
// is a terminal.
type Text struct {
	w    io.Writer
	ok   lipgloss.Style
	warn lipgloss.Style
	bad  lipgloss.Style
	dim  lipgloss.Style
}

// NewText creates a text renderer.
func NewText(w io.Writer) *Text {
	r := lipgloss.NewRenderer(w)
	return &Text{
		w:    w,
		ok:   r.NewStyle().Foreground(lipgloss.Color("2")),
		warn: r.NewStyle().Foreground(lipgloss.Color("3")),
		bad:  r.NewStyle().Foreground(lipgloss.Color("1")),
		dim:  r.NewStyle().Faint(true),
	}
}

// Outcome writes the lines for a single import outcome.
func (t *Text) Outcome(o imports.Outcome) error {
	var err error
	switch o.Status {
	case imports.StatusLoaded:
		_, err = fmt.Fprintf(t.w, "%s Loaded import: %s\n  %s\n", t.ok.Render("✓"), o.URI, t.dim.Render("→ "+o.Path))
	case imports.StatusSkippedLegacy:
		_, err = fmt.Fprintf(t.w, "%s Skipping file:// import (use catalog instead): %s\n", t.warn.Render("⚠"), o.URI)
	case imports.StatusUnmapped:
		if o.Path != "" {
			_, err = fmt.Fprintf(t.w, "%s No catalog mapping for: %s\n  %s\n", t.warn.Render("⚠"), o.URI, t.dim.Render("→ "+o.Path+" (NOT FOUND)"))
		} else {
			_, err = fmt.Fprintf(t.w, "%s No catalog mapping for: %s\n", t.warn.Render("⚠"), o.URI)
		}
	case imports.StatusLoadError:
		_, err = fmt.Fprintf(t.w, "%s Error loading %s: %s\n", t.bad.Render("✗"), o.Path, o.Message)
	}
	return err
}

// Load writes the ontology header, every outcome and the loaded/total tally.
func (t *Text) Load(r *imports.Report) error {
	if err := t.header(r.Ontology); err != nil {
		return err
	}
	for _, o := range r.Outcomes {
		if err := t.Outcome(o); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(t.w, "\nLoaded %s imports via catalog (%d triples)\n", r.Summary(), r.Triples)
	return err
}

func (t *Text) header(h imports.Header) error {
	if h.IRI == "" {
		return nil
	}
	line := "Ontology: " + h.IRI
	if h.Title != "" {
		line += " (" + h.Title + ")"
	}
	if h.VersionInfo != "" {
		line += " version " + h.VersionInfo
	} else if h.VersionIRI != "" {
		line += " version " + h.VersionIRI
	}
	_, err := fmt.Fprintf(t.w, "%s\n\n", line)
	return err
}

// Validation writes one line pair per mapping key and a summary.
func (t *Text) Validation(v *catalog.Validation) error {
	for _, res := range v.Results {
		var err error
		if res.Exists {
			_, err = fmt.Fprintf(t.w, "%s %s\n  %s\n", t.ok.Render("✓"), res.URI, t.dim.Render("→ "+res.Path))
		} else {
			_, err = fmt.Fprintf(t.w, "%s %s\n  %s\n", t.bad.Render("✗"), res.URI, t.dim.Render("→ "+res.Path+" (NOT FOUND)"))
		}
		if err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(t.w, "\nValid mappings:   %d\nInvalid mappings: %d\n", v.Valid(), v.Invalid())
	return err
}

// JSON renders reports as indented JSON documents.
type JSON struct {
	w io.Writer
}

type validationDoc struct {
	*catalog.Validation
	Valid   int  `json:"valid"`
	Invalid int  `json:"invalid"`
	OK      bool `json:"ok"`
}

// Load encodes the report.
func (j *JSON) Load(r *imports.Report) error {
	return j.encode(r)
}

// Validation encodes the validation with its counts.
func (j *JSON) Validation(v *catalog.Validation) error {
	return j.encode(validationDoc{
		Validation: v,
		Valid:      v.Valid(),
		Invalid:    v.Invalid(),
		OK:         v.OK(),
	})
}

func (j *JSON) encode(v any) error {
	enc := json.NewEncoder(j.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
