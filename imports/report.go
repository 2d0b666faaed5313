package imports

import (
	"encoding/json"
	"fmt"
)

// Status is the outcome of processing one import.
type Status int

const (
	// StatusLoaded means the import was parsed into the graph.
	StatusLoaded Status = iota
	// StatusSkippedLegacy means the import uses a file:// IRI and was ignored.
	StatusSkippedLegacy
	// StatusUnmapped means no catalog entry or no file exists for the import.
	StatusUnmapped
	// StatusLoadError means the mapped file failed to parse.
	StatusLoadError
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusLoaded:
		return "loaded"
	case StatusSkippedLegacy:
		return "skipped"
	case StatusUnmapped:
		return "unmapped"
	case StatusLoadError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Outcome records what happened to one import.
type Outcome struct {
	// URI is the import IRI as declared.
	URI string `json:"uri"`

	Status Status `json:"status"`

	// Path is the resolved local path, empty when the import was not resolved.
	Path string `json:"path,omitempty"`

	// Message is a human readable explanation.
	Message string `json:"message"`

	// Triples is the number of new statements the import added.
	Triples int `json:"triples,omitempty"`

	// Err wraps ErrImportUnmapped or ErrImportLoad for failed imports.
	Err error `json:"-"`
}

// MarshalJSON adds the error text to the encoded outcome.
func (o Outcome) MarshalJSON() ([]byte, error) {
	type alias Outcome
	out := struct {
		alias
		Error string `json:"error,omitempty"`
	}{alias: alias(o)}
	if o.Err != nil {
		out.Error = o.Err.Error()
	}
	return json.Marshal(out)
}

// Header describes the root ontology.
type Header struct {
	IRI        string `json:"iri,omitempty"`
	Title      string `json:"title,omitempty"`
	VersionIRI string `json:"version_iri,omitempty"`
	// VersionInfo is the owl:versionInfo annotation, if any.
	VersionInfo string `json:"version_info,omitempty"`
}

// Report summarises an import loading run.
type Report struct {
	// RunID identifies the run in logs and metrics.
	RunID string `json:"run_id"`

	// Root is the path of the root ontology, if it was loaded from a file.
	Root string `json:"root,omitempty"`

	Ontology Header `json:"ontology"`

	// Outcomes has exactly one entry per discovered import.
	Outcomes []Outcome `json:"outcomes"`

	// Loaded counts StatusLoaded outcomes.
	Loaded int `json:"loaded"`

	// Total counts discovered imports.
	Total int `json:"total"`

	// Triples is the size of the graph after loading.
	Triples int `json:"triples"`
}

// Count returns the number of outcomes with the given status.
func (r *Report) Count(status Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// Summary returns "loaded/total".
func (r *Report) Summary() string {
	return fmt.Sprintf("%d/%d", r.Loaded, r.Total)
}

func (r *Report) record(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
	r.Total++
	if o.Status == StatusLoaded {
		r.Loaded++
	}
}
