package catalog

import (
	"os"
	"sort"
)

// Result is the validation outcome of one mapping key.
type Result struct {
	URI    string `json:"uri"`
	Path   string `json:"path"`
	Exists bool   `json:"exists"`
}

// Validation holds the outcome of checking every mapping of a catalog.
type Validation struct {
	Catalog string   `json:"catalog"`
	Results []Result `json:"results"`
}

// Validate checks that every key of the resolver's mapping points to an
// existing file. Both slash variants of an entry are reported separately.
// Results are sorted by URI.
func Validate(r *Resolver) *Validation {
	mappings := r.AllMappings()
	v := &Validation{
		Catalog: r.Path(),
		Results: make([]Result, 0, len(mappings)),
	}
	for uri, path := range mappings {
		v.Results = append(v.Results, Result{URI: uri, Path: path, Exists: exists(path)})
	}
	sort.Slice(v.Results, func(i, j int) bool {
		return v.Results[i].URI < v.Results[j].URI
	})
	return v
}

// ValidateCatalog builds a resolver for the catalog at path and returns a
// URI to file-existence map. Only resolver construction errors are returned;
// missing files are reported as false.
func ValidateCatalog(path string) (map[string]bool, error) {
	r, err := NewResolver(path)
	if err != nil {
		return nil, err
	}
	v := Validate(r)
	out := make(map[string]bool, len(v.Results))
	for _, res := range v.Results {
		out[res.URI] = res.Exists
	}
	return out, nil
}

// Valid returns the number of mappings whose file exists.
func (v *Validation) Valid() int {
	n := 0
	for _, r := range v.Results {
		if r.Exists {
			n++
		}
	}
	return n
}

// Invalid returns the number of mappings whose file is missing.
func (v *Validation) Invalid() int {
	return len(v.Results) - v.Valid()
}

// OK reports whether every mapping points to an existing file.
func (v *Validation) OK() bool {
	return v.Invalid() == 0
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
