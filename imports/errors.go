package imports

import "errors"

// Per-import errors recorded in Outcome.Err. They are never returned by the
// loader itself.
var (
	// ErrImportUnmapped means the import has no catalog entry or its file is missing.
	ErrImportUnmapped = errors.New("import unmapped")

	// ErrImportLoad means the mapped file exists but failed to parse.
	ErrImportLoad = errors.New("import load failed")
)
