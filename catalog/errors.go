package catalog

import (
	"errors"
	"fmt"
)

// Sentinel errors for resolver construction.
var (
	// ErrCatalogNotFound is returned when the catalog file does not exist.
	ErrCatalogNotFound = errors.New("catalog not found")

	// ErrCatalogParse is returned when the catalog file is not well-formed XML.
	ErrCatalogParse = errors.New("catalog parse error")
)

// NotFoundError reports a catalog path that does not exist.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("catalog not found: %s", e.Path)
}

// Unwrap returns the underlying stat error.
func (e *NotFoundError) Unwrap() error { return e.Err }

// Is matches ErrCatalogNotFound.
func (e *NotFoundError) Is(target error) bool { return target == ErrCatalogNotFound }

// ParseError reports a catalog file that could not be decoded.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse catalog %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying decoder error.
func (e *ParseError) Unwrap() error { return e.Err }

// Is matches ErrCatalogParse.
func (e *ParseError) Is(target error) bool { return target == ErrCatalogParse }
