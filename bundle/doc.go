// Package bundle downloads a versioned ontology bundle from a GitHub release
// and extracts its ontology files into a target directory.
//
// The release endpoint and the target directory are always supplied by the
// caller. A plain-text METADATA.txt describing the release is written next to
// the extracted files.
//
// Interrupted downloads are not resumed and failed requests are not retried.
package bundle
