package bundle

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPatterns select the ontology serializations kept from a bundle.
var DefaultPatterns = []string{
	"**/*.rdf",
	"**/*.ttl",
	"**/*.owl",
	"**/*.n3",
	"**/*.jsonld",
}

// matchAny reports whether name matches one of the patterns. Matching is
// case-insensitive.
func matchAny(patterns []string, name string) bool {
	lower := strings.ToLower(name)
	for _, p := range patterns {
		if ok, err := doublestar.Match(strings.ToLower(p), lower); err == nil && ok {
			return true
		}
	}
	return false
}

// Extract copies the archive entries matching patterns into dir, preserving
// their relative paths. It returns the extracted paths relative to dir.
// The decompressed size of all extracted entries is capped at maxSize bytes;
// maxSize <= 0 means no limit.
func Extract(archivePath, dir string, patterns []string, maxSize int64) ([]string, error) {
	zr, err := zip.OpenReader(archivePath)
	if errors.Is(err, zip.ErrInsecurePath) {
		if zr != nil {
			zr.Close()
		}
		return nil, fmt.Errorf("%w: %v", ErrUnsafeArchivePath, err)
	}
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()

	budget := maxSize
	var extracted []string
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !matchAny(patterns, f.Name) {
			continue
		}

		dest, err := safeJoin(dir, f.Name)
		if err != nil {
			return extracted, err
		}
		n, err := extractFile(f, dest, budget, maxSize > 0)
		if err != nil {
			return extracted, fmt.Errorf("extract %s: %w", f.Name, err)
		}
		budget -= n
		extracted = append(extracted, f.Name)
	}
	return extracted, nil
}

// safeJoin joins an archive entry name onto dir, rejecting names that would
// land outside dir.
func safeJoin(dir, name string) (string, error) {
	dest := filepath.Join(dir, filepath.FromSlash(name))
	rel, err := filepath.Rel(dir, dest)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", fmt.Errorf("%w: %s", ErrUnsafeArchivePath, name)
	}
	return dest, nil
}

func extractFile(f *zip.File, dest string, budget int64, limited bool) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return 0, err
	}

	rc, err := f.Open()
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	var src io.Reader = rc
	if limited {
		src = io.LimitReader(rc, budget+1)
	}

	out, err := os.Create(dest)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(out, src)
	if err != nil {
		out.Close()
		return n, err
	}
	if err := out.Close(); err != nil {
		return n, err
	}
	if limited && n > budget {
		os.Remove(dest)
		return n, fmt.Errorf("%w: extracted contents exceed %d bytes", ErrTooLarge, budget)
	}
	return n, nil
}
