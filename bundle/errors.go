package bundle

import "errors"

var (
	// ErrNoDownloadURL is returned when a release has neither a zipball nor a .zip asset.
	ErrNoDownloadURL = errors.New("no download URL in release")

	// ErrUnsafeURL is returned for URLs rejected by the URL guard.
	ErrUnsafeURL = errors.New("unsafe URL")

	// ErrTooLarge is returned when a download or its extracted contents exceed
	// the configured size limit.
	ErrTooLarge = errors.New("bundle exceeds size limit")

	// ErrUnsafeArchivePath is returned for archive entries that escape the target directory.
	ErrUnsafeArchivePath = errors.New("archive entry escapes target directory")
)
