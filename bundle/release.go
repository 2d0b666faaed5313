package bundle

import (
	"strings"
)

// Release is the subset of the GitHub release API response used here.
type Release struct {
	TagName    string  `json:"tag_name"`
	Name       string  `json:"name"`
	HTMLURL    string  `json:"html_url"`
	ZipballURL string  `json:"zipball_url"`
	Assets     []Asset `json:"assets"`
}

// Asset is a file attached to a release.
type Asset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// Version returns the release tag, or "unknown" when the release has none.
func (r *Release) Version() string {
	if r.TagName == "" {
		return "unknown"
	}
	return r.TagName
}

// DownloadURL returns the source zipball URL, falling back to the first
// asset whose name ends in .zip.
func (r *Release) DownloadURL() (string, error) {
	if r.ZipballURL != "" {
		return r.ZipballURL, nil
	}
	for _, a := range r.Assets {
		if strings.HasSuffix(strings.ToLower(a.Name), ".zip") && a.BrowserDownloadURL != "" {
			return a.BrowserDownloadURL, nil
		}
	}
	return "", ErrNoDownloadURL
}
