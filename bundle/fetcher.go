package bundle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Config configures a Fetcher.
type Config struct {
	// APIURL is the GitHub "latest release" endpoint,
	// e.g. https://api.github.com/repos/edmcouncil/fibo/releases/latest.
	APIURL string

	// TargetDir receives the extracted files and the metadata file.
	TargetDir string

	// Patterns select archive entries to extract. Defaults to DefaultPatterns.
	Patterns []string

	Timeout   time.Duration
	MaxSize   int64
	UserAgent string

	// Descriptive fields copied into the metadata file.
	Source    string
	Publisher string
	License   string
	Homepage  string

	// AllowInsecure disables the HTTPS and public-address checks. Tests only.
	AllowInsecure bool

	// Force downloads even when the target already holds the latest version.
	Force bool
}

// Validate checks that the required fields are set.
func (c Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("api url is required")
	}
	if c.TargetDir == "" {
		return fmt.Errorf("target dir is required")
	}
	if !c.AllowInsecure {
		if err := ValidateURL(c.APIURL); err != nil {
			return err
		}
	}
	return nil
}

// Result describes a completed fetch.
type Result struct {
	Release      *Release
	Files        []string
	MetadataPath string
	Metadata     Metadata

	// UpToDate is set when the target already held the latest release and
	// nothing was downloaded.
	UpToDate bool
}

// Fetcher downloads ontology bundles.
type Fetcher struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithLogger sets the fetcher's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// NewFetcher validates cfg and creates a fetcher.
func NewFetcher(cfg Config, opts ...Option) (*Fetcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid bundle config: %w", err)
	}
	if len(cfg.Patterns) == 0 {
		cfg.Patterns = DefaultPatterns
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Minute
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = 1 << 30
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "semcatalog"
	}

	f := &Fetcher{
		cfg:    cfg,
		client: newClient(cfg),
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// newClient builds an HTTP client that re-checks resolved addresses and
// redirect targets unless the config allows insecure URLs.
func newClient(cfg Config) *http.Client {
	if cfg.AllowInsecure {
		return &http.Client{Timeout: cfg.Timeout}
	}

	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	// Validate resolved IPs to prevent DNS rebinding.
	safeDialContext := func(ctx context.Context, network, addr string) (net.Conn, error) {
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid address: %w", err)
		}

		ips, err := net.DefaultResolver.LookupIPAddr(ctx, host)
		if err != nil {
			return nil, fmt.Errorf("DNS lookup failed: %w", err)
		}
		for _, ipAddr := range ips {
			if IsPrivateIP(ipAddr.IP) {
				return nil, fmt.Errorf("%w: connection to private IP %s", ErrUnsafeURL, ipAddr.IP)
			}
		}

		for _, ipAddr := range ips {
			conn, err := dialer.DialContext(ctx, network, net.JoinHostPort(ipAddr.IP.String(), port))
			if err == nil {
				return conn, nil
			}
		}
		return nil, fmt.Errorf("failed to connect to any resolved IP")
	}

	return &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			DialContext:         safeDialContext,
			TLSHandshakeTimeout: 10 * time.Second,
			MaxIdleConns:        10,
			IdleConnTimeout:     90 * time.Second,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 5 {
				return fmt.Errorf("too many redirects (max 5)")
			}
			if err := ValidateURL(req.URL.String()); err != nil {
				return fmt.Errorf("redirect blocked: %w", err)
			}
			return nil
		},
	}
}

// LatestRelease queries the release endpoint.
func (f *Fetcher) LatestRelease(ctx context.Context) (*Release, error) {
	resp, err := f.get(ctx, f.cfg.APIURL, "application/vnd.github+json")
	if err != nil {
		return nil, fmt.Errorf("fetch release: %w", err)
	}
	defer resp.Body.Close()

	var release Release
	if err := json.NewDecoder(io.LimitReader(resp.Body, 10<<20)).Decode(&release); err != nil {
		return nil, fmt.Errorf("decode release: %w", err)
	}
	return &release, nil
}

// Fetch downloads the latest release archive, extracts the ontology files
// into the target directory, writes the metadata file and removes the archive.
func (f *Fetcher) Fetch(ctx context.Context) (*Result, error) {
	if err := os.MkdirAll(f.cfg.TargetDir, 0755); err != nil {
		return nil, fmt.Errorf("create target dir: %w", err)
	}

	release, err := f.LatestRelease(ctx)
	if err != nil {
		return nil, err
	}
	f.logger.Info("Found release", "version", release.Version(), "name", release.Name)

	metaPath := filepath.Join(f.cfg.TargetDir, MetadataFile)
	if !f.cfg.Force {
		if existing, err := ReadMetadata(metaPath); err == nil && existing.Version == release.Version() {
			f.logger.Info("Bundle is up to date", "version", existing.Version, "target", f.cfg.TargetDir)
			return &Result{
				Release:      release,
				MetadataPath: metaPath,
				Metadata:     *existing,
				UpToDate:     true,
			}, nil
		}
	}

	downloadURL, err := release.DownloadURL()
	if err != nil {
		return nil, err
	}

	archive := filepath.Join(f.cfg.TargetDir, fmt.Sprintf(".bundle-%s.zip", uuid.New().String()))
	defer os.Remove(archive)

	size, err := f.download(ctx, downloadURL, archive)
	if err != nil {
		return nil, err
	}
	f.logger.Info("Downloaded release archive", "url", downloadURL, "bytes", size)

	files, err := Extract(archive, f.cfg.TargetDir, f.cfg.Patterns, f.cfg.MaxSize)
	if err != nil {
		return nil, err
	}
	f.logger.Info("Extracted ontology files", "count", len(files), "target", f.cfg.TargetDir)

	meta := Metadata{
		Source:       f.cfg.Source,
		Publisher:    f.cfg.Publisher,
		DownloadDate: f.now().UTC(),
		Version:      release.Version(),
		ReleaseName:  release.Name,
		ReleaseURL:   release.HTMLURL,
		License:      f.cfg.License,
		Homepage:     f.cfg.Homepage,
	}
	metaPath, err = WriteMetadata(f.cfg.TargetDir, meta)
	if err != nil {
		return nil, err
	}

	return &Result{
		Release:      release,
		Files:        files,
		MetadataPath: metaPath,
		Metadata:     meta,
	}, nil
}

// download streams url into dest, enforcing the size limit.
func (f *Fetcher) download(ctx context.Context, url, dest string) (int64, error) {
	resp, err := f.get(ctx, url, "application/zip, application/octet-stream")
	if err != nil {
		return 0, fmt.Errorf("download archive: %w", err)
	}
	defer resp.Body.Close()

	out, err := os.Create(dest)
	if err != nil {
		return 0, fmt.Errorf("create archive file: %w", err)
	}

	n, err := io.Copy(out, io.LimitReader(resp.Body, f.cfg.MaxSize+1))
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return n, fmt.Errorf("write archive: %w", err)
	}
	if n > f.cfg.MaxSize {
		return n, fmt.Errorf("%w (%d bytes)", ErrTooLarge, f.cfg.MaxSize)
	}
	return n, nil
}

// get issues a GET and returns the response if the status is 200.
func (f *Fetcher) get(ctx context.Context, url, accept string) (*http.Response, error) {
	if !f.cfg.AllowInsecure {
		if err := ValidateURL(url); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", accept)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return resp, nil
}
