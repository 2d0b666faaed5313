package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/c360studio/semcatalog/bundle"
	"github.com/c360studio/semcatalog/catalog"
	"github.com/c360studio/semcatalog/config"
	"github.com/c360studio/semcatalog/imports"
	"github.com/c360studio/semcatalog/metrics"
	"github.com/c360studio/semcatalog/report"
)

var (
	errInvalidMappings = errors.New("catalog has mappings to missing files")
	errUnmappedURIs    = errors.New("some URIs have no catalog mapping")
)

// App holds the state shared by the subcommands.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	out     io.Writer
	metrics *metrics.Metrics
}

// NewApp creates an App writing command output to out.
func NewApp(cfg *config.Config, logger *slog.Logger, out io.Writer) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		cfg:     cfg,
		logger:  logger,
		out:     out,
		metrics: metrics.New(),
	}
}

// Validate checks every mapping of the catalog at path. It returns
// errInvalidMappings when any mapping points at a missing file.
func (a *App) Validate(path string, format report.Format) error {
	resolver, err := catalog.NewResolver(path, catalog.WithLogger(a.logger))
	if err != nil {
		return err
	}

	v := catalog.Validate(resolver)
	a.metrics.RecordValidation(v)

	r, err := report.New(format, a.out)
	if err != nil {
		return err
	}
	if err := r.Validation(v); err != nil {
		return fmt.Errorf("render validation: %w", err)
	}

	if !v.OK() {
		return fmt.Errorf("%w: %d of %d", errInvalidMappings, v.Invalid(), len(v.Results))
	}
	return nil
}

// Load parses the ontology and loads its imports through the catalog.
// Failed imports are reported, not returned. When output is set the merged
// graph is written there.
func (a *App) Load(ontologyPath, catalogPath, output string, format report.Format) error {
	r, err := report.New(format, a.out)
	if err != nil {
		return err
	}

	rootFormat, importFormat, err := a.cfg.Formats()
	if err != nil {
		return err
	}

	resolver, err := catalog.NewResolver(catalogPath, catalog.WithLogger(a.logger))
	if err != nil {
		return err
	}

	loader := imports.NewLoader(resolver,
		imports.WithFormats(rootFormat, importFormat),
		imports.WithRecursive(a.cfg.Loader.Recursive),
		imports.WithObserver(a.metrics),
		imports.WithLogger(a.logger))

	g, rep, err := loader.LoadFile(ontologyPath)
	if err != nil {
		return err
	}
	a.metrics.RecordReport(rep)

	if err := r.Load(rep); err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	if output != "" {
		if err := g.WriteFile(output, ""); err != nil {
			return fmt.Errorf("write merged graph: %w", err)
		}
		a.logger.Info("Wrote merged graph", "path", output, "triples", g.Len())
	}
	return nil
}

// Resolve prints the local path of each URI. It returns errUnmappedURIs
// when any URI has no mapping.
func (a *App) Resolve(catalogPath string, uris []string) error {
	resolver, err := catalog.NewResolver(catalogPath, catalog.WithLogger(a.logger))
	if err != nil {
		return err
	}

	missing := 0
	for _, uri := range uris {
		path, ok := resolver.Resolve(uri)
		if !ok {
			missing++
			path = "(unmapped)"
		}
		if _, err := fmt.Fprintf(a.out, "%s %s\n", uri, path); err != nil {
			return err
		}
	}

	if missing > 0 {
		return fmt.Errorf("%w: %d of %d", errUnmappedURIs, missing, len(uris))
	}
	return nil
}

// Fetch downloads the latest release bundle into the configured directory.
// Unless force is set, nothing is downloaded when the directory already
// holds the latest version.
func (a *App) Fetch(ctx context.Context, force bool) error {
	cfg := a.cfg.ToBundleConfig()
	cfg.Force = force
	fetcher, err := bundle.NewFetcher(cfg, bundle.WithLogger(a.logger))
	if err != nil {
		return err
	}

	res, err := fetcher.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetch bundle: %w", err)
	}

	if res.UpToDate {
		_, err = fmt.Fprintf(a.out, "Already up to date: %s in %s (downloaded %s)\n",
			res.Metadata.Version, cfg.TargetDir, res.Metadata.DownloadDate.Format("2006-01-02"))
		return err
	}
	_, err = fmt.Fprintf(a.out, "Fetched %s: %d files into %s\nMetadata: %s\n",
		res.Metadata.Version, len(res.Files), cfg.TargetDir, res.MetadataPath)
	return err
}

// List prints the accepted catalog entries in document order.
func (a *App) List(catalogPath string) error {
	resolver, err := catalog.NewResolver(catalogPath, catalog.WithLogger(a.logger))
	if err != nil {
		return err
	}

	for _, e := range resolver.Entries() {
		if _, err := fmt.Fprintf(a.out, "%s\n  → %s\n", e.Name, e.Path); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(a.out, "\n%d entries, %d mapping keys\n", len(resolver.Entries()), resolver.Len())
	return err
}

// finish writes the metrics textfile, when one is configured, after a
// command has run whether or not it failed.
func (a *App) finish(err error) error {
	if a.cfg.Metrics.Textfile == "" {
		return err
	}
	return errors.Join(err, a.metrics.WriteTextfile(a.cfg.Metrics.Textfile))
}
