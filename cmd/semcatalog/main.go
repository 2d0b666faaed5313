// Package main provides the semcatalog binary entry point.
// Semcatalog resolves ontology imports through an OASIS XML catalog,
// validates catalog mappings and fetches released ontology bundles.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/c360studio/semcatalog/config"
	"github.com/c360studio/semcatalog/report"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "semcatalog"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath  string
		logLevel    string
		metricsFile string
		app         *App
	)

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Ontology XML catalog resolver",
		Long: `Semcatalog resolves owl:imports of an ontology to local files using an
OASIS XML catalog (catalog-v001.xml).

It provides:
- Import loading with per-import status reporting
- Catalog validation (every mapping must point at an existing file)
- URI resolution lookups
- Fetching of released ontology bundles with download metadata`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(logLevel, cmd.ErrOrStderr())
			slog.SetDefault(logger)

			cfg, err := config.NewLoader(logger).Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if metricsFile != "" {
				cfg.Metrics.Textfile = metricsFile
			}

			app = NewApp(cfg, logger, cmd.OutOrStdout())
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile")

	appFn := func() *App { return app }
	cmd.AddCommand(
		validateCmd(appFn),
		loadCmd(appFn),
		resolveCmd(appFn),
		listCmd(appFn),
		fetchCmd(appFn),
		configCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
				return nil
			},
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
			},
		},
	)

	return cmd
}

func validateCmd(app func() *App) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "validate [catalog]",
		Short: "Check that every catalog mapping points at an existing file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			path := a.cfg.Catalog.Path
			if len(args) == 1 {
				path = args[0]
			}
			return a.finish(a.Validate(path, report.Format(format)))
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format (text, json)")
	return cmd
}

func loadCmd(app func() *App) *cobra.Command {
	var (
		catalogPath string
		output      string
		recursive   bool
		format      string
	)

	cmd := &cobra.Command{
		Use:   "load [ontology]",
		Short: "Load an ontology and its imports through the catalog",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			ontologyPath := a.cfg.Ontology.Path
			if len(args) == 1 {
				ontologyPath = args[0]
			}
			if ontologyPath == "" {
				return errors.New("no ontology given: pass a path or set ontology.path")
			}
			if catalogPath == "" {
				catalogPath = a.cfg.Catalog.Path
			}
			if cmd.Flags().Changed("recursive") {
				a.cfg.Loader.Recursive = recursive
			}
			return a.finish(a.Load(ontologyPath, catalogPath, output, report.Format(format)))
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Catalog file (default from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the merged graph (.nt or .ttl)")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Follow imports declared by imported files")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format (text, json)")
	return cmd
}

func resolveCmd(app func() *App) *cobra.Command {
	var catalogPath string

	cmd := &cobra.Command{
		Use:   "resolve <uri>...",
		Short: "Print the local path each URI maps to",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if catalogPath == "" {
				catalogPath = a.cfg.Catalog.Path
			}
			return a.finish(a.Resolve(catalogPath, args))
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Catalog file (default from config)")
	return cmd
}

func listCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list [catalog]",
		Short: "List catalog entries in document order",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			path := a.cfg.Catalog.Path
			if len(args) == 1 {
				path = args[0]
			}
			return a.finish(a.List(path))
		},
	}
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage semcatalog configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the user config file with defaults if it does not exist",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cmd.Flag("log-level").Value.String(), cmd.ErrOrStderr())
			path, err := config.NewLoader(logger).EnsureUserConfig()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "User config: %s\n", path)
			return err
		},
	})

	return cmd
}

func fetchCmd(app func() *App) *cobra.Command {
	var (
		targetDir string
		apiURL    string
		force     bool
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the latest ontology release bundle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if targetDir != "" {
				a.cfg.Bundle.TargetDir = targetDir
			}
			if apiURL != "" {
				a.cfg.Bundle.APIURL = apiURL
			}
			return a.finish(a.Fetch(cmd.Context(), force))
		},
	}

	cmd.Flags().StringVarP(&targetDir, "target", "t", "", "Directory to extract into (default from config)")
	cmd.Flags().StringVar(&apiURL, "api-url", "", "Latest release API URL (default from config)")
	cmd.Flags().BoolVar(&force, "force", false, "Download even if the target holds the latest version")
	return cmd
}

func newLogger(logLevel string, w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
