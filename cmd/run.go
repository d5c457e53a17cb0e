package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/IgorBayerl/swift-report-ingest/internal/config"
	"github.com/IgorBayerl/swift-report-ingest/internal/discovery"
	"github.com/IgorBayerl/swift-report-ingest/internal/driver"
	"github.com/IgorBayerl/swift-report-ingest/internal/filesystem"
	"github.com/IgorBayerl/swift-report-ingest/internal/logging"
	"github.com/IgorBayerl/swift-report-ingest/internal/pathresolver"
	"github.com/IgorBayerl/swift-report-ingest/internal/sink"
)

type runOptions struct {
	configPath string
	verbosity  string
	overrides  *config.Overrides
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run [flags]",
		Short: "Discover reports under the base directory and ingest them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			opts.overrides.Apply(cfg)
			if err := config.Validate(cfg); err != nil {
				return err
			}

			logOpts := logging.Options{
				Name:       "reportingest",
				Level:      cfg.Logger.Level,
				JSONFormat: cfg.Logger.JSONFormat,
				Output:     cmd.ErrOrStderr(),
			}
			if cmd.Flags().Changed("verbosity") {
				v, err := logging.ParseVerbosity(opts.verbosity)
				if err != nil {
					return err
				}
				logOpts.Verbosity = &v
			}

			return runIngest(cfg, filesystem.DefaultFS{}, logging.NewLogger(logOpts), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "YAML configuration file")
	cmd.Flags().StringVar(&opts.verbosity, "verbosity", "Info", "logging verbosity (Verbose, Info, Warning, Error, Off)")
	opts.overrides = config.BindFlags(cmd.Flags())
	return cmd
}

// runIngest discovers the configured reports, drives them and writes the
// outputs. Broken reports are only logged; output failures are returned.
func runIngest(cfg *config.Config, fsys filesystem.Filesystem, logger hclog.Logger, out io.Writer) error {
	baseDir, err := fsys.Abs(cfg.BaseDir)
	if err != nil {
		return fmt.Errorf("resolving base directory: %w", err)
	}
	if info, err := fsys.Stat(baseDir); err != nil || !info.IsDir() {
		return fmt.Errorf("base directory %s is not a directory", baseDir)
	}

	filter, err := cfg.Filter()
	if err != nil {
		return err
	}
	index := pathresolver.NewFilesystemIndex(fsys, baseDir, filter)
	resolver := pathresolver.NewResolver(baseDir, index, logger.Named("resolver"))

	reports, err := discoverReports(cfg, fsys, baseDir, logger.Named("discovery"))
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	sinks := sink.Multi{}
	var sarifWriter *sink.SarifWriter
	var coverageWriter *sink.CoverageWriter
	if cfg.Output.Sarif != "" {
		sarifWriter = sink.NewSarifWriter(runID)
		sinks = append(sinks, sarifWriter)
	}
	if cfg.Output.Coverage != "" {
		coverageWriter = sink.NewCoverageWriter()
		sinks = append(sinks, coverageWriter)
	}

	summary := driver.New(fsys, resolver, sinks, logger.Named("driver"), runID).Run(reports)

	if sarifWriter != nil {
		if err := writeOutput(cfg.Output.Sarif, sarifWriter.Write); err != nil {
			return fmt.Errorf("writing SARIF output: %w", err)
		}
		logger.Info("Wrote findings", "path", cfg.Output.Sarif, "results", sarifWriter.Results())
	}
	if coverageWriter != nil {
		if err := writeOutput(cfg.Output.Coverage, coverageWriter.Write); err != nil {
			return fmt.Errorf("writing coverage output: %w", err)
		}
		logger.Info("Wrote coverage", "path", cfg.Output.Coverage, "files", coverageWriter.Files())
	}

	return summary.WriteText(out)
}

// discoverReports expands every pattern of every enabled kind. A file matched
// by several patterns of the same kind is processed once.
func discoverReports(cfg *config.Config, fsys filesystem.Filesystem, baseDir string, logger hclog.Logger) ([]driver.Report, error) {
	finder := discovery.NewFinder(fsys, baseDir, logger)
	var reports []driver.Report
	for _, kind := range cfg.EnabledKinds() {
		seen := make(map[string]bool)
		for _, pattern := range cfg.Patterns(kind) {
			paths, err := finder.Find(pattern)
			if err != nil {
				return nil, fmt.Errorf("%s report pattern %q: %w", kind, pattern, err)
			}
			if len(paths) == 0 {
				logger.Info("No report found", "kind", kind.String(), "pattern", pattern)
			}
			for _, p := range paths {
				if !seen[p] {
					seen[p] = true
					reports = append(reports, driver.Report{Kind: kind, Path: p})
				}
			}
		}
	}
	return reports, nil
}

func writeOutput(path string, write func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
