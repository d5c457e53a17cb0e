// Package driver runs report files through their parsers and hands the
// resolved results to a sink. A report that cannot be read or parsed is
// logged and skipped; it never stops the run.
package driver

import (
	"errors"
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"

	"github.com/IgorBayerl/swift-report-ingest/internal/filesystem"
	"github.com/IgorBayerl/swift-report-ingest/internal/model"
	"github.com/IgorBayerl/swift-report-ingest/internal/parser"
	"github.com/IgorBayerl/swift-report-ingest/internal/parser/cobertura"
	"github.com/IgorBayerl/swift-report-ingest/internal/parser/oclint"
	"github.com/IgorBayerl/swift-report-ingest/internal/parser/swiftlint"
	"github.com/IgorBayerl/swift-report-ingest/internal/parser/tailor"
	"github.com/IgorBayerl/swift-report-ingest/internal/pathresolver"
	"github.com/IgorBayerl/swift-report-ingest/internal/sink"
)

// Resolver maps a path read from a report onto a project file.
type Resolver interface {
	Resolve(reportPath string) pathresolver.Resolution
}

// Report is one report file to ingest.
type Report struct {
	Kind parser.Kind
	Path string
}

// Driver processes reports sequentially.
type Driver struct {
	fs       filesystem.Filesystem
	resolver Resolver
	sink     sink.Sink
	logger   hclog.Logger
	runID    string

	coverage *cobertura.CoberturaParser
	findings map[parser.Kind]parser.FindingParser
}

// New creates a Driver. A nil logger discards output.
func New(fsys filesystem.Filesystem, resolver Resolver, s sink.Sink, logger hclog.Logger, runID string) *Driver {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Driver{
		fs:       fsys,
		resolver: resolver,
		sink:     s,
		logger:   logger,
		runID:    runID,
		coverage: cobertura.NewCoberturaParser(logger.Named("cobertura")),
		findings: map[parser.Kind]parser.FindingParser{
			parser.KindOCLint:    oclint.NewOCLintParser(logger.Named("oclint")),
			parser.KindSwiftLint: swiftlint.NewSwiftLintParser(logger.Named("swiftlint")),
			parser.KindTailor:    tailor.NewTailorParser(logger.Named("tailor")),
		},
	}
}

// Run processes reports in the given order and summarises the outcome.
func (d *Driver) Run(reports []Report) Summary {
	d.logger.Info("Starting ingestion", "run_id", d.runID, "reports", len(reports))
	summary := Summary{RunID: d.runID, Reports: make([]ReportResult, 0, len(reports))}
	for _, r := range reports {
		summary.Reports = append(summary.Reports, d.Process(r))
	}
	d.logger.Info("Ingestion finished",
		"run_id", d.runID,
		"reports", len(summary.Reports),
		"failed", summary.Failed(),
		"emitted", summary.Emitted(),
		"unresolved", summary.Unresolved())
	return summary
}

// Process ingests a single report.
func (d *Driver) Process(report Report) ReportResult {
	result := ReportResult{Report: report}
	d.logger.Info(fmt.Sprintf("Processing %s report", report.Kind.ToolName()), "path", report.Path)

	rc, err := d.fs.Open(report.Path)
	if err != nil {
		d.logger.Warn("Cannot read report, skipping it", "path", report.Path, "error", err)
		return result.fail(fmt.Errorf("opening report: %w", err))
	}
	defer func() {
		if cerr := rc.Close(); cerr != nil {
			d.logger.Debug("Closing report failed", "path", report.Path, "error", cerr)
		}
	}()
	result.State = StateOpened

	if o, ok := d.sink.(sink.ReportObserver); ok {
		o.BeginReport(report.Kind, report.Path)
	}

	result.State = StateParsing
	switch {
	case report.Kind == parser.KindCoverage:
		err = d.processCoverage(rc, &result)
	case d.findings[report.Kind] != nil:
		err = d.processFindings(d.findings[report.Kind], rc, &result)
	default:
		err = fmt.Errorf("unsupported report kind %d", int(report.Kind))
	}
	if err != nil {
		d.logFailure(report, err)
		return result.fail(err)
	}

	result.State = StateClosed
	return result
}

func (d *Driver) processCoverage(r io.Reader, result *ReportResult) error {
	files, err := d.coverage.Parse(r)
	if err != nil {
		return err
	}

	result.State = StateEmitting
	for _, fc := range files {
		res := d.resolver.Resolve(fc.FilePath)
		if !res.Found {
			d.logger.Warn("File not included in the project, ignoring its coverage", "path", fc.FilePath, "resolved", res.AbsPath)
			result.Unresolved++
			continue
		}
		d.sink.SaveCoverage(res.Target, fc)
		result.Emitted++
		d.logger.Debug("Successfully collected measures for file", "file", res.Target.RelPath, "lines", len(fc.Lines))
	}
	return nil
}

func (d *Driver) processFindings(p parser.FindingParser, r io.Reader, result *ReportResult) error {
	resolved := make(map[string]pathresolver.Resolution)
	emit := func(f model.Finding) {
		result.State = StateEmitting
		res, seen := resolved[f.FilePath]
		if !seen {
			res = d.resolver.Resolve(f.FilePath)
			resolved[f.FilePath] = res
			if !res.Found {
				d.logger.Warn("File not included in the project, ignoring its findings", "path", f.FilePath, "resolved", res.AbsPath)
			}
		}
		if !res.Found {
			result.Unresolved++
			return
		}
		d.sink.SaveFinding(res.Target, f)
		result.Emitted++
	}

	stats, err := p.Parse(r, emit)
	result.Dropped += stats.Dropped
	result.Unparsed += stats.Unparsed
	return err
}

func (d *Driver) logFailure(report Report, err error) {
	var streamErr *parser.StreamError
	var parseErr *parser.ParseError
	switch {
	case errors.As(err, &parseErr):
		d.logger.Error("Invalid value in report, skipping the rest of it", "path", report.Path, "error", err)
	case errors.As(err, &streamErr):
		d.logger.Error("Malformed report, skipping the rest of it", "path", report.Path, "error", err)
	default:
		d.logger.Error("Failed to process report", "path", report.Path, "error", err)
	}
}
