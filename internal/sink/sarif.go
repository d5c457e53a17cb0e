package sink

import (
	"fmt"
	"io"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/IgorBayerl/swift-report-ingest/internal/model"
	"github.com/IgorBayerl/swift-report-ingest/internal/parser"
)

var toolInformationURIs = map[parser.Kind]string{
	parser.KindOCLint:    "https://oclint.org",
	parser.KindSwiftLint: "https://github.com/realm/SwiftLint",
	parser.KindTailor:    "https://github.com/sleekbyte/tailor",
}

// SarifWriter collects findings into a SARIF 2.1.0 log with one run per
// tool, in the order the tools were first seen.
type SarifWriter struct {
	runID   string
	kind    parser.Kind
	runs    map[parser.Kind]*sarif.Run
	order   []parser.Kind
	results int
}

// NewSarifWriter creates a writer. runID is attached to every result.
func NewSarifWriter(runID string) *SarifWriter {
	return &SarifWriter{runID: runID, runs: make(map[parser.Kind]*sarif.Run)}
}

func (w *SarifWriter) BeginReport(kind parser.Kind, _ string) {
	w.kind = kind
}

func (w *SarifWriter) SaveCoverage(model.InputFile, model.FileCoverage) {}

func (w *SarifWriter) SaveFinding(file model.InputFile, finding model.Finding) {
	run := w.runFor(w.kind)

	rule := run.AddRule(finding.RuleKey).
		WithDescription(finding.RuleKey)

	region := sarif.NewRegion().WithStartLine(finding.Line)
	if finding.Column > 0 {
		region = region.WithStartColumn(finding.Column)
	}
	location := sarif.NewLocation().WithPhysicalLocation(
		sarif.NewPhysicalLocation().
			WithArtifactLocation(sarif.NewArtifactLocation().WithUri(file.RelPath)).
			WithRegion(region),
	)

	result := sarif.NewRuleResult(rule.ID).
		WithMessage(sarif.NewTextMessage(finding.Message)).
		WithLevel(toSarifLevel(finding.Severity)).
		WithLocations([]*sarif.Location{location})
	result.PropertyBag = *sarif.NewPropertyBag()
	result.Add("severity", finding.Severity.String())
	if w.runID != "" {
		result.Add("runId", w.runID)
	}
	run.AddResult(result)
	w.results++
}

func (w *SarifWriter) runFor(kind parser.Kind) *sarif.Run {
	if run, ok := w.runs[kind]; ok {
		return run
	}
	run := sarif.NewRunWithInformationURI(kind.ToolName(), toolInformationURIs[kind])
	w.runs[kind] = run
	w.order = append(w.order, kind)
	return run
}

// Results returns the number of findings collected so far.
func (w *SarifWriter) Results() int {
	return w.results
}

// Write writes the SARIF log as indented JSON.
func (w *SarifWriter) Write(out io.Writer) error {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return fmt.Errorf("failed to create SARIF report: %w", err)
	}
	for _, kind := range w.order {
		report.AddRun(w.runs[kind])
	}
	return report.PrettyWrite(out)
}

func toSarifLevel(severity model.Severity) string {
	switch severity {
	case model.SeverityBlocker, model.SeverityCritical, model.SeverityMajor:
		return "error"
	case model.SeverityMinor:
		return "warning"
	default:
		return "note"
	}
}
