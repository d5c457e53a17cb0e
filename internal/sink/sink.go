// Package sink receives the resolved results of an ingestion run.
package sink

import (
	"github.com/IgorBayerl/swift-report-ingest/internal/model"
	"github.com/IgorBayerl/swift-report-ingest/internal/parser"
)

// Sink persists results for files of the project. Calls are made in report
// order from a single goroutine.
type Sink interface {
	SaveCoverage(file model.InputFile, coverage model.FileCoverage)
	SaveFinding(file model.InputFile, finding model.Finding)
}

// ReportObserver is implemented by sinks that need to know which report the
// following Save calls come from.
type ReportObserver interface {
	BeginReport(kind parser.Kind, reportPath string)
}

// Multi forwards every call to each of its sinks in order.
type Multi []Sink

func (m Multi) SaveCoverage(file model.InputFile, coverage model.FileCoverage) {
	for _, s := range m {
		s.SaveCoverage(file, coverage)
	}
}

func (m Multi) SaveFinding(file model.InputFile, finding model.Finding) {
	for _, s := range m {
		s.SaveFinding(file, finding)
	}
}

func (m Multi) BeginReport(kind parser.Kind, reportPath string) {
	for _, s := range m {
		if o, ok := s.(ReportObserver); ok {
			o.BeginReport(kind, reportPath)
		}
	}
}

// CoverageRecord is one SaveCoverage call captured by a Recorder.
type CoverageRecord struct {
	Report   string
	File     model.InputFile
	Coverage model.FileCoverage
}

// FindingRecord is one SaveFinding call captured by a Recorder.
type FindingRecord struct {
	Report  string
	Kind    parser.Kind
	File    model.InputFile
	Finding model.Finding
}

// Recorder keeps everything it receives in memory, in arrival order.
type Recorder struct {
	Coverage []CoverageRecord
	Findings []FindingRecord

	kind   parser.Kind
	report string
}

func (r *Recorder) BeginReport(kind parser.Kind, reportPath string) {
	r.kind = kind
	r.report = reportPath
}

func (r *Recorder) SaveCoverage(file model.InputFile, coverage model.FileCoverage) {
	r.Coverage = append(r.Coverage, CoverageRecord{Report: r.report, File: file, Coverage: coverage})
}

func (r *Recorder) SaveFinding(file model.InputFile, finding model.Finding) {
	r.Findings = append(r.Findings, FindingRecord{Report: r.report, Kind: r.kind, File: file, Finding: finding})
}
