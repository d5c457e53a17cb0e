package parser

import (
	"io"

	"github.com/IgorBayerl/swift-report-ingest/internal/model"
)

// Kind identifies the format of a report file. Kinds are chosen by the caller
// (usually from the configured report pattern), never sniffed from content.
type Kind int

const (
	KindCoverage Kind = iota
	KindOCLint
	KindSwiftLint
	KindTailor
)

// Kinds lists every supported report kind in processing order.
var Kinds = []Kind{KindCoverage, KindOCLint, KindSwiftLint, KindTailor}

// String returns the configuration name of the kind.
func (k Kind) String() string {
	switch k {
	case KindCoverage:
		return "coverage"
	case KindOCLint:
		return "oclint"
	case KindSwiftLint:
		return "swiftlint"
	case KindTailor:
		return "tailor"
	}
	return "unknown"
}

// ToolName returns the display name of the tool producing this kind of report.
func (k Kind) ToolName() string {
	switch k {
	case KindCoverage:
		return "Cobertura"
	case KindOCLint:
		return "OCLint"
	case KindSwiftLint:
		return "SwiftLint"
	case KindTailor:
		return "Tailor"
	}
	return "unknown"
}

// IsIssueReport reports whether the kind produces findings rather than coverage.
func (k Kind) IsIssueReport() bool {
	return k != KindCoverage
}

// EmitFunc receives each finding as soon as its report entry has been read.
type EmitFunc func(model.Finding)

// FindingParser is implemented by every issue report format.
type FindingParser interface {
	// Parse reads the whole report, calling emit once per finding. Findings
	// emitted before a fatal error are not retracted.
	Parse(r io.Reader, emit EmitFunc) (Stats, error)
}

// Stats summarises one issue report parse.
type Stats struct {
	Findings int
	// Dropped counts structured entries rejected for missing or invalid fields.
	Dropped int
	// Unparsed counts non-blank text lines that did not match the tool grammar.
	Unparsed int
}
