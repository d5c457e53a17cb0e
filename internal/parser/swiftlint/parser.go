// Package swiftlint reads SwiftLint's default "xcode" reporter output, one
// violation per line:
//
//	/project/Sources/Foo.swift:12:5: warning: Line Length Violation: Line should be 120 characters or less (line_length)
package swiftlint

import (
	"io"
	"regexp"
	"strconv"

	"github.com/hashicorp/go-hclog"

	"github.com/IgorBayerl/swift-report-ingest/internal/model"
	"github.com/IgorBayerl/swift-report-ingest/internal/parser"
)

var lineRegex = regexp.MustCompile(`^(?P<Path>.+?):(?P<Line>\d+)(?::(?P<Column>\d+))?: (?P<Level>warning|error): (?P<Message>.*) \((?P<Rule>[\w.-]+)\)\s*$`)

// SwiftLintParser implements parser.FindingParser for SwiftLint text reports.
type SwiftLintParser struct {
	logger hclog.Logger
}

// NewSwiftLintParser creates a parser. A nil logger discards output.
func NewSwiftLintParser(logger hclog.Logger) *SwiftLintParser {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &SwiftLintParser{logger: logger}
}

// Parse emits one finding per matching line; other lines are skipped.
func (p *SwiftLintParser) Parse(r io.Reader, emit parser.EmitFunc) (parser.Stats, error) {
	stats, err := parser.ScanLines(r, p.matchLine, emit)
	if stats.Unparsed > 0 {
		p.logger.Debug("Skipped lines not matching the SwiftLint format", "count", stats.Unparsed)
	}
	return stats, err
}

func (p *SwiftLintParser) matchLine(line string) (model.Finding, bool) {
	m := lineRegex.FindStringSubmatch(line)
	if m == nil {
		return model.Finding{}, false
	}
	lineNumber, err := strconv.Atoi(m[lineRegex.SubexpIndex("Line")])
	if err != nil || lineNumber < 1 {
		return model.Finding{}, false
	}
	column := 0
	if c := m[lineRegex.SubexpIndex("Column")]; c != "" {
		column, err = strconv.Atoi(c)
		if err != nil {
			return model.Finding{}, false
		}
	}
	return model.Finding{
		FilePath: m[lineRegex.SubexpIndex("Path")],
		Line:     lineNumber,
		Column:   column,
		RuleKey:  m[lineRegex.SubexpIndex("Rule")],
		Severity: parser.LintSeverity(m[lineRegex.SubexpIndex("Level")]),
		Message:  m[lineRegex.SubexpIndex("Message")],
	}, true
}
