// Package tailor reads Tailor's plain text output, one violation per line:
//
//	/project/Sources/Foo.swift:1:1: warning: [constant-naming] Global Constant should be either lowerCamelCase or UpperCamelCase
package tailor

import (
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/IgorBayerl/swift-report-ingest/internal/model"
	"github.com/IgorBayerl/swift-report-ingest/internal/parser"
)

var lineRegex = regexp.MustCompile(`^(?P<Path>.+?):(?P<Line>\d+)(?::(?P<Column>\d+))?: (?P<Level>warning|error): \[(?P<Rule>[\w.-]+)\] (?P<Message>.*)$`)

// TailorParser implements parser.FindingParser for Tailor text reports.
type TailorParser struct {
	logger hclog.Logger
}

// NewTailorParser creates a parser. A nil logger discards output.
func NewTailorParser(logger hclog.Logger) *TailorParser {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &TailorParser{logger: logger}
}

// Parse emits one finding per matching line. Tailor's summary footer and
// blank lines are skipped.
func (p *TailorParser) Parse(r io.Reader, emit parser.EmitFunc) (parser.Stats, error) {
	stats, err := parser.ScanLines(r, matchLine, emit)
	if stats.Unparsed > 0 {
		p.logger.Debug("Skipped lines not matching the Tailor format", "count", stats.Unparsed)
	}
	return stats, err
}

func matchLine(line string) (model.Finding, bool) {
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
		if column, err = strconv.Atoi(c); err != nil {
			return model.Finding{}, false
		}
	}
	return model.Finding{
		FilePath: m[lineRegex.SubexpIndex("Path")],
		Line:     lineNumber,
		Column:   column,
		RuleKey:  m[lineRegex.SubexpIndex("Rule")],
		Severity: parser.LintSeverity(m[lineRegex.SubexpIndex("Level")]),
		Message:  strings.TrimSpace(m[lineRegex.SubexpIndex("Message")]),
	}, true
}
