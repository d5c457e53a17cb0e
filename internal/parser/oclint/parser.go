// Package oclint reads OCLint reports in their PMD-style XML form:
//
//	<pmd version="oclint-0.13">
//	  <file name="/project/App/Foo.m">
//	    <violation begincolumn="5" beginline="12" priority="3" rule="unused method parameter">
//	      The parameter 'sender' is unused.
//	    </violation>
//	  </file>
//	</pmd>
//
// A violation may carry its own path attribute, which takes precedence over
// the enclosing file element's name.
package oclint

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/IgorBayerl/swift-report-ingest/internal/model"
	"github.com/IgorBayerl/swift-report-ingest/internal/parser"
	"github.com/IgorBayerl/swift-report-ingest/internal/xmlcursor"
)

// OCLintParser implements parser.FindingParser for OCLint XML reports.
type OCLintParser struct {
	logger hclog.Logger
}

// NewOCLintParser creates a parser. A nil logger discards output.
func NewOCLintParser(logger hclog.Logger) *OCLintParser {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &OCLintParser{logger: logger}
}

// Parse emits one finding per well-formed violation. Violations lacking a
// usable path or line are dropped with a warning; malformed markup aborts the
// report with a StreamError.
func (p *OCLintParser) Parse(r io.Reader, emit parser.EmitFunc) (parser.Stats, error) {
	var stats parser.Stats
	root, err := xmlcursor.Open(r)
	if err != nil {
		return stats, err
	}

	files := root.Descendants("file")
	for files.Next() {
		file := files.Cursor()
		fileName, _ := file.Attr("name")

		violations := file.Children("violation")
		for violations.Next() {
			f, err := p.readViolation(violations.Cursor(), fileName)
			if err != nil {
				var missing *parser.FieldMissingError
				if !errors.As(err, &missing) {
					return stats, err
				}
				p.logger.Warn("Dropping OCLint violation", "file", fileName, "reason", missing.Error())
				stats.Dropped++
				continue
			}
			emit(f)
			stats.Findings++
		}
		if err := violations.Err(); err != nil {
			return stats, err
		}
	}
	return stats, files.Err()
}

func (p *OCLintParser) readViolation(v *xmlcursor.Cursor, fileName string) (model.Finding, error) {
	path := fileName
	if own, ok := v.Attr("path"); ok && strings.TrimSpace(own) != "" {
		path = own
	}
	lineAttr, hasLine := v.Attr("beginline")
	rule, _ := v.Attr("rule")
	priority, _ := v.Attr("priority")
	column := 0
	if colAttr, ok := v.Attr("begincolumn"); ok {
		if c, err := strconv.Atoi(strings.TrimSpace(colAttr)); err == nil && c > 0 {
			column = c
		}
	}

	message, hasMessage := v.Attr("message")
	// The element text must be consumed even when it is not used, so the
	// stream stays positioned after this violation.
	text, err := v.Text()
	if err != nil {
		return model.Finding{}, err
	}
	if !hasMessage || strings.TrimSpace(message) == "" {
		message = text
	}

	if strings.TrimSpace(path) == "" {
		return model.Finding{}, &parser.FieldMissingError{Element: "violation", Field: "path"}
	}
	if !hasLine {
		return model.Finding{}, &parser.FieldMissingError{Element: "violation", Field: "beginline"}
	}
	line, err := strconv.Atoi(strings.TrimSpace(lineAttr))
	if err != nil || line < 1 {
		return model.Finding{}, &parser.FieldMissingError{Element: "violation", Field: "beginline", Reason: "is not a positive integer: " + strconv.Quote(lineAttr)}
	}

	return model.Finding{
		FilePath: path,
		Line:     line,
		Column:   column,
		RuleKey:  rule,
		Severity: severityForPriority(priority),
		Message:  strings.Join(strings.Fields(message), " "),
	}, nil
}

// severityForPriority maps OCLint's 1..3 priority scale.
func severityForPriority(priority string) model.Severity {
	switch strings.TrimSpace(priority) {
	case "1":
		return model.SeverityCritical
	case "2":
		return model.SeverityMajor
	case "3":
		return model.SeverityMinor
	default:
		return model.SeverityInfo
	}
}
