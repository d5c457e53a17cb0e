package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/IgorBayerl/swift-report-ingest/internal/filereader"
	"github.com/IgorBayerl/swift-report-ingest/internal/model"
)

// LineMatcher converts one physical report line into a finding. It returns
// false when the line does not follow the tool's grammar.
type LineMatcher func(line string) (model.Finding, bool)

// ScanLines feeds every line of a text report to match and emits the matches.
// Lines of any length are accepted. Blank lines are ignored, other
// non-matching lines are counted in Stats.Unparsed. Only a read failure of the
// underlying stream returns an error.
func ScanLines(r io.Reader, match LineMatcher, emit EmitFunc) (Stats, error) {
	var stats Stats
	br := bufio.NewReader(filereader.NewTextReader(r))
	for {
		line, readErr := br.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return stats, fmt.Errorf("reading text report: %w", readErr)
		}
		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) != "" {
			if f, ok := match(line); ok {
				emit(f)
				stats.Findings++
			} else {
				stats.Unparsed++
			}
		}
		if readErr != nil {
			return stats, nil
		}
	}
}

// LintSeverity maps the "warning"/"error" level printed by Xcode-style lint
// tools. Anything else is informational.
func LintSeverity(level string) model.Severity {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "error":
		return model.SeverityMajor
	case "warning":
		return model.SeverityMinor
	default:
		return model.SeverityInfo
	}
}
