package model

import (
	"fmt"
	"strings"
)

// Severity is the normalized severity of a Finding. The mapping from a tool's
// own vocabulary is done by each parser.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityMinor
	SeverityMajor
	SeverityCritical
	SeverityBlocker
)

var severityNames = [...]string{"info", "minor", "major", "critical", "blocker"}

func (s Severity) String() string {
	if s < SeverityInfo || s > SeverityBlocker {
		return fmt.Sprintf("Severity(%d)", int(s))
	}
	return severityNames[s]
}

// ParseSeverity converts a case-insensitive severity name into a Severity.
func ParseSeverity(name string) (Severity, error) {
	for i, n := range severityNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Severity(i), nil
		}
	}
	return SeverityInfo, fmt.Errorf("unknown severity %q", name)
}

// Finding is one static-analysis diagnostic as read from a report.
// FilePath is the path exactly as the report gave it; resolution happens later.
type Finding struct {
	FilePath string
	Line     int
	Column   int // 0 when the tool does not report a column
	RuleKey  string
	Severity Severity
	Message  string
}

func (f Finding) String() string {
	if f.Column > 0 {
		return fmt.Sprintf("%s:%d:%d [%s] %s: %s", f.FilePath, f.Line, f.Column, f.Severity, f.RuleKey, f.Message)
	}
	return fmt.Sprintf("%s:%d [%s] %s: %s", f.FilePath, f.Line, f.Severity, f.RuleKey, f.Message)
}
