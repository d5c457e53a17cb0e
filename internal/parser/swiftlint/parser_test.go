package swiftlint

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IgorBayerl/swift-report-ingest/internal/model"
	"github.com/IgorBayerl/swift-report-ingest/internal/parser"
)

func TestParse(t *testing.T) {
	report := strings.Join([]string{
		"Linting Swift files in current working directory",
		"Linting 'Foo.swift' (1/2)",
		"/project/Sources/Foo.swift:12:5: warning: Line Length Violation: Line should be 120 characters or less: currently 130 characters (line_length)",
		"",
		"/project/Sources/Foo.swift:30: error: Force Cast Violation: Force casts should be avoided. (force_cast)\r",
		"Sources/Bar.swift:0:1: warning: Bad line number (trailing_whitespace)",
		"Sources/Bar.swift:4:1: warning: missing rule id",
		"Done linting! Found 2 violations, 1 serious in 2 files.",
	}, "\n")

	var findings []model.Finding
	stats, err := NewSwiftLintParser(nil).Parse(strings.NewReader(report), func(f model.Finding) {
		findings = append(findings, f)
	})
	require.NoError(t, err)

	assert.Equal(t, parser.Stats{Findings: 2, Unparsed: 5}, stats)
	assert.Equal(t, []model.Finding{
		{
			FilePath: "/project/Sources/Foo.swift",
			Line:     12,
			Column:   5,
			RuleKey:  "line_length",
			Severity: model.SeverityMinor,
			Message:  "Line Length Violation: Line should be 120 characters or less: currently 130 characters",
		},
		{
			FilePath: "/project/Sources/Foo.swift",
			Line:     30,
			RuleKey:  "force_cast",
			Severity: model.SeverityMajor,
			Message:  "Force Cast Violation: Force casts should be avoided.",
		},
	}, findings)
}

func TestParse_EmptyReport(t *testing.T) {
	stats, err := NewSwiftLintParser(nil).Parse(strings.NewReader(""), func(model.Finding) {
		t.Fatal("no finding expected")
	})
	require.NoError(t, err)
	assert.Equal(t, parser.Stats{}, stats)
}
