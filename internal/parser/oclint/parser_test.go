package oclint

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IgorBayerl/swift-report-ingest/internal/model"
	"github.com/IgorBayerl/swift-report-ingest/internal/parser"
)

func collect(t *testing.T, doc string) ([]model.Finding, parser.Stats, error) {
	t.Helper()
	var findings []model.Finding
	stats, err := NewOCLintParser(nil).Parse(strings.NewReader(doc), func(f model.Finding) {
		findings = append(findings, f)
	})
	return findings, stats, err
}

func TestParse(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<pmd version="oclint-0.13">
  <file name="App/Foo.m">
    <violation begincolumn="5" endcolumn="9" beginline="12" endline="12" priority="3" rule="unused method parameter" ruleset="Unused">
      The parameter 'sender' is
      unused.
    </violation>
    <violation beginline="40" priority="1" rule="long method" message="Method has 120 lines"/>
  </file>
  <file name="App/Bar.m">
    <violation beginline="3" priority="2" rule="empty if statement" path="App/Other.m"/>
  </file>
</pmd>`

	findings, stats, err := collect(t, doc)
	require.NoError(t, err)
	assert.Equal(t, parser.Stats{Findings: 3}, stats)
	assert.Equal(t, []model.Finding{
		{FilePath: "App/Foo.m", Line: 12, Column: 5, RuleKey: "unused method parameter", Severity: model.SeverityMinor, Message: "The parameter 'sender' is unused."},
		{FilePath: "App/Foo.m", Line: 40, RuleKey: "long method", Severity: model.SeverityCritical, Message: "Method has 120 lines"},
		{FilePath: "App/Other.m", Line: 3, RuleKey: "empty if statement", Severity: model.SeverityMajor},
	}, findings)
}

func TestParse_DropsViolationWithoutLine(t *testing.T) {
	doc := `<pmd>
  <file name="A.m">
    <violation priority="2" rule="r1">no line</violation>
    <violation beginline="abc" priority="2" rule="r2">bad line</violation>
    <violation beginline="7" priority="2" rule="r3">kept</violation>
  </file>
  <file>
    <violation beginline="1" rule="r4">no path anywhere</violation>
  </file>
</pmd>`

	findings, stats, err := collect(t, doc)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Findings)
	assert.Equal(t, 3, stats.Dropped)
	require.Len(t, findings, 1)
	assert.Equal(t, "r3", findings[0].RuleKey)
	assert.Equal(t, 7, findings[0].Line)
}

func TestParse_MalformedKeepsEarlierFindings(t *testing.T) {
	doc := `<pmd><file name="A.m"><violation beginline="1" rule="r">ok</violation></file><file name="B.m"><violation beginline="2"></file></pmd>`

	findings, _, err := collect(t, doc)
	var se *parser.StreamError
	require.True(t, errors.As(err, &se), "got %v", err)
	require.Len(t, findings, 1, "findings read before the error were already emitted")
	assert.Equal(t, "A.m", findings[0].FilePath)
}

func TestSeverityForPriority(t *testing.T) {
	assert.Equal(t, model.SeverityCritical, severityForPriority("1"))
	assert.Equal(t, model.SeverityMajor, severityForPriority(" 2 "))
	assert.Equal(t, model.SeverityMinor, severityForPriority("3"))
	assert.Equal(t, model.SeverityInfo, severityForPriority(""))
	assert.Equal(t, model.SeverityInfo, severityForPriority("9"))
}
