package driver

import (
	"bytes"
	"errors"
	"io/fs"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IgorBayerl/swift-report-ingest/internal/filesystem"
	"github.com/IgorBayerl/swift-report-ingest/internal/model"
	"github.com/IgorBayerl/swift-report-ingest/internal/parser"
	"github.com/IgorBayerl/swift-report-ingest/internal/pathresolver"
	"github.com/IgorBayerl/swift-report-ingest/internal/sink"
)

const fooCoverage = `<?xml version="1.0" ?>
<coverage version="1.9">
  <packages>
    <package name="App">
      <classes>
        <class name="Foo" filename="Sources/Foo.swift">
          <lines>
            <line number="1" hits="3"/>
            <line number="2" hits="0" branch="true" condition-coverage="50% (1/2)"/>
          </lines>
        </class>
        <class name="Gen" filename="Generated/R.swift">
          <lines>
            <line number="1" hits="1"/>
          </lines>
        </class>
      </classes>
    </package>
  </packages>
</coverage>`

const badHitsCoverage = `<coverage>
  <packages>
    <package name="App">
      <classes>
        <class name="Bar" filename="Sources/Bar.swift">
          <lines>
            <line number="1" hits="abc"/>
          </lines>
        </class>
      </classes>
    </package>
  </packages>
</coverage>`

const oclintReport = `<pmd version="oclint-0.13">
  <file name="/proj/App/Bar.m">
    <violation beginline="12" begincolumn="5" priority="3" rule="unused method parameter">The parameter 'sender' is unused.</violation>
    <violation priority="3" rule="no line">dropped</violation>
  </file>
  <file name="/elsewhere/Vendor.m">
    <violation beginline="1" priority="1" rule="long method">outside</violation>
    <violation beginline="2" priority="1" rule="long method">outside again</violation>
  </file>
</pmd>`

const truncatedOCLint = `<pmd>
  <file name="App/Bar.m">
    <violation beginline="1" priority="2" rule="first">kept</violation>
    <violation beginline="2" priority="2" rule="second">lost`

const swiftlintReport = `/proj/Sources/Foo.swift:4:1: warning: Line Length Violation: Line should be 120 characters or less (line_length)
Linting 'Foo.swift' (1/2)
Sources/Missing.swift:1: error: Force Cast Violation: Force casts should be avoided (force_cast)
`

const tailorReport = "Sources/Foo.swift:3:5: error: [constant-naming] Global Constant should be either lowerCamelCase or UpperCamelCase\n"

func newFixture(t *testing.T) (*filesystem.MemFS, *sink.Recorder, *Driver) {
	t.Helper()
	fsys := filesystem.NewMemFS(map[string]string{
		"/proj/Sources/Foo.swift":               "",
		"/proj/App/Bar.m":                       "",
		"/proj/sonar-reports/coverage.xml":      fooCoverage,
		"/proj/sonar-reports/coverage-bad.xml":  badHitsCoverage,
		"/proj/sonar-reports/oclint.xml":        oclintReport,
		"/proj/sonar-reports/oclint-trunc.xml":  truncatedOCLint,
		"/proj/sonar-reports/app-swiftlint.txt": swiftlintReport,
		"/proj/sonar-reports/app-tailor.txt":    tailorReport,
	})
	index := pathresolver.NewFilesystemIndex(fsys, "/proj", nil)
	resolver := pathresolver.NewResolver("/proj", index, nil)
	rec := &sink.Recorder{}
	return fsys, rec, New(fsys, resolver, rec, nil, "test-run")
}

func TestProcess_CoverageEndToEnd(t *testing.T) {
	_, rec, d := newFixture(t)

	res := d.Process(Report{Kind: parser.KindCoverage, Path: "/proj/sonar-reports/coverage.xml"})
	require.NoError(t, res.Err)
	assert.Equal(t, StateClosed, res.State)
	assert.Equal(t, 1, res.Emitted)
	assert.Equal(t, 1, res.Unresolved, "Generated/R.swift is not a project file")

	require.Len(t, rec.Coverage, 1)
	got := rec.Coverage[0]
	assert.Equal(t, model.InputFile{AbsPath: "/proj/Sources/Foo.swift", RelPath: "Sources/Foo.swift"}, got.File)
	want := map[int]model.LineCoverage{
		1: {LineNumber: 1, Hits: 3},
		2: {LineNumber: 2, Hits: 0, IsBranch: true, CoveredConditions: 1, TotalConditions: 2},
	}
	if diff := cmp.Diff(want, got.Coverage.Lines); diff != "" {
		t.Errorf("coverage mismatch (-want +got):\n%s", diff)
	}

	m := got.Coverage.Measures()
	assert.Equal(t, 2, m.LinesToCover)
	assert.Equal(t, 1, m.CoveredLines)
	assert.Equal(t, 2, m.ConditionsToCover)
	assert.Equal(t, 1, m.CoveredConditions)
}

func TestRun_BadReportDoesNotStopOthers(t *testing.T) {
	_, rec, d := newFixture(t)

	summary := d.Run([]Report{
		{Kind: parser.KindCoverage, Path: "/proj/sonar-reports/coverage-bad.xml"},
		{Kind: parser.KindCoverage, Path: "/proj/sonar-reports/coverage.xml"},
	})

	require.Len(t, summary.Reports, 2)
	bad := summary.Reports[0]
	assert.Equal(t, StateFailed, bad.State)
	var parseErr *parser.ParseError
	assert.True(t, errors.As(bad.Err, &parseErr))
	assert.Equal(t, 0, bad.Emitted)

	assert.Equal(t, StateClosed, summary.Reports[1].State)
	assert.Equal(t, 1, summary.Failed())
	assert.Equal(t, 1, summary.Emitted())
	require.Len(t, rec.Coverage, 1)
	assert.Equal(t, "/proj/sonar-reports/coverage.xml", rec.Coverage[0].Report)
}

func TestProcess_OCLint(t *testing.T) {
	_, rec, d := newFixture(t)

	res := d.Process(Report{Kind: parser.KindOCLint, Path: "/proj/sonar-reports/oclint.xml"})
	require.NoError(t, res.Err)
	assert.Equal(t, ReportResult{
		Report:     Report{Kind: parser.KindOCLint, Path: "/proj/sonar-reports/oclint.xml"},
		State:      StateClosed,
		Emitted:    1,
		Unresolved: 2,
		Dropped:    1,
	}, res)

	require.Len(t, rec.Findings, 1)
	assert.Equal(t, sink.FindingRecord{
		Report: "/proj/sonar-reports/oclint.xml",
		Kind:   parser.KindOCLint,
		File:   model.InputFile{AbsPath: "/proj/App/Bar.m", RelPath: "App/Bar.m"},
		Finding: model.Finding{
			FilePath: "/proj/App/Bar.m",
			Line:     12,
			Column:   5,
			RuleKey:  "unused method parameter",
			Severity: model.SeverityMinor,
			Message:  "The parameter 'sender' is unused.",
		},
	}, rec.Findings[0])
}

func TestProcess_FindingsBeforeStreamErrorAreKept(t *testing.T) {
	_, rec, d := newFixture(t)

	res := d.Process(Report{Kind: parser.KindOCLint, Path: "/proj/sonar-reports/oclint-trunc.xml"})
	assert.Equal(t, StateFailed, res.State)
	var streamErr *parser.StreamError
	assert.True(t, errors.As(res.Err, &streamErr))
	assert.Equal(t, 1, res.Emitted)

	require.Len(t, rec.Findings, 1)
	assert.Equal(t, "first", rec.Findings[0].Finding.RuleKey)
}

func TestProcess_TextReports(t *testing.T) {
	_, rec, d := newFixture(t)

	summary := d.Run([]Report{
		{Kind: parser.KindSwiftLint, Path: "/proj/sonar-reports/app-swiftlint.txt"},
		{Kind: parser.KindTailor, Path: "/proj/sonar-reports/app-tailor.txt"},
	})

	swift := summary.Reports[0]
	assert.Equal(t, StateClosed, swift.State)
	assert.Equal(t, 1, swift.Emitted)
	assert.Equal(t, 1, swift.Unresolved)
	assert.Equal(t, 1, swift.Unparsed)

	tail := summary.Reports[1]
	assert.Equal(t, StateClosed, tail.State)
	assert.Equal(t, 1, tail.Emitted)

	require.Len(t, rec.Findings, 2)
	assert.Equal(t, parser.KindSwiftLint, rec.Findings[0].Kind)
	assert.Equal(t, "line_length", rec.Findings[0].Finding.RuleKey)
	assert.Equal(t, "Sources/Foo.swift", rec.Findings[0].File.RelPath)
	assert.Equal(t, parser.KindTailor, rec.Findings[1].Kind)
	assert.Equal(t, model.SeverityMajor, rec.Findings[1].Finding.Severity)
}

func TestProcess_MissingReport(t *testing.T) {
	_, rec, d := newFixture(t)

	res := d.Process(Report{Kind: parser.KindTailor, Path: "/proj/sonar-reports/none-tailor.txt"})
	assert.Equal(t, StateFailed, res.State)
	assert.True(t, errors.Is(res.Err, fs.ErrNotExist))
	assert.Empty(t, rec.Findings)
}

func TestProcess_UnknownKind(t *testing.T) {
	_, _, d := newFixture(t)
	res := d.Process(Report{Kind: parser.Kind(42), Path: "/proj/sonar-reports/app-tailor.txt"})
	assert.Equal(t, StateFailed, res.State)
	assert.Error(t, res.Err)
}

func TestSummary_WriteText(t *testing.T) {
	s := Summary{
		RunID: "abc",
		Reports: []ReportResult{
			{Report: Report{Kind: parser.KindCoverage, Path: "c.xml"}, State: StateClosed, Emitted: 2},
			{Report: Report{Kind: parser.KindTailor, Path: "t.txt"}, State: StateFailed},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, s.WriteText(&buf))
	out := buf.String()
	assert.Contains(t, out, "Cobertura")
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "Reports: 2, failed: 1, emitted: 2, unresolved: 0")
}
