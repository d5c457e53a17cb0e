package cobertura

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/IgorBayerl/swift-report-ingest/internal/model"
	"github.com/IgorBayerl/swift-report-ingest/internal/parser"
	"github.com/IgorBayerl/swift-report-ingest/internal/xmlcursor"
)

var (
	// conditionCoverageRegex captures "(covered/total)" from values such as "50% (1/2)".
	conditionCoverageRegex = regexp.MustCompile(`\(\s*(?P<Covered>\d+)\s*/\s*(?P<Total>\d+)\s*\)`)

	// hitsRegex accepts plain integers, English digit grouping and a decimal part.
	hitsRegex = regexp.MustCompile(`^(?:\d+|\d{1,3}(?:,\d{3})+)(?:\.\d+)?$`)

	errNotANumber       = errors.New("not a number")
	errOutOfRange       = errors.New("value out of range")
	errBadFraction      = errors.New("expected label(covered/total)")
	errCoveredOverTotal = errors.New("covered conditions exceed total conditions")
)

// fileAccumulator collects line data per class filename for one report.
type fileAccumulator struct {
	byName map[string]*model.FileCoverage
	order  []string
}

func newFileAccumulator() *fileAccumulator {
	return &fileAccumulator{byName: make(map[string]*model.FileCoverage)}
}

// fileFor returns the aggregate for filename, creating it on first sight.
func (acc *fileAccumulator) fileFor(filename string) *model.FileCoverage {
	fc, ok := acc.byName[filename]
	if !ok {
		fc = model.NewFileCoverage(filename)
		acc.byName[filename] = fc
		acc.order = append(acc.order, filename)
	}
	return fc
}

func (acc *fileAccumulator) results() []model.FileCoverage {
	files := make([]model.FileCoverage, 0, len(acc.order))
	for _, name := range acc.order {
		files = append(files, *acc.byName[name])
	}
	return files
}

// collectPackages walks every <package> of the report.
func (cp *CoberturaParser) collectPackages(root *xmlcursor.Cursor, acc *fileAccumulator) (*fileAccumulator, error) {
	packages := root.Descendants("package")
	for packages.Next() {
		pkg := packages.Cursor()
		name, _ := pkg.Attr("name")
		cp.logger.Trace("Reading package", "package", name)
		if err := cp.collectClasses(pkg, acc); err != nil {
			return nil, err
		}
	}
	if err := packages.Err(); err != nil {
		return nil, err
	}
	return acc, nil
}

// collectClasses merges every <class> of a package into the aggregate of its
// filename. Several classes may share one file (extensions, partial types).
func (cp *CoberturaParser) collectClasses(pkg *xmlcursor.Cursor, acc *fileAccumulator) error {
	classes := pkg.Descendants("class")
	for classes.Next() {
		class := classes.Cursor()
		filename, ok := class.Attr("filename")
		if !ok || strings.TrimSpace(filename) == "" {
			return &parser.StreamError{Element: "class", Err: fmt.Errorf("attribute filename: %w", xmlcursor.ErrMissingElement)}
		}
		if err := collectFileData(class, acc.fileFor(filename)); err != nil {
			return err
		}
	}
	return classes.Err()
}

// collectFileData reads <lines><line .../></lines> of one class.
func collectFileData(class *xmlcursor.Cursor, fc *model.FileCoverage) error {
	lines, err := class.Child("lines")
	if err != nil {
		return err
	}
	it := lines.Children("line")
	for it.Next() {
		lc, err := parseLine(it.Cursor())
		if err != nil {
			return err
		}
		fc.SetLine(lc)
	}
	return it.Err()
}

func parseLine(line *xmlcursor.Cursor) (model.LineCoverage, error) {
	numberAttr, _ := line.Attr("number")
	number, err := strconv.Atoi(strings.TrimSpace(numberAttr))
	if err != nil {
		return model.LineCoverage{}, &parser.ParseError{Element: "line", Attribute: "number", Value: numberAttr, Err: errNotANumber}
	}
	if number < 1 {
		return model.LineCoverage{}, &parser.ParseError{Element: "line", Attribute: "number", Value: numberAttr, Err: errOutOfRange}
	}

	hitsAttr, _ := line.Attr("hits")
	hits, err := parseHits(hitsAttr)
	if err != nil {
		return model.LineCoverage{}, &parser.ParseError{Element: "line", Attribute: "hits", Value: hitsAttr, Err: err}
	}

	lc := model.LineCoverage{LineNumber: number, Hits: hits}

	branch, _ := line.Attr("branch")
	text, _ := line.Attr("condition-coverage")
	if strings.EqualFold(strings.TrimSpace(branch), "true") && strings.TrimSpace(text) != "" {
		covered, total, err := parseConditionCoverage(text)
		if err != nil {
			return model.LineCoverage{}, &parser.ParseError{Element: "line", Attribute: "condition-coverage", Value: text, Err: err}
		}
		lc.IsBranch = true
		lc.CoveredConditions = covered
		lc.TotalConditions = total
	}
	return lc, nil
}

// parseHits parses a hit count independently of the host locale. Fractions
// are truncated.
func parseHits(value string) (int, error) {
	trimmed := strings.TrimSpace(value)
	if !hitsRegex.MatchString(trimmed) {
		return 0, errNotANumber
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(trimmed, ",", ""), 64)
	if err != nil || f >= math.MaxInt64 {
		return 0, errOutOfRange
	}
	return int(f), nil
}

// parseConditionCoverage extracts the pair from "label(covered/total)". The
// first number is the covered count, the second the total.
func parseConditionCoverage(text string) (covered, total int, err error) {
	match := conditionCoverageRegex.FindStringSubmatch(text)
	if match == nil {
		return 0, 0, errBadFraction
	}
	covered, err = strconv.Atoi(match[conditionCoverageRegex.SubexpIndex("Covered")])
	if err != nil {
		return 0, 0, errOutOfRange
	}
	total, err = strconv.Atoi(match[conditionCoverageRegex.SubexpIndex("Total")])
	if err != nil {
		return 0, 0, errOutOfRange
	}
	if covered > total {
		return 0, 0, errCoveredOverTotal
	}
	return covered, total, nil
}
