package model

import "sort"

// LineCoverage holds the coverage state of a single source line.
// CoveredConditions and TotalConditions are only meaningful when IsBranch is set.
type LineCoverage struct {
	LineNumber        int
	Hits              int
	IsBranch          bool
	CoveredConditions int
	TotalConditions   int
}

// FileCoverage is the merged coverage of one file as named by a coverage report.
type FileCoverage struct {
	FilePath string
	Lines    map[int]LineCoverage
}

// NewFileCoverage creates an empty aggregate for filePath.
func NewFileCoverage(filePath string) *FileCoverage {
	return &FileCoverage{
		FilePath: filePath,
		Lines:    make(map[int]LineCoverage),
	}
}

// SetLine stores lc under its line number, replacing any earlier entry.
func (fc *FileCoverage) SetLine(lc LineCoverage) {
	fc.Lines[lc.LineNumber] = lc
}

// SortedLines returns the lines ordered by line number.
func (fc *FileCoverage) SortedLines() []LineCoverage {
	lines := make([]LineCoverage, 0, len(fc.Lines))
	for _, lc := range fc.Lines {
		lines = append(lines, lc)
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].LineNumber < lines[j].LineNumber })
	return lines
}

// CoverageMeasures is the measure set a host platform stores for a file.
type CoverageMeasures struct {
	LineHits          map[int]int
	LinesToCover      int
	CoveredLines      int
	ConditionsToCover int
	CoveredConditions int
	// ConditionsByLine and CoveredConditionsByLine only contain branch lines.
	ConditionsByLine        map[int]int
	CoveredConditionsByLine map[int]int
}

// Measures derives the measure set from the line table.
func (fc *FileCoverage) Measures() CoverageMeasures {
	m := CoverageMeasures{
		LineHits:                make(map[int]int, len(fc.Lines)),
		ConditionsByLine:        make(map[int]int),
		CoveredConditionsByLine: make(map[int]int),
	}
	for number, lc := range fc.Lines {
		m.LineHits[number] = lc.Hits
		m.LinesToCover++
		if lc.Hits > 0 {
			m.CoveredLines++
		}
		if lc.IsBranch {
			m.ConditionsToCover += lc.TotalConditions
			m.CoveredConditions += lc.CoveredConditions
			m.ConditionsByLine[number] = lc.TotalConditions
			m.CoveredConditionsByLine[number] = lc.CoveredConditions
		}
	}
	return m
}
