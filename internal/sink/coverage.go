package sink

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/IgorBayerl/swift-report-ingest/internal/model"
)

type genericCoverage struct {
	XMLName xml.Name      `xml:"coverage"`
	Version string        `xml:"version,attr"`
	Files   []genericFile `xml:"file"`
}

type genericFile struct {
	Path  string        `xml:"path,attr"`
	Lines []genericLine `xml:"lineToCover"`
}

type genericLine struct {
	LineNumber      int  `xml:"lineNumber,attr"`
	Covered         bool `xml:"covered,attr"`
	BranchesToCover *int `xml:"branchesToCover,attr,omitempty"`
	CoveredBranches *int `xml:"coveredBranches,attr,omitempty"`
}

// CoverageWriter collects coverage into the generic test coverage XML format
// understood by SonarQube. Coverage saved twice for the same file is merged
// line by line, the later save winning.
type CoverageWriter struct {
	files map[string]*model.FileCoverage
	order []string
}

func NewCoverageWriter() *CoverageWriter {
	return &CoverageWriter{files: make(map[string]*model.FileCoverage)}
}

func (w *CoverageWriter) SaveCoverage(file model.InputFile, coverage model.FileCoverage) {
	fc, ok := w.files[file.RelPath]
	if !ok {
		fc = model.NewFileCoverage(file.RelPath)
		w.files[file.RelPath] = fc
		w.order = append(w.order, file.RelPath)
	}
	for _, lc := range coverage.Lines {
		fc.SetLine(lc)
	}
}

func (w *CoverageWriter) SaveFinding(model.InputFile, model.Finding) {}

// Files returns the number of distinct files collected so far.
func (w *CoverageWriter) Files() int {
	return len(w.order)
}

// Write writes the collected coverage, files in first-save order and lines
// ascending.
func (w *CoverageWriter) Write(out io.Writer) error {
	doc := genericCoverage{Version: "1"}
	for _, path := range w.order {
		gf := genericFile{Path: path}
		for _, lc := range w.files[path].SortedLines() {
			gl := genericLine{LineNumber: lc.LineNumber, Covered: lc.Hits > 0}
			if lc.IsBranch && lc.TotalConditions > 0 {
				total, covered := lc.TotalConditions, lc.CoveredConditions
				gl.BranchesToCover = &total
				gl.CoveredBranches = &covered
			}
			gf.Lines = append(gf.Lines, gl)
		}
		doc.Files = append(doc.Files, gf)
	}

	if _, err := io.WriteString(out, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(out)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding coverage: %w", err)
	}
	_, err := io.WriteString(out, "\n")
	return err
}
