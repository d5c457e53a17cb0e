package cobertura

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"

	"github.com/IgorBayerl/swift-report-ingest/internal/model"
	"github.com/IgorBayerl/swift-report-ingest/internal/xmlcursor"
)

// CoberturaParser reads Cobertura XML coverage reports.
type CoberturaParser struct {
	logger hclog.Logger
}

// NewCoberturaParser creates a new CoberturaParser. A nil logger discards output.
func NewCoberturaParser(logger hclog.Logger) *CoberturaParser {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &CoberturaParser{logger: logger}
}

// Name returns the name of the parser.
func (cp *CoberturaParser) Name() string {
	return "Cobertura"
}

// Parse streams the report and returns one FileCoverage per distinct class
// filename, in the order the filenames were first seen. Nothing is returned
// on error: a later <class> could still have changed any file's data.
func (cp *CoberturaParser) Parse(r io.Reader) ([]model.FileCoverage, error) {
	root, err := xmlcursor.Open(r)
	if err != nil {
		return nil, err
	}
	if root.Name() != "coverage" {
		cp.logger.Warn("Unexpected root element in coverage report", "element", root.Name())
	}

	acc, err := cp.collectPackages(root, newFileAccumulator())
	if err != nil {
		return nil, fmt.Errorf("reading coverage report: %w", err)
	}
	return acc.results(), nil
}
