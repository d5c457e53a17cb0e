// Package pathresolver maps file paths found in reports onto the project's own
// source files.
package pathresolver

import (
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"github.com/IgorBayerl/swift-report-ingest/internal/model"
)

// FileIndex answers whether an absolute path belongs to the project.
type FileIndex interface {
	Lookup(absPath string) (model.InputFile, bool)
}

// Resolution is the outcome of resolving one report path. When Found is false
// Target is the zero value and AbsPath still holds the path that was tried.
type Resolution struct {
	ReportPath string
	AbsPath    string
	Target     model.InputFile
	Found      bool
}

// Resolve turns reportPath into an absolute path, joining relative paths onto
// rootDir, and looks the cleaned result up in index. Only exact matches count.
func Resolve(reportPath, rootDir string, index FileIndex) Resolution {
	abs := reportPath
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(rootDir, abs)
	}
	abs = filepath.Clean(abs)

	res := Resolution{ReportPath: reportPath, AbsPath: abs}
	res.Target, res.Found = index.Lookup(abs)
	return res
}

// Resolver binds a root directory and an index.
type Resolver struct {
	rootDir string
	index   FileIndex
	logger  hclog.Logger
}

// NewResolver creates a Resolver. A nil logger discards output.
func NewResolver(rootDir string, index FileIndex, logger hclog.Logger) *Resolver {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Resolver{rootDir: filepath.Clean(rootDir), index: index, logger: logger}
}

// Resolve resolves reportPath against the resolver's root directory.
func (r *Resolver) Resolve(reportPath string) Resolution {
	res := Resolve(reportPath, r.rootDir, r.index)
	if !res.Found {
		r.logger.Trace("Path not in project", "report_path", reportPath, "abs_path", res.AbsPath)
	}
	return res
}

// RootDir returns the directory relative report paths are joined onto.
func (r *Resolver) RootDir() string {
	return r.rootDir
}
