package pathresolver

import (
	"path/filepath"
	"strings"

	"github.com/IgorBayerl/swift-report-ingest/internal/filesystem"
	"github.com/IgorBayerl/swift-report-ingest/internal/model"
	"github.com/IgorBayerl/swift-report-ingest/internal/parser/filtering"
)

// FilesystemIndex treats every regular file below baseDir as a project file,
// except those rejected by the filter. The filter sees slash-separated paths
// relative to baseDir.
type FilesystemIndex struct {
	fs      filesystem.Filesystem
	baseDir string
	filter  filtering.IFilter
}

// NewFilesystemIndex creates an index over fsys. filter may be nil.
func NewFilesystemIndex(fsys filesystem.Filesystem, baseDir string, filter filtering.IFilter) *FilesystemIndex {
	return &FilesystemIndex{fs: fsys, baseDir: filepath.Clean(baseDir), filter: filter}
}

func (ix *FilesystemIndex) Lookup(absPath string) (model.InputFile, bool) {
	rel, ok := relativeTo(ix.baseDir, absPath)
	if !ok {
		return model.InputFile{}, false
	}
	info, err := ix.fs.Stat(absPath)
	if err != nil || !info.Mode().IsRegular() {
		return model.InputFile{}, false
	}
	if ix.filter != nil && !ix.filter.IsElementIncludedInReport(rel) {
		return model.InputFile{}, false
	}
	return model.InputFile{AbsPath: absPath, RelPath: rel}, true
}

// MapIndex is a fixed set of project files keyed by absolute path.
type MapIndex map[string]model.InputFile

// NewMapIndex builds a MapIndex from paths relative to baseDir.
func NewMapIndex(baseDir string, relPaths ...string) MapIndex {
	m := make(MapIndex, len(relPaths))
	for _, rel := range relPaths {
		abs := filepath.Join(baseDir, filepath.FromSlash(rel))
		m[abs] = model.InputFile{AbsPath: abs, RelPath: filepath.ToSlash(rel)}
	}
	return m
}

func (m MapIndex) Lookup(absPath string) (model.InputFile, bool) {
	f, ok := m[absPath]
	return f, ok
}

func relativeTo(baseDir, absPath string) (string, bool) {
	rel, err := filepath.Rel(baseDir, absPath)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
