package filesystem

import (
	"io"
	"io/fs"
	"path"
	"strings"
	"testing/fstest"
)

// MemFS is an in-memory Filesystem rooted at "/". Keys of Files are absolute
// slash-separated paths; parent directories are implied.
type MemFS struct {
	Files fstest.MapFS
	Cwd   string
}

// NewMemFS creates a MemFS holding the given files, keyed by absolute path.
func NewMemFS(files map[string]string) *MemFS {
	m := &MemFS{Files: fstest.MapFS{}, Cwd: "/"}
	for name, content := range files {
		m.Add(name, content)
	}
	return m
}

// Add stores a file at the absolute path name.
func (m *MemFS) Add(name, content string) {
	m.Files[m.key(name)] = &fstest.MapFile{Data: []byte(content), Mode: 0o644}
}

func (m *MemFS) key(name string) string {
	if !path.IsAbs(name) {
		name = path.Join(m.Cwd, name)
	}
	k := strings.TrimPrefix(path.Clean(name), "/")
	if k == "" {
		return "."
	}
	return k
}

func (m *MemFS) Stat(name string) (fs.FileInfo, error) {
	return m.Files.Stat(m.key(name))
}

func (m *MemFS) ReadDir(name string) ([]fs.DirEntry, error) {
	return m.Files.ReadDir(m.key(name))
}

func (m *MemFS) Open(name string) (io.ReadCloser, error) {
	return m.Files.Open(m.key(name))
}

func (m *MemFS) Getwd() (string, error) {
	return m.Cwd, nil
}

func (m *MemFS) Abs(p string) (string, error) {
	if path.IsAbs(p) {
		return path.Clean(p), nil
	}
	return path.Join(m.Cwd, p), nil
}
