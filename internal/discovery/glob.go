// Package discovery finds report files by matching path names against glob
// patterns, relative to the project base directory. Supported syntax:
//   - `?`: Matches any single character in a file or directory name.
//   - `*`: Matches zero or more characters in a file or directory name.
//   - `**`: Matches zero or more nested directories.
//   - `[...]`: Matches a set of characters in a name (e.g., `[abc]`, `[a-z]`).
//   - `{group1,group2,...}`: Matches any of the pattern groups, which may
//     contain path separators.
//
// Matching is case-insensitive. Only regular files are returned.
package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/IgorBayerl/swift-report-ingest/internal/filesystem"
)

// regexSpecialChars are escaped when a glob segment is turned into a regex.
var regexSpecialChars = map[rune]bool{
	'[': true, '\\': true, '^': true, '$': true, '.': true, '|': true,
	'?': true, '*': true, '+': true, '(': true, ')': true, '{': true, '}': true,
}

// segmentMatcher matches one path segment, either literally or by regex.
type segmentMatcher struct {
	re      *regexp.Regexp
	literal string
}

func (m *segmentMatcher) matches(name string) bool {
	if m.re != nil {
		return m.re.MatchString(name)
	}
	return strings.EqualFold(m.literal, name)
}

// Finder expands glob patterns over a Filesystem.
type Finder struct {
	fs      filesystem.Filesystem
	baseDir string
	logger  hclog.Logger
	cache   map[string]*segmentMatcher
}

// NewFinder creates a Finder resolving relative patterns against baseDir.
// A nil logger discards output.
func NewFinder(fsys filesystem.Filesystem, baseDir string, logger hclog.Logger) *Finder {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Finder{
		fs:      fsys,
		baseDir: filepath.Clean(baseDir),
		logger:  logger,
		cache:   make(map[string]*segmentMatcher),
	}
}

// Find returns the absolute paths of the regular files matching pattern, in
// directory enumeration order, without duplicates. Unreadable directories
// are skipped with a warning; only a malformed pattern returns an error.
func (f *Finder) Find(pattern string) ([]string, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return []string{}, nil
	}

	alternatives, err := ungroup(pattern)
	if err != nil {
		return nil, err
	}

	results := []string{}
	seen := make(map[string]bool)
	for _, alt := range alternatives {
		start, segments := f.split(alt)
		matchers, err := f.compile(segments)
		if err != nil {
			return nil, err
		}
		for _, p := range f.expand(start, matchers) {
			if !seen[p] {
				seen[p] = true
				results = append(results, p)
			}
		}
	}
	return results, nil
}

// split returns the directory matching starts from and the remaining
// slash-separated segments.
func (f *Finder) split(pattern string) (string, []string) {
	native := filepath.FromSlash(strings.ReplaceAll(pattern, `\`, "/"))
	start := f.baseDir
	if filepath.IsAbs(native) {
		vol := filepath.VolumeName(native)
		start = vol + string(filepath.Separator)
		native = native[len(vol):]
	}

	var segments []string
	for _, s := range strings.Split(filepath.ToSlash(native), "/") {
		if s != "" && s != "." {
			segments = append(segments, s)
		}
	}
	return start, segments
}

// step is one compiled pattern segment. A nil matcher marks `**`, an empty
// step with parent set marks `..`.
type step struct {
	matcher *segmentMatcher
	parent  bool
}

func (f *Finder) compile(segments []string) ([]step, error) {
	steps := make([]step, 0, len(segments))
	for i, seg := range segments {
		switch seg {
		case "**":
			// Consecutive `**` segments are equivalent to one.
			if i > 0 && segments[i-1] == "**" {
				continue
			}
			steps = append(steps, step{})
		case "..":
			steps = append(steps, step{parent: true})
		default:
			m, err := f.matcherFor(seg)
			if err != nil {
				return nil, err
			}
			steps = append(steps, step{matcher: m})
		}
	}
	return steps, nil
}

func (f *Finder) matcherFor(segment string) (*segmentMatcher, error) {
	if m, ok := f.cache[segment]; ok {
		return m, nil
	}
	m := &segmentMatcher{literal: segment}
	if strings.ContainsAny(segment, "*?[]") {
		expr, err := globToRegexPattern(segment)
		if err != nil {
			return nil, err
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("failed to compile regex '%s' from glob segment '%s': %w", expr, segment, err)
		}
		m.re = re
	}
	f.cache[segment] = m
	return m, nil
}

// expand walks dir following steps and returns the matching regular files.
func (f *Finder) expand(dir string, steps []step) []string {
	if len(steps) == 0 {
		return nil
	}
	current, rest := steps[0], steps[1:]

	if current.parent {
		return f.expand(filepath.Dir(dir), rest)
	}

	entries, ok := f.readDir(dir)
	if !ok {
		return nil
	}

	var out []string
	if current.matcher == nil {
		// `**` matches zero directories here, or one more level below.
		if len(rest) == 0 {
			for _, e := range entries {
				if e.isFile {
					out = append(out, e.path)
				}
			}
		} else {
			out = append(out, f.expand(dir, rest)...)
		}
		for _, e := range entries {
			if e.isDir {
				out = append(out, f.expand(e.path, steps)...)
			}
		}
		return out
	}

	for _, e := range entries {
		if !current.matcher.matches(e.name) {
			continue
		}
		switch {
		case len(rest) == 0 && e.isFile:
			out = append(out, e.path)
		case len(rest) > 0 && e.isDir:
			out = append(out, f.expand(e.path, rest)...)
		}
	}
	return out
}

type entry struct {
	name   string
	path   string
	isDir  bool
	isFile bool
}

func (f *Finder) readDir(dir string) ([]entry, bool) {
	dirEntries, err := f.fs.ReadDir(dir)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			f.logger.Warn("Cannot read directory while searching for reports", "dir", dir, "error", err)
		}
		return nil, false
	}

	entries := make([]entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		e := entry{name: de.Name(), path: filepath.Join(dir, de.Name())}
		mode := de.Type()
		if mode&fs.ModeSymlink != 0 {
			info, err := f.fs.Stat(e.path)
			if err != nil {
				continue
			}
			mode = info.Mode()
		}
		e.isDir = mode.IsDir()
		e.isFile = mode.IsRegular()
		entries = append(entries, e)
	}
	return entries, true
}

// globToRegexPattern converts a glob pattern segment to a case-insensitive,
// anchored regular expression.
func globToRegexPattern(globSegment string) (string, error) {
	var regex strings.Builder
	regex.WriteString("(?i)^")

	inCharClass := false
	for _, r := range globSegment {
		if inCharClass {
			if r == ']' {
				inCharClass = false
			}
			regex.WriteRune(r)
			continue
		}

		switch r {
		case '*':
			regex.WriteString(".*")
		case '?':
			regex.WriteRune('.')
		case '[':
			inCharClass = true
			regex.WriteRune(r)
		default:
			if regexSpecialChars[r] {
				regex.WriteRune('\\')
			}
			regex.WriteRune(r)
		}
	}

	if inCharClass {
		return "", fmt.Errorf("unterminated character class in glob segment: %s", globSegment)
	}
	regex.WriteRune('$')
	return regex.String(), nil
}

// ungroup performs brace expansion, e.g. "{a,b}c" -> ["ac", "bc"]. Groups
// nest and may appear several times.
func ungroup(pattern string) ([]string, error) {
	if !strings.ContainsAny(pattern, "{}") {
		return []string{pattern}, nil
	}

	level := 0
	open := -1
	for i, ch := range pattern {
		switch ch {
		case '{':
			if level == 0 {
				open = i
			}
			level++
		case '}':
			level--
			if level < 0 {
				return nil, fmt.Errorf("unbalanced braces in pattern: %s", pattern)
			}
			if level == 0 {
				return expandGroup(pattern[:open], pattern[open+1:i], pattern[i+1:])
			}
		}
	}
	if level != 0 {
		return nil, fmt.Errorf("unbalanced braces in pattern: %s", pattern)
	}
	return []string{pattern}, nil
}

func expandGroup(prefix, content, suffix string) ([]string, error) {
	var parts []string
	var part strings.Builder
	depth := 0
	for _, ch := range content {
		switch {
		case ch == '{':
			depth++
		case ch == '}':
			depth--
		case ch == ',' && depth == 0:
			parts = append(parts, part.String())
			part.Reset()
			continue
		}
		part.WriteRune(ch)
	}
	parts = append(parts, part.String())

	suffixes, err := ungroup(suffix)
	if err != nil {
		return nil, err
	}

	var results []string
	for _, p := range parts {
		heads, err := ungroup(prefix + p)
		if err != nil {
			return nil, err
		}
		for _, h := range heads {
			for _, s := range suffixes {
				results = append(results, h+s)
			}
		}
	}
	return results, nil
}
