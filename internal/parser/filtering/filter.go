// Package filtering decides which project files take part in an ingestion run.
// Filters use a small pattern language: each entry starts with '+' (include)
// or '-' (exclude), '*' matches any run of characters and '?' a single one.
// Matching is case-insensitive and anchored.
package filtering

import (
	"fmt"
	"regexp"
	"strings"
)

// IFilter defines an interface for filtering elements.
type IFilter interface {
	IsElementIncludedInReport(name string) bool
	HasCustomFilters() bool
}

// DefaultFilter is the default implementation of IFilter.
type DefaultFilter struct {
	includeFilters []*regexp.Regexp
	excludeFilters []*regexp.Regexp
	hasCustom      bool
}

// NewDefaultFilter compiles filters. With pathSeparatorAgnostic set, '/' and
// '\' in a pattern match either separator, which is what file path filters
// want.
func NewDefaultFilter(filters []string, pathSeparatorAgnostic bool) (*DefaultFilter, error) {
	df := &DefaultFilter{}
	var errs []string

	for _, f := range filters {
		f = strings.TrimSpace(f)
		switch {
		case f == "":
			continue
		case strings.HasPrefix(f, "+"):
			re, err := createFilterRegex(f, pathSeparatorAgnostic)
			if err != nil {
				errs = append(errs, fmt.Sprintf("invalid include filter '%s': %v", f, err))
				continue
			}
			df.includeFilters = append(df.includeFilters, re)
		case strings.HasPrefix(f, "-"):
			re, err := createFilterRegex(f, pathSeparatorAgnostic)
			if err != nil {
				errs = append(errs, fmt.Sprintf("invalid exclude filter '%s': %v", f, err))
				continue
			}
			df.excludeFilters = append(df.excludeFilters, re)
		default:
			errs = append(errs, fmt.Sprintf("filter '%s' must start with '+' or '-'", f))
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("error creating filter: %s", strings.Join(errs, "; "))
	}

	df.hasCustom = len(df.includeFilters) > 0 || len(df.excludeFilters) > 0

	// Without include filters everything not excluded is included.
	if len(df.includeFilters) == 0 {
		re, _ := createFilterRegex("+*", false)
		df.includeFilters = append(df.includeFilters, re)
	}

	return df, nil
}

// IsElementIncludedInReport reports whether name is included by at least one
// include filter and matched by no exclude filter.
func (df *DefaultFilter) IsElementIncludedInReport(name string) bool {
	for _, excludeRe := range df.excludeFilters {
		if excludeRe.MatchString(name) {
			return false
		}
	}

	for _, includeRe := range df.includeFilters {
		if includeRe.MatchString(name) {
			return true
		}
	}
	return false
}

// HasCustomFilters returns true if any include or exclude filters were specified.
func (df *DefaultFilter) HasCustomFilters() bool {
	return df.hasCustom
}

func createFilterRegex(filter string, pathSeparatorAgnostic bool) (*regexp.Regexp, error) {
	if len(filter) < 2 {
		return nil, fmt.Errorf("empty pattern")
	}
	pattern := regexp.QuoteMeta(filter[1:])

	// QuoteMeta escaped the wildcards; turn them back into regex syntax.
	pattern = strings.ReplaceAll(pattern, `\*`, ".*")
	pattern = strings.ReplaceAll(pattern, `\?`, ".")

	if pathSeparatorAgnostic {
		pattern = strings.ReplaceAll(pattern, `\\`, "/")
		pattern = strings.ReplaceAll(pattern, "/", `[/\\]`)
	}

	return regexp.Compile("(?i)^" + pattern + "$")
}
