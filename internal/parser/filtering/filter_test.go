package filtering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultFilter(t *testing.T) {
	tests := []struct {
		name    string
		filters []string
		input   string
		want    bool
	}{
		{"no filters include everything", nil, "Sources/Foo.swift", true},
		{"exclude pods", []string{"-Pods/*"}, "Pods/Alamofire/Request.swift", false},
		{"exclude is case-insensitive", []string{"-pods/*"}, "Pods/Alamofire/Request.swift", false},
		{"exclude leaves others", []string{"-Pods/*"}, "Sources/Foo.swift", true},
		{"include restricts", []string{"+Sources/*"}, "Tests/FooTests.swift", false},
		{"exclude wins over include", []string{"+Sources/*", "-*Generated*"}, "Sources/R.Generated.swift", false},
		{"question mark", []string{"-Foo?.m"}, "Foo1.m", false},
		{"backslash pattern matches slash path", []string{`-Vendor\*`}, "Vendor/lib.m", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, err := NewDefaultFilter(tc.filters, true)
			require.NoError(t, err)
			assert.Equal(t, tc.want, f.IsElementIncludedInReport(tc.input))
			assert.Equal(t, len(tc.filters) > 0, f.HasCustomFilters())
		})
	}
}

func TestNewDefaultFilter_Invalid(t *testing.T) {
	_, err := NewDefaultFilter([]string{"Pods/*"}, true)
	assert.Error(t, err)

	_, err = NewDefaultFilter([]string{"-"}, true)
	assert.Error(t, err)
}
