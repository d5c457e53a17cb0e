package parser

import (
	"fmt"
	"strings"
)

// ParseKind converts a configuration name ("coverage", "oclint", "swiftlint",
// "tailor") into a Kind. Matching is case-insensitive.
func ParseKind(name string) (Kind, error) {
	trimmed := strings.TrimSpace(name)
	for _, k := range Kinds {
		if strings.EqualFold(k.String(), trimmed) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unsupported report kind: %s", trimmed)
}

// ParseKinds converts a list of names, failing on the first unknown one.
func ParseKinds(names []string) ([]Kind, error) {
	kinds := make([]Kind, 0, len(names))
	for _, n := range names {
		k, err := ParseKind(n)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}
