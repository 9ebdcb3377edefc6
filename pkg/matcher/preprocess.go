package matcher

import (
	"log/slog"
	"strings"
)

// Preprocess normalizes a list of names: each string is trimmed and
// lower-cased, and elements that are not strings are skipped with a warning.
// A nil list is ErrNotAList.
func Preprocess(items []any) ([]string, error) {
	return preprocess(items, func(item any) {
		slog.Warn("skipping non-string element during preprocessing", "element", item)
	})
}

// PreprocessStrings trims and lower-cases every name.
func PreprocessStrings(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = normalize(n)
	}
	return out
}

func preprocess(items []any, skip func(any)) ([]string, error) {
	if items == nil {
		return nil, ErrNotAList
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			skip(item)
			continue
		}
		out = append(out, normalize(s))
	}
	return out, nil
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
