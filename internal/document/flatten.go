package document

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Flatten returns every leaf of the document keyed by its dot path.
// Sequences, scalars and empty maps count as leaves; dot paths address maps
// only, so sequence elements are not descended into.
func Flatten(doc Document) map[string]any {
	out := make(map[string]any)
	flattenInto(out, "", map[string]any(doc))
	return out
}

func flattenInto(out map[string]any, prefix string, m map[string]any) {
	for k, v := range m {
		p := k
		if prefix != "" {
			p = prefix + "." + k
		}
		if sub, ok := v.(map[string]any); ok && len(sub) > 0 {
			flattenInto(out, p, sub)
			continue
		}
		out[p] = v
	}
}

// Match returns the flattened leaves whose dot path matches pattern.
// Patterns use glob syntax with "." as the separator: "users.*.age" matches
// one level, "users.**" matches any depth.
func Match(doc Document, pattern string) (map[string]any, error) {
	glob := strings.ReplaceAll(pattern, ".", "/")
	if !doublestar.ValidatePattern(glob) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}

	out := make(map[string]any)
	for p, v := range Flatten(doc) {
		matched, err := doublestar.Match(glob, strings.ReplaceAll(p, ".", "/"))
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		if matched {
			out[p] = v
		}
	}
	return out, nil
}
