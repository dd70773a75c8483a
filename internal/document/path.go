package document

import (
	"sort"
	"strings"
)

// Document is the root of the in-memory tree. The root is always a map;
// nested values hold the canonical encoding/json shapes.
type Document = map[string]any

// New returns an empty document.
func New() Document {
	return make(map[string]any)
}

// Split breaks a dot-separated path into its segments. The empty path has no
// segments. There is no escaping, so keys addressed through paths may not
// contain dots.
func Split(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

// Get returns the value stored at path. The second return is false when an
// intermediate segment is missing or not a map, or when the terminal key is
// absent. The empty path is absent by definition.
func Get(doc Document, path string) (any, bool) {
	segs := Split(path)
	if len(segs) == 0 {
		return nil, false
	}

	var cur any = map[string]any(doc)
	for _, seg := range segs {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Has reports whether a value exists at path.
func Has(doc Document, path string) bool {
	_, ok := Get(doc, path)
	return ok
}

// Set stores value at path, creating intermediate maps for missing segments.
// An intermediate segment holding a non-map value is replaced with a fresh
// map and the value it held is discarded.
func Set(doc Document, path string, value any) error {
	segs := Split(path)
	if len(segs) == 0 {
		return ErrEmptyPath
	}

	cur := map[string]any(doc)
	for _, seg := range segs[:len(segs)-1] {
		next, ok := cur[seg].(map[string]any)
		if !ok {
			next = make(map[string]any)
			cur[seg] = next
		}
		cur = next
	}
	cur[segs[len(segs)-1]] = value
	return nil
}

// Delete removes the value at path and reports whether anything was removed.
// With prune enabled, ancestor maps left empty by the removal are deleted as
// well, walking from the deleted key's parent toward the root. The root map
// itself is never removed.
func Delete(doc Document, path string, prune bool) bool {
	segs := Split(path)
	if len(segs) == 0 {
		return false
	}

	// containers[i] is the map holding segs[i].
	containers := make([]map[string]any, 0, len(segs))
	cur := map[string]any(doc)
	for _, seg := range segs[:len(segs)-1] {
		containers = append(containers, cur)
		next, ok := cur[seg].(map[string]any)
		if !ok {
			return false
		}
		cur = next
	}
	containers = append(containers, cur)

	last := segs[len(segs)-1]
	if _, ok := cur[last]; !ok {
		return false
	}
	delete(cur, last)

	if prune {
		for i := len(containers) - 1; i > 0; i-- {
			if len(containers[i]) != 0 {
				break
			}
			delete(containers[i-1], segs[i-1])
		}
	}
	return true
}

// Keys lists the child keys of the map at path in sorted order. The empty
// path lists the root. The second return is false when path is absent or its
// value is not a map.
func Keys(doc Document, path string) ([]string, bool) {
	m := map[string]any(doc)
	if path != "" {
		v, ok := Get(doc, path)
		if !ok {
			return nil, false
		}
		if m, ok = v.(map[string]any); !ok {
			return nil, false
		}
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, true
}
