package document

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Normalize rewrites v into the canonical shapes produced by encoding/json:
// map[string]any, []any, string, float64, bool and nil. Values that cannot
// be represented as JSON are rejected.
func Normalize(v any) (any, error) {
	if v == nil {
		return nil, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("value is not representable as JSON: %w", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to normalize value: %w", err)
	}
	return out, nil
}

// CloneValue returns a deep copy of a canonical value. Scalars are returned
// as is; maps and sequences are copied recursively.
func CloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = CloneValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = CloneValue(e)
		}
		return out
	default:
		return v
	}
}

// CloneSequence returns a deep copy of a canonical sequence. A nil sequence
// clones to an empty one, so callers always hand out something that
// serializes as [].
func CloneSequence(seq []any) []any {
	if seq == nil {
		return []any{}
	}
	return CloneValue(seq).([]any)
}

// Clone returns a deep copy of the document.
func Clone(doc Document) Document {
	if doc == nil {
		return New()
	}
	return CloneValue(map[string]any(doc)).(map[string]any)
}

// Equal reports deep structural equality of two canonical values.
func Equal(a, b any) bool {
	return reflect.DeepEqual(a, b)
}
