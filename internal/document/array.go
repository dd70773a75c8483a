package document

import "fmt"

// sequenceAt resolves the sequence at path. An absent path yields a nil
// sequence so callers start from empty; a present non-sequence value is a
// type mismatch.
func sequenceAt(doc Document, path string) ([]any, error) {
	v, ok := Get(doc, path)
	if !ok {
		return nil, nil
	}
	seq, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("path %q holds %T: %w", path, v, ErrNotSequence)
	}
	return seq, nil
}

// Push appends value to the sequence at path, creating the sequence when the
// path is absent, and returns the result.
func Push(doc Document, path string, value any) ([]any, error) {
	seq, err := sequenceAt(doc, path)
	if err != nil {
		return nil, err
	}
	seq = append(seq, value)
	if err := Set(doc, path, seq); err != nil {
		return nil, err
	}
	return seq, nil
}

// Unpush removes every element of the sequence at path that is deep-equal to
// value and returns what remains. An absent path is materialized as an empty
// sequence.
func Unpush(doc Document, path string, value any) ([]any, error) {
	seq, err := sequenceAt(doc, path)
	if err != nil {
		return nil, err
	}
	kept := make([]any, 0, len(seq))
	for _, el := range seq {
		if !Equal(el, value) {
			kept = append(kept, el)
		}
	}
	if err := Set(doc, path, kept); err != nil {
		return nil, err
	}
	return kept, nil
}

// SetByPriority replaces the element at the 1-based position priority and
// returns the sequence. Positions outside 1..len are rejected; sequences are
// never extended with holes.
func SetByPriority(doc Document, path string, value any, priority int) ([]any, error) {
	seq, err := sequenceAt(doc, path)
	if err != nil {
		return nil, err
	}
	if priority < 1 || priority > len(seq) {
		return nil, fmt.Errorf("%w: %d of %d", ErrPriorityOutOfRange, priority, len(seq))
	}
	seq[priority-1] = value
	if err := Set(doc, path, seq); err != nil {
		return nil, err
	}
	return seq, nil
}

// DelByPriority removes the element at the 1-based position priority and
// returns the sequence. Positions outside 1..len leave the sequence
// unchanged; an absent path is materialized as an empty sequence.
func DelByPriority(doc Document, path string, priority int) ([]any, error) {
	seq, err := sequenceAt(doc, path)
	if err != nil {
		return nil, err
	}
	if priority < 1 || priority > len(seq) {
		if seq == nil {
			seq = []any{}
		}
		if err := Set(doc, path, seq); err != nil {
			return nil, err
		}
		return seq, nil
	}

	out := make([]any, 0, len(seq)-1)
	out = append(out, seq[:priority-1]...)
	out = append(out, seq[priority:]...)
	if err := Set(doc, path, out); err != nil {
		return nil, err
	}
	return out, nil
}
