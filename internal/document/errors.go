package document

import "errors"

var (
	// ErrEmptyPath is returned by mutating operations invoked with an empty path.
	ErrEmptyPath = errors.New("empty path")

	// ErrNotSequence is returned by sequence operations when the value at the
	// path exists but is not a sequence.
	ErrNotSequence = errors.New("value is not a sequence")

	// ErrPriorityOutOfRange is returned when a 1-based position lies outside
	// the target sequence.
	ErrPriorityOutOfRange = errors.New("priority out of range")
)
