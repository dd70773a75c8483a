package persist

import "errors"

var (
	// ErrInvalidDocument indicates persisted bytes that do not parse as a
	// JSON object.
	ErrInvalidDocument = errors.New("invalid document")
)
