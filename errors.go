package lumedb

import (
	"errors"

	"github.com/wizardsarehere/LumeDB/internal/backup"
	"github.com/wizardsarehere/LumeDB/internal/document"
	"github.com/wizardsarehere/LumeDB/internal/persist"
)

var (
	// ErrClosed is returned by mutating operations on a closed store.
	ErrClosed = errors.New("store is closed")

	// ErrEmptyPath is returned by mutating operations invoked with an
	// empty path.
	ErrEmptyPath = document.ErrEmptyPath

	// ErrNotSequence is returned by sequence operations when the value at
	// the path exists but is not a sequence.
	ErrNotSequence = document.ErrNotSequence

	// ErrPriorityOutOfRange is returned by SetByPriority when the 1-based
	// position lies outside the target sequence.
	ErrPriorityOutOfRange = document.ErrPriorityOutOfRange

	// ErrInvalidDocument indicates persisted bytes that do not parse as a
	// JSON object.
	ErrInvalidDocument = persist.ErrInvalidDocument

	// ErrInvalidInterval rejects non-positive backup intervals.
	ErrInvalidInterval = backup.ErrInvalidInterval
)
