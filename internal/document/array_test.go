package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPush(t *testing.T) {
	doc := New()

	seq, err := Push(doc, "list", "first")
	require.NoError(t, err)
	assert.Equal(t, []any{"first"}, seq)

	seq, err = Push(doc, "list", "second")
	require.NoError(t, err)
	assert.Equal(t, []any{"first", "second"}, seq)

	v, ok := Get(doc, "list")
	require.True(t, ok)
	assert.Equal(t, []any{"first", "second"}, v)
}

func TestPush_NestedPath(t *testing.T) {
	doc := New()

	seq, err := Push(doc, "guild.members", "amara")
	require.NoError(t, err)
	assert.Equal(t, []any{"amara"}, seq)
	assert.True(t, Has(doc, "guild.members"))
}

func TestPush_TypeMismatch(t *testing.T) {
	doc := New()
	require.NoError(t, Set(doc, "name", "scalar"))

	_, err := Push(doc, "name", "x")
	assert.ErrorIs(t, err, ErrNotSequence)
}

func TestPush_EmptyPath(t *testing.T) {
	doc := New()
	_, err := Push(doc, "", "x")
	assert.ErrorIs(t, err, ErrEmptyPath)
}

func TestUnpush(t *testing.T) {
	doc := New()
	one := map[string]any{"id": float64(1)}
	two := map[string]any{"id": float64(2)}

	_, err := Push(doc, "list", one)
	require.NoError(t, err)
	_, err = Push(doc, "list", two)
	require.NoError(t, err)
	_, err = Push(doc, "list", map[string]any{"id": float64(1)})
	require.NoError(t, err)

	// Removal is by structural equality, so both {id:1} elements go
	seq, err := Unpush(doc, "list", map[string]any{"id": float64(1)})
	require.NoError(t, err)
	assert.Equal(t, []any{two}, seq)
}

func TestUnpush_AbsentMaterializesEmpty(t *testing.T) {
	doc := New()

	seq, err := Unpush(doc, "list", "x")
	require.NoError(t, err)
	assert.Equal(t, []any{}, seq)

	v, ok := Get(doc, "list")
	require.True(t, ok)
	assert.Equal(t, []any{}, v)
}

func TestSetByPriority(t *testing.T) {
	doc := New()
	for _, el := range []string{"a", "b", "c"} {
		_, err := Push(doc, "list", el)
		require.NoError(t, err)
	}

	seq, err := SetByPriority(doc, "list", "B", 2)
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "B", "c"}, seq)
}

func TestSetByPriority_OutOfRange(t *testing.T) {
	doc := New()
	_, err := Push(doc, "list", "a")
	require.NoError(t, err)

	for _, priority := range []int{0, -1, 2, 10} {
		_, err := SetByPriority(doc, "list", "x", priority)
		assert.ErrorIs(t, err, ErrPriorityOutOfRange, "priority %d", priority)
	}

	// The sequence is untouched after rejected positions
	v, _ := Get(doc, "list")
	assert.Equal(t, []any{"a"}, v)
}

func TestSetByPriority_AbsentPath(t *testing.T) {
	doc := New()
	_, err := SetByPriority(doc, "list", "x", 1)
	assert.ErrorIs(t, err, ErrPriorityOutOfRange)
}

func TestDelByPriority(t *testing.T) {
	doc := New()
	for _, el := range []string{"a", "b", "c"} {
		_, err := Push(doc, "list", el)
		require.NoError(t, err)
	}

	seq, err := DelByPriority(doc, "list", 1)
	require.NoError(t, err)
	assert.Equal(t, []any{"b", "c"}, seq)

	seq, err = DelByPriority(doc, "list", 2)
	require.NoError(t, err)
	assert.Equal(t, []any{"b"}, seq)
}

func TestDelByPriority_OutOfRangeIsNoop(t *testing.T) {
	doc := New()
	for _, el := range []string{"a", "b"} {
		_, err := Push(doc, "list", el)
		require.NoError(t, err)
	}

	for _, priority := range []int{0, -3, 3, 99} {
		seq, err := DelByPriority(doc, "list", priority)
		require.NoError(t, err)
		assert.Equal(t, []any{"a", "b"}, seq, "priority %d", priority)
	}
}

func TestDelByPriority_TypeMismatch(t *testing.T) {
	doc := New()
	require.NoError(t, Set(doc, "obj", map[string]any{"k": "v"}))

	_, err := DelByPriority(doc, "obj", 1)
	assert.ErrorIs(t, err, ErrNotSequence)
}
