package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wellle/fzf/query"
)

func TestBasicEditing(t *testing.T) {
	q := query.New()
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, "", q.String())

	q.Set("Hello, World!")
	assert.Equal(t, 13, q.Len())

	q.InsertAt('!', 5)
	assert.Equal(t, "Hello!, World!", q.String())

	q.DeleteRange(5, 6)
	assert.Equal(t, "Hello, World!", q.String())

	q.Reset()
	assert.Equal(t, 0, q.Len())
}

func TestInsertAtAppends(t *testing.T) {
	q := query.New()
	q.Set("abc")
	q.InsertAt('d', 3)
	assert.Equal(t, "abcd", q.String())
}

func TestInsertStringAt(t *testing.T) {
	q := query.New()
	q.Set("ac")
	n := q.InsertStringAt("日本", 1)
	assert.Equal(t, 2, n, "insert count is in characters, not bytes")
	assert.Equal(t, "a日本c", q.String())
	assert.Equal(t, 4, q.Len())
}

func TestDeleteRangeClamps(t *testing.T) {
	q := query.New()
	q.Set("abcdef")

	q.DeleteRange(4, 100)
	assert.Equal(t, "abcd", q.String())

	q.DeleteRange(-1, 2)
	assert.Equal(t, "abcd", q.String(), "negative start is a no-op")

	q.DeleteRange(3, 2)
	assert.Equal(t, "abcd", q.String(), "inverted range is a no-op")
}

func TestStringRange(t *testing.T) {
	q := query.New()
	q.Set("foo bar")
	assert.Equal(t, "foo", q.StringRange(0, 3))
	assert.Equal(t, "bar", q.StringRange(4, 7))
	assert.Equal(t, "bar", q.StringRange(4, 100))
	assert.Equal(t, "", q.StringRange(5, 3))
}

func TestRuneAt(t *testing.T) {
	q := query.New()
	q.Set("a日c")
	assert.Equal(t, '日', q.RuneAt(1))
}
