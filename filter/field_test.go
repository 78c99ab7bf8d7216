package filter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wellle/fzf/filter"
)

func TestFieldAwkTokenization(t *testing.T) {
	m := filter.NewField(filter.NewFuzzy(filter.CaseSmart), []int{2}, "")

	got := apply(t, m, "b", makeLines("  alpha   beta"))
	require.Len(t, got, 1)
	// offsets are absolute: "beta" starts at byte 10
	assert.Equal(t, [][]int{{10, 11}}, indicesOf(t, got[0]))
}

func TestFieldFirstMatchingIndexWins(t *testing.T) {
	m := filter.NewField(filter.NewFuzzy(filter.CaseSmart), []int{1, 2}, "")

	got := apply(t, m, "b", makeLines("bar baz"))
	require.Len(t, got, 1)
	assert.Equal(t, [][]int{{0, 1}}, indicesOf(t, got[0]), "field 1 matches, field 2 never tried")
}

func TestFieldNegativeIndex(t *testing.T) {
	m := filter.NewField(filter.NewFuzzy(filter.CaseSmart), []int{-1}, "")

	got := apply(t, m, "c", makeLines("aaa bbb ccc"))
	require.Len(t, got, 1)
	assert.Equal(t, [][]int{{8, 9}}, indicesOf(t, got[0]))
}

func TestFieldIndexOutOfRange(t *testing.T) {
	m := filter.NewField(filter.NewFuzzy(filter.CaseSmart), []int{5, 1}, "")

	// index 5 contributes nothing, index 1 still considered
	got := apply(t, m, "a", makeLines("abc"))
	assert.Len(t, got, 1)

	m = filter.NewField(filter.NewFuzzy(filter.CaseSmart), []int{5}, "")
	got = apply(t, m, "a", makeLines("abc"))
	assert.Empty(t, got)
}

func TestFieldCustomDelimiter(t *testing.T) {
	m := filter.NewField(filter.NewFuzzy(filter.CaseSmart), []int{2}, ":")

	got := apply(t, m, "bar", makeLines("foo:bar:baz"))
	require.Len(t, got, 1)
	assert.Equal(t, [][]int{{4, 7}}, indicesOf(t, got[0]))
}

func TestFieldDelimiterNeverMatches(t *testing.T) {
	// the whole line becomes a single field
	m := filter.NewField(filter.NewFuzzy(filter.CaseSmart), []int{1}, "@")

	got := apply(t, m, "z", makeLines("xyz"))
	require.Len(t, got, 1)
	assert.Equal(t, [][]int{{2, 3}}, indicesOf(t, got[0]))

	m = filter.NewField(filter.NewFuzzy(filter.CaseSmart), []int{2}, "@")
	got = apply(t, m, "z", makeLines("xyz"))
	assert.Empty(t, got)
}

func TestFieldInvalidDelimiterFallsBackToLiteral(t *testing.T) {
	// "[" is not a valid regex; it is demoted to a literal delimiter
	m := filter.NewField(filter.NewFuzzy(filter.CaseSmart), []int{2}, "[")

	got := apply(t, m, "bar", makeLines("foo[bar"))
	require.Len(t, got, 1)
	assert.Equal(t, [][]int{{4, 7}}, indicesOf(t, got[0]))
}

func TestFieldEmptyQuerySelectsAll(t *testing.T) {
	m := filter.NewField(filter.NewFuzzy(filter.CaseSmart), []int{7}, "")

	// an empty query matches even when every index is out of range
	got := apply(t, m, "", makeLines("a b"))
	assert.Len(t, got, 1)
}

func TestFieldWrapsExtended(t *testing.T) {
	m := filter.NewField(filter.NewExtended(filter.CaseSmart, false), []int{2}, "")

	got := apply(t, m, "^beta", makeLines("alpha beta ", "beta alpha"))
	assert.Equal(t, []string{"alpha beta "}, matchTexts(got))
}
