package filter_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wellle/fzf/filter"
)

func TestCacheGetPutFlush(t *testing.T) {
	c := filter.NewCache()

	_, ok := c.Get("ab")
	assert.False(t, ok)

	c.Put("ab", makeLines("abc"))
	got, ok := c.Get("ab")
	require.True(t, ok)
	assert.Equal(t, []string{"abc"}, matchTexts(got))

	c.Flush()
	_, ok = c.Get("ab")
	assert.False(t, ok, "flush drops everything")
}

func TestCacheSeedFromPrefix(t *testing.T) {
	c := filter.NewCache()
	c.Put("ab", makeLines("abc", "abd"))

	// query "abc" typed at the end: prefix "abc", suffix ""
	seed, ok := c.Seed("abc", "")
	require.True(t, ok)
	assert.Equal(t, []string{"abc", "abd"}, matchTexts(seed))
}

func TestCacheSeedPrefersLongestPrefix(t *testing.T) {
	c := filter.NewCache()
	c.Put("a", makeLines("a1", "a2", "a3"))
	c.Put("ab", makeLines("a1"))

	seed, ok := c.Seed("abc", "")
	require.True(t, ok)
	assert.Equal(t, []string{"a1"}, matchTexts(seed))
}

func TestCacheSeedFromSuffix(t *testing.T) {
	c := filter.NewCache()
	c.Put("bc", makeLines("xbc"))

	// caret at 0, query "abc": prefix "", suffix "abc";
	// the cached suffix "bc" can seed
	seed, ok := c.Seed("", "abc")
	require.True(t, ok)
	assert.Equal(t, []string{"xbc"}, matchTexts(seed))
}

func TestCacheSeedPicksSmaller(t *testing.T) {
	c := filter.NewCache()
	c.Put("a", makeLines("a1", "a2", "a3"))
	c.Put("c", makeLines("c1"))

	seed, ok := c.Seed("ab", "c")
	require.True(t, ok)
	assert.Equal(t, []string{"c1"}, matchTexts(seed))
}

func TestCacheSeedMisses(t *testing.T) {
	c := filter.NewCache()
	_, ok := c.Seed("abc", "")
	assert.False(t, ok)

	// the full query itself is not a seed candidate
	c.Put("abc", makeLines("abc"))
	_, ok = c.Seed("", "abc")
	assert.False(t, ok)
}

// Prefix subsumption: scanning a cached seed gives the same result as
// scanning the full corpus, for any appended character.
func TestSeededScanEqualsFullScan(t *testing.T) {
	corpus := makeLines(
		"Makefile", "main.c", "main.h", "mercury", "marble",
		"README", "cargo.toml", "camera", "macro",
	)

	m := filter.NewFuzzy(filter.CaseSmart)
	c := filter.NewCache()

	query := ""
	for _, ch := range "mac" {
		query += string(ch)

		cp, err := m.Compile(query)
		require.NoError(t, err)

		universe := corpus
		if seed, ok := c.Seed(query, ""); ok {
			universe = seed
		}

		seeded, err := filter.Scan(cp, universe, nil, nil)
		require.NoError(t, err)
		full, err := filter.Scan(cp, corpus, nil, nil)
		require.NoError(t, err)

		assert.Equal(t, matchTexts(full), matchTexts(seeded), "query %q", query)
		assert.True(t, len(seeded) <= len(universe),
			fmt.Sprintf("matches(%q) must be a subset of the seed", query))

		c.Put(query, seeded)
	}
}
