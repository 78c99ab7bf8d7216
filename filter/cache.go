package filter

import (
	"sync"

	"github.com/wellle/fzf/line"
)

// Cache memoizes match results per query text for the current batch
// set. Because a fuzzy query only ever narrows as it grows, the cached
// result of a shorter query can seed the scan universe for a longer
// one. The cache must be flushed whenever a new batch arrives.
type Cache struct {
	mutex   sync.Mutex
	results map[string][]line.Line
}

// NewCache creates an empty match cache.
func NewCache() *Cache {
	c := &Cache{}
	c.Flush()
	return c
}

// Flush drops every cached result. Called on every new-batch event.
func (c *Cache) Flush() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.results = make(map[string][]line.Line)
}

// Get returns the cached match list for query, if any.
func (c *Cache) Get(query string) ([]line.Line, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	r, ok := c.results[query]
	return r, ok
}

// Put records the match list for query.
func (c *Cache) Put(query string, matches []line.Line) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.results[query] = matches
}

// Seed looks for a cached result of a shorter query that can stand in
// for the full corpus. prefix and suffix are the query split at the
// caret. Strict rune-prefixes of prefix are tried longest first, then
// rune-suffixes of suffix; the smaller of the two candidates wins.
func (c *Cache) Seed(prefix, suffix string) ([]line.Line, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	full := prefix + suffix

	var best []line.Line
	var found bool

	pr := []rune(prefix)
	for l := len(pr) - 1; l >= 1; l-- {
		if r, ok := c.results[string(pr[:l])]; ok {
			best = r
			found = true
			break
		}
	}

	sr := []rune(suffix)
	for i := 0; i < len(sr); i++ {
		cand := string(sr[i:])
		if cand == full {
			continue
		}
		if r, ok := c.results[cand]; ok {
			if !found || len(r) < len(best) {
				best = r
				found = true
			}
			break
		}
	}

	return best, found
}
