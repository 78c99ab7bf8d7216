package filter

import (
	"sort"

	"github.com/wellle/fzf/line"
)

// MatchIndexer is implemented by lines that carry match offsets.
type MatchIndexer interface {
	Indices() [][]int
}

// SpanLength returns the total length of the union of the given
// intervals, collapsing overlaps with a single sweep. The intervals are
// assumed sorted by start position, which is how every matcher in this
// package produces them.
func SpanLength(indices [][]int) int {
	total := 0
	end := -1
	for _, m := range indices {
		begin := m[0]
		if begin < end {
			begin = end
		}
		if m[1] > begin {
			total += m[1] - begin
		}
		if m[1] > end {
			end = m[1]
		}
	}
	return total
}

// rankKey orders matches: tightly clustered matches in shorter lines
// first, ties broken lexicographically.
type rankKey struct {
	span   int
	length int
	text   string
}

func (a rankKey) less(b rankKey) bool {
	if a.span != b.span {
		return a.span < b.span
	}
	if a.length != b.length {
		return a.length < b.length
	}
	return a.text < b.text
}

func keyFor(l line.Line) rankKey {
	k := rankKey{length: len(l.Text()), text: l.Text()}
	if ix, ok := l.(MatchIndexer); ok {
		k.span = SpanLength(ix.Indices())
	}
	return k
}

// Sort orders matches by the rank key (span length, line length, line
// text), ascending. The key is a total order modulo equal lines, so
// sorting is idempotent.
func Sort(matches []line.Line) {
	keys := make([]rankKey, len(matches))
	for i, l := range matches {
		keys[i] = keyFor(l)
	}
	sort.Sort(&byRank{keys: keys, matches: matches})
}

type byRank struct {
	keys    []rankKey
	matches []line.Line
}

func (r *byRank) Len() int {
	return len(r.matches)
}

func (r *byRank) Swap(i, j int) {
	r.keys[i], r.keys[j] = r.keys[j], r.keys[i]
	r.matches[i], r.matches[j] = r.matches[j], r.matches[i]
}

func (r *byRank) Less(i, j int) bool {
	return r.keys[i].less(r.keys[j])
}
