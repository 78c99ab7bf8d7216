// Package filter implements the matcher family: the plain fuzzy matcher,
// the extended boolean matcher with anchored/negated sub-patterns, and the
// field-restricted decorator. A matcher compiles a query once; the compiled
// form is then applied line by line.
package filter

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/wellle/fzf/internal/util"
	"github.com/wellle/fzf/line"
)

// ErrInterrupted is returned by Scan when a fresher query preempted the
// match pass in flight.
var ErrInterrupted = errors.New("match pass interrupted")

// CaseMode controls how queries are matched with respect to letter case.
type CaseMode int

const (
	// CaseSmart matches case-insensitively unless the query contains
	// an uppercase rune
	CaseSmart CaseMode = iota
	// CaseIgnore always matches case-insensitively
	CaseIgnore
	// CaseRespect always matches case-sensitively
	CaseRespect
)

// Sensitive reports whether the given query should be matched
// case-sensitively under this mode.
func (m CaseMode) Sensitive(query string) bool {
	switch m {
	case CaseRespect:
		return true
	case CaseIgnore:
		return false
	default:
		return util.ContainsUpper(query)
	}
}

// Compiled is a query compiled by a Matcher, ready to be applied to
// candidate lines. MatchLine returns the byte intervals that matched,
// and whether the line matched at all. Nil intervals with ok=true means
// the line matched but there is nothing to highlight.
type Compiled interface {
	MatchLine(txt string) ([][]int, bool)
}

// Matcher is the contract shared by the matcher variants.
type Matcher interface {
	String() string

	// Empty reports whether the query selects the whole input
	Empty(query string) bool

	Compile(query string) (Compiled, error)
}

// Config selects and parameterizes a matcher variant.
type Config struct {
	// Extended turns on the whitespace-separated sub-pattern grammar
	Extended bool
	// ExactTerms makes bare extended terms match literally instead of fuzzily
	ExactTerms bool
	Case       CaseMode
	// Nth restricts matching to the given 1-based (signed) fields
	Nth []int
	// Delimiter is the field delimiter regex source; empty means AWK rules
	Delimiter string
}

// New builds the matcher described by cfg. The field-restricted layer
// wraps whichever variant was selected.
func New(cfg Config) Matcher {
	var m Matcher
	if cfg.Extended {
		m = NewExtended(cfg.Case, cfg.ExactTerms)
	} else {
		m = NewFuzzy(cfg.Case)
	}
	if len(cfg.Nth) > 0 {
		m = NewField(m, cfg.Nth, cfg.Delimiter)
	}
	return m
}

// matchAll is the compiled form of an empty query.
type matchAll struct{}

func (matchAll) MatchLine(_ string) ([][]int, bool) {
	return nil, true
}

// interruptCheckInterval is how many lines are scanned between polls of
// the interrupt callback.
const interruptCheckInterval = 128

// Scan applies cp to lines in order, appending each match to out.
// interrupted, when non-nil, is polled at regular intervals; a pass that
// is abandoned returns out as accumulated so far along with
// ErrInterrupted.
func Scan(cp Compiled, lines []line.Line, out []line.Line, interrupted func() bool) ([]line.Line, error) {
	for i, l := range lines {
		if interrupted != nil && i%interruptCheckInterval == 0 && interrupted() {
			return out, ErrInterrupted
		}
		if indices, ok := cp.MatchLine(l.Text()); ok {
			out = append(out, line.NewMatched(l, indices))
		}
	}
	return out, nil
}

// sort related stuff
type byMatchStart [][]int

func (m byMatchStart) Len() int {
	return len(m)
}

func (m byMatchStart) Swap(i, j int) {
	m[i], m[j] = m[j], m[i]
}

func (m byMatchStart) Less(i, j int) bool {
	if m[i][0] < m[j][0] {
		return true
	}

	if m[i][0] == m[j][0] {
		return m[i][1]-m[i][0] < m[j][1]-m[j][0]
	}

	return false
}

func matchContains(a []int, b []int) bool {
	return a[0] <= b[0] && a[1] >= b[1]
}

func matchOverlaps(a []int, b []int) bool {
	return a[0] <= b[0] && a[1] >= b[0] ||
		a[0] <= b[1] && a[1] >= b[1]
}

func mergeMatches(a []int, b []int) []int {
	ret := make([]int, 2)

	if a[0] < b[0] {
		ret[0] = a[0]
	} else {
		ret[0] = b[0]
	}

	if a[1] < b[1] {
		ret[1] = b[1]
	} else {
		ret[1] = a[1]
	}
	return ret
}

// dedupeMatches sorts the intervals by start position and collapses
// overlapping, touching or contained intervals, so that the same region
// is never highlighted twice.
func dedupeMatches(matches [][]int) [][]int {
	if len(matches) == 0 {
		return matches
	}

	sort.Sort(byMatchStart(matches))

	deduped := make([][]int, 0, len(matches))
	for i, m := range matches {
		if i == 0 {
			deduped = append(deduped, m)
			continue
		}

		prev := deduped[len(deduped)-1]
		switch {
		case matchContains(prev, m):
			continue
		case matchOverlaps(prev, m):
			deduped[len(deduped)-1] = mergeMatches(prev, m)
		default:
			deduped = append(deduped, m)
		}
	}
	return deduped
}
