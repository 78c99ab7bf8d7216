package filter

import (
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// The extended query grammar, one term per whitespace-separated token:
//
//	word     fuzzy sub-match (literal substring when ExactTerms)
//	'word    exact substring
//	^word    literal prefix
//	word$    literal suffix
//	^word$   literal full line
//	!term    negation; contributes no offsets
//
// All terms must match (logical AND).
type termKind int

const (
	termFuzzy termKind = iota
	termExact
	termPrefix
	termSuffix
	termEqual
)

type term struct {
	kind termKind
	inv  bool
	text string
}

// Extended is the extended boolean matcher.
type Extended struct {
	caseMode   CaseMode
	exactTerms bool
	factory    *extendedQueryFactory
}

// extendedQueryFactory caches compiled queries, evicting entries that
// have not been used within the expiry threshold.
type extendedQueryFactory struct {
	compiled  map[string]extendedQuery
	mutex     sync.Mutex
	threshold time.Duration
}

type extendedQuery struct {
	positive []*regexp.Regexp
	negative []*regexp.Regexp
	lastUsed time.Time
}

const maxQueryCacheSize = 100

// NewExtended creates an extended matcher. When exactTerms is true,
// bare terms are matched as literal substrings instead of fuzzily.
func NewExtended(mode CaseMode, exactTerms bool) *Extended {
	return &Extended{
		caseMode:   mode,
		exactTerms: exactTerms,
		factory: &extendedQueryFactory{
			compiled:  make(map[string]extendedQuery),
			threshold: time.Minute,
		},
	}
}

func (e *Extended) String() string {
	if e.exactTerms {
		return "ExtendedExact"
	}
	return "ExtendedFuzzy"
}

// Empty reports whether the query selects the whole input. A query of
// only whitespace or bare anchors parses into zero terms and is empty.
func (e *Extended) Empty(query string) bool {
	return len(parseTerms(e.exactTerms, query)) == 0
}

// parseTerms splits the query on whitespace and strips the term markers.
// Tokens reduced to an empty text (a bare anchor or negation marker)
// are dropped.
func parseTerms(exactTerms bool, query string) []term {
	var terms []term
	for _, tok := range strings.Fields(query) {
		kind := termFuzzy
		if exactTerms {
			kind = termExact
		}
		inv := false
		text := tok

		if strings.HasPrefix(text, "!") {
			inv = true
			kind = termExact
			text = text[1:]
		}

		if strings.HasSuffix(text, "$") {
			kind = termSuffix
			text = text[:len(text)-1]
		}

		switch {
		case strings.HasPrefix(text, "'"):
			kind = termExact
			text = text[1:]
		case strings.HasPrefix(text, "^"):
			if kind == termSuffix {
				kind = termEqual
			} else {
				kind = termPrefix
			}
			text = text[1:]
		}

		if text == "" {
			continue
		}

		terms = append(terms, term{kind: kind, inv: inv, text: text})
	}
	return terms
}

// termPattern builds the regex source for a single term.
func termPattern(t term, sensitive bool) string {
	if t.kind == termFuzzy {
		return fuzzyPattern(t.text, sensitive)
	}

	var b strings.Builder
	if !sensitive {
		b.WriteString("(?i)")
	}

	if t.kind == termPrefix || t.kind == termEqual {
		b.WriteString("^")
	}
	b.WriteString(regexp.QuoteMeta(t.text))
	if t.kind == termSuffix || t.kind == termEqual {
		b.WriteString("$")
	}
	return b.String()
}

// Compile parses the query into positive and negative sub-patterns,
// reusing a cached compilation when available.
func (e *Extended) Compile(query string) (Compiled, error) {
	terms := parseTerms(e.exactTerms, query)
	if len(terms) == 0 {
		return matchAll{}, nil
	}

	positive, negative, err := e.factory.compile(query, terms, e.caseMode.Sensitive(query))
	if err != nil {
		return nil, err
	}
	return &extendedCompiled{positive: positive, negative: negative}, nil
}

func (f *extendedQueryFactory) compile(query string, terms []term, sensitive bool) (positive, negative []*regexp.Regexp, err error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	eq, ok := f.compiled[query]
	if ok {
		if time.Since(eq.lastUsed) < f.threshold {
			eq.lastUsed = time.Now()
			f.compiled[query] = eq
			return eq.positive, eq.negative, nil
		}
		delete(f.compiled, query)
	}

	for _, t := range terms {
		rx, rerr := regexp.Compile(termPattern(t, sensitive))
		if rerr != nil {
			return nil, nil, errors.Wrapf(rerr, "failed to compile term '%s'", t.text)
		}
		if t.inv {
			negative = append(negative, rx)
		} else {
			positive = append(positive, rx)
		}
	}

	// Evict stale entries if cache is over the size limit
	if len(f.compiled) >= maxQueryCacheSize {
		now := time.Now()
		for k, v := range f.compiled {
			if now.Sub(v.lastUsed) >= f.threshold {
				delete(f.compiled, k)
			}
		}
		if len(f.compiled) >= maxQueryCacheSize {
			f.compiled = make(map[string]extendedQuery)
		}
	}

	f.compiled[query] = extendedQuery{
		positive: positive,
		negative: negative,
		lastUsed: time.Now(),
	}
	return positive, negative, nil
}

type extendedCompiled struct {
	positive []*regexp.Regexp
	negative []*regexp.Regexp
}

// MatchLine requires every positive sub-pattern to match and every
// negative sub-pattern to miss. The returned offsets are the union of
// the positive sub-match intervals.
func (c *extendedCompiled) MatchLine(txt string) ([][]int, bool) {
	if !utf8.ValidString(txt) {
		return nil, false
	}

	for _, rx := range c.negative {
		if rx.MatchString(txt) {
			return nil, false
		}
	}

	// All-negative query: the line matches with nothing to highlight
	if len(c.positive) == 0 {
		return nil, true
	}

	matches := make([][]int, 0, len(c.positive))
	for _, rx := range c.positive {
		m := rx.FindStringIndex(txt)
		if m == nil {
			return nil, false
		}
		matches = append(matches, m)
	}

	return dedupeMatches(matches), true
}

// TrimPartialTerm cuts the trailing token fragment off an extended
// query, so that cache seeding never keys on an incomplete anchored or
// negated term.
func TrimPartialTerm(query string) string {
	trimmed := strings.TrimRight(query, " \t")
	if trimmed != query {
		// The caret sits after a separator: every token is complete
		return query
	}
	idx := strings.LastIndexAny(query, " \t")
	if idx < 0 {
		return ""
	}
	return query[:idx+1]
}
