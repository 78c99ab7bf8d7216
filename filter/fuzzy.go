package filter

import (
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// Fuzzy is the plain fuzzy matcher. A query of runes c1..cn compiles to
// a regex equivalent of c1[^c2]*?c2...cn: between consecutive query
// runes, lazily skip characters not equal to the next query rune.
// This pins the match to the leftmost occurrence of each query rune not
// already consumed.
type Fuzzy struct {
	caseMode CaseMode
	mutex    sync.Mutex
	patterns map[string]*regexp.Regexp
}

// NewFuzzy creates a fuzzy matcher with the given case policy.
func NewFuzzy(mode CaseMode) *Fuzzy {
	return &Fuzzy{
		caseMode: mode,
		patterns: make(map[string]*regexp.Regexp),
	}
}

func (f *Fuzzy) String() string {
	return "Fuzzy"
}

// Empty reports whether the query selects the whole input.
func (f *Fuzzy) Empty(query string) bool {
	return len(query) == 0
}

// Compile returns the compiled form of query, reusing a previously
// compiled pattern when available.
func (f *Fuzzy) Compile(query string) (Compiled, error) {
	if f.Empty(query) {
		return matchAll{}, nil
	}

	f.mutex.Lock()
	defer f.mutex.Unlock()

	rx, ok := f.patterns[query]
	if !ok {
		var err error
		rx, err = regexp.Compile(fuzzyPattern(query, f.caseMode.Sensitive(query)))
		if err != nil {
			return nil, errors.Wrap(err, "failed to compile fuzzy pattern")
		}
		f.patterns[query] = rx
	}
	return &fuzzyCompiled{rx: rx}, nil
}

// classEscape escapes r for use inside a negated character class.
func classEscape(r rune) string {
	switch r {
	case '\\', ']', '^', '-':
		return `\` + string(r)
	}
	return string(r)
}

// fuzzyPattern builds the regex source for query. The between-rune
// policy is uniform for all runes, including ones that need escaping:
// greedily avoid the next query rune.
func fuzzyPattern(query string, sensitive bool) string {
	var b strings.Builder
	if !sensitive {
		b.WriteString("(?i)")
	}

	first := true
	for _, r := range query {
		if !first {
			b.WriteString("[^")
			b.WriteString(classEscape(r))
			b.WriteString("]*?")
		}
		b.WriteString(regexp.QuoteMeta(string(r)))
		first = false
	}
	return b.String()
}

type fuzzyCompiled struct {
	rx *regexp.Regexp
}

// MatchLine returns the [begin, end) span of the whole pattern match.
// Lines that are not valid UTF-8 never match, but stay in the corpus.
func (c *fuzzyCompiled) MatchLine(txt string) ([][]int, bool) {
	if !utf8.ValidString(txt) {
		return nil, false
	}
	m := c.rx.FindStringIndex(txt)
	if m == nil {
		return nil, false
	}
	return [][]int{m}, true
}
