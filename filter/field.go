package filter

import (
	"regexp"
	"sync"
)

// Field restricts a wrapped matcher to a set of 1-based fields. Negative
// indices count from the end of the line. The first configured field
// that matches wins, and its offsets are translated back to absolute
// positions in the line.
type Field struct {
	inner Matcher
	nth   []int
	delim *regexp.Regexp // nil means AWK tokenization

	mutex  sync.Mutex
	tokens map[string][]fieldToken
}

// fieldToken is one field of a tokenized line: its text and the byte
// length of everything that precedes it.
type fieldToken struct {
	text   string
	prefix int
}

// NewField wraps inner so that matching is restricted to the fields
// named by nth. delimiter is the field delimiter regex source; the empty
// string selects AWK tokenization, and a source that fails to compile
// falls back to matching the delimiter as a literal string.
func NewField(inner Matcher, nth []int, delimiter string) *Field {
	var delim *regexp.Regexp
	if delimiter != "" {
		delim = compileDelimiter(delimiter)
	}
	return &Field{
		inner:  inner,
		nth:    nth,
		delim:  delim,
		tokens: make(map[string][]fieldToken),
	}
}

// compileDelimiter wraps the user delimiter so that each token is the
// text up to and including one delimiter occurrence, with the remainder
// of the line as the final token.
func compileDelimiter(delimiter string) *regexp.Regexp {
	if _, err := regexp.Compile(delimiter); err != nil {
		delimiter = regexp.QuoteMeta(delimiter)
	}
	return regexp.MustCompile(`(?:.*?` + delimiter + `)|(?:.+?$)`)
}

func (f *Field) String() string {
	return f.inner.String()
}

func (f *Field) Empty(query string) bool {
	return f.inner.Empty(query)
}

func (f *Field) Compile(query string) (Compiled, error) {
	if f.inner.Empty(query) {
		return matchAll{}, nil
	}
	inner, err := f.inner.Compile(query)
	if err != nil {
		return nil, err
	}
	return &fieldCompiled{f: f, inner: inner}, nil
}

// tokenize splits txt into fields, memoizing the result. The memo is
// keyed by the line text; tokenization depends on nothing else, so the
// entries stay valid for the life of the session.
func (f *Field) tokenize(txt string) []fieldToken {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	toks, ok := f.tokens[txt]
	if !ok {
		if f.delim == nil {
			toks = tokenizeAwk(txt)
		} else {
			toks = tokenizeDelim(txt, f.delim)
		}
		f.tokens[txt] = toks
	}
	return toks
}

func isBlank(b byte) bool {
	return b == ' ' || b == '\t'
}

// tokenizeAwk tokenizes the way awk does by default: leading whitespace
// is ignored, and each field is a run of non-whitespace characters
// together with the whitespace that follows it.
func tokenizeAwk(s string) []fieldToken {
	var toks []fieldToken

	i := 0
	for i < len(s) && isBlank(s[i]) {
		i++
	}

	for i < len(s) {
		start := i
		for i < len(s) && !isBlank(s[i]) {
			i++
		}
		for i < len(s) && isBlank(s[i]) {
			i++
		}
		toks = append(toks, fieldToken{text: s[start:i], prefix: start})
	}
	return toks
}

// tokenizeDelim tokenizes along a compiled delimiter pattern. A
// delimiter that never matches leaves the entire line as a single field.
func tokenizeDelim(s string, re *regexp.Regexp) []fieldToken {
	var toks []fieldToken
	for _, m := range re.FindAllStringIndex(s, -1) {
		toks = append(toks, fieldToken{text: s[m[0]:m[1]], prefix: m[0]})
	}
	return toks
}

// pick resolves a 1-based signed field index against toks.
func pick(toks []fieldToken, ix int) (fieldToken, bool) {
	switch {
	case ix > 0 && ix <= len(toks):
		return toks[ix-1], true
	case ix < 0 && -ix <= len(toks):
		return toks[len(toks)+ix], true
	}
	return fieldToken{}, false
}

type fieldCompiled struct {
	f     *Field
	inner Compiled
}

// MatchLine tries each configured field in order and returns on the
// first one that matches, shifting the offsets by the byte length of
// the text preceding the field. An out-of-range index simply does not
// contribute a match.
func (c *fieldCompiled) MatchLine(txt string) ([][]int, bool) {
	toks := c.f.tokenize(txt)
	for _, ix := range c.f.nth {
		tok, ok := pick(toks, ix)
		if !ok {
			continue
		}
		indices, ok := c.inner.MatchLine(tok.text)
		if !ok {
			continue
		}
		shifted := make([][]int, 0, len(indices))
		for _, m := range indices {
			shifted = append(shifted, []int{m[0] + tok.prefix, m[1] + tok.prefix})
		}
		return shifted, true
	}
	return nil, false
}
