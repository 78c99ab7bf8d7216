// Package query holds the current query string as a rune buffer, with the
// editing primitives used by the input loop.
package query

import "sync"

// Query is the current query text. The buffer is indexed in characters,
// not bytes, so caret positions map directly onto it.
type Query struct {
	query []rune
	mutex sync.Mutex
}

func New() *Query {
	return &Query{}
}

func (q *Query) Set(s string) {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	q.query = []rune(s)
}

func (q *Query) Reset() {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	q.query = []rune(nil)
}

func (q *Query) String() string {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	return string(q.query)
}

func (q *Query) Len() int {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	return len(q.query)
}

func (q *Query) RuneAt(where int) rune {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	return q.query[where]
}

// StringRange returns the text between start and end (character
// indices), clamped to the buffer.
func (q *Query) StringRange(start, end int) string {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	if start < 0 {
		start = 0
	}
	if l := len(q.query); end > l {
		end = l
	}
	if start >= end {
		return ""
	}
	return string(q.query[start:end])
}

// DeleteRange removes the characters in [start, end), leaving
// everything else intact.
func (q *Query) DeleteRange(start, end int) {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	if start < 0 {
		return
	}

	l := len(q.query)
	if end > l {
		end = l
	}

	if start > end {
		return
	}

	copy(q.query[start:], q.query[end:])
	q.query = q.query[:l-(end-start)]
}

// InsertAt inserts a single character before position where.
func (q *Query) InsertAt(ch rune, where int) {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	q.insertAt([]rune{ch}, where)
}

// InsertStringAt inserts a string fragment before position where, and
// returns the number of characters inserted.
func (q *Query) InsertStringAt(s string, where int) int {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	runes := []rune(s)
	q.insertAt(runes, where)
	return len(runes)
}

func (q *Query) insertAt(runes []rune, where int) {
	if where >= len(q.query) {
		q.query = append(q.query, runes...)
		return
	}

	sq := q.query
	buf := make([]rune, len(sq)+len(runes))
	copy(buf, sq[:where])
	copy(buf[where:], runes)
	copy(buf[where+len(runes):], sq[where:])
	q.query = buf
}
