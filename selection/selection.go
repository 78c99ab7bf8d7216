// Package selection stores the lines picked in multi-select mode. The set
// remembers the order in which lines were selected, so that the final
// output is emitted in selection order, while still answering membership
// queries by line ID in O(log n).
package selection

import (
	"sync"

	"github.com/google/btree"
	"github.com/wellle/fzf/line"
)

// entry associates a selected line with the sequence number it was
// assigned when it entered the set. The B-tree is ordered by sequence
// number, which is what gives the set its insertion order.
type entry struct {
	seq  uint64
	line line.Line
}

// Less implements the btree.Item interface
func (e *entry) Less(b btree.Item) bool {
	other, ok := b.(*entry)
	if !ok {
		return false
	}
	return e.seq < other.seq
}

// Set stores the lines that were selected by the user, in the order
// they were selected.
type Set struct {
	mutex sync.RWMutex
	tree  *btree.BTree
	byID  map[uint64]*entry
	seq   uint64
}

// New creates a new empty Set.
func New() *Set {
	s := &Set{}
	s.Reset()
	return s
}

// Add adds a new line to the selection. If the line already exists in
// the selection, it is silently ignored, keeping its original position.
func (s *Set) Add(l line.Line) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.byID[l.ID()]; ok {
		return
	}
	e := &entry{seq: s.seq, line: l}
	s.seq++
	s.byID[l.ID()] = e
	s.tree.ReplaceOrInsert(e)
}

// Remove removes the specified line from the selection.
func (s *Set) Remove(l line.Line) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	e, ok := s.byID[l.ID()]
	if !ok {
		return
	}
	delete(s.byID, l.ID())
	s.tree.Delete(e)
}

// Reset clears all selected lines from the selection.
func (s *Set) Reset() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.tree = btree.New(32)
	s.byID = map[uint64]*entry{}
}

// Has reports whether the given line is in the selection.
func (s *Set) Has(l line.Line) bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	_, ok := s.byID[l.ID()]
	return ok
}

// Len returns the number of selected lines.
func (s *Set) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.tree.Len()
}

// Ascend iterates over selected lines in selection order, calling fn
// for each. Iteration stops when fn returns false.
func (s *Set) Ascend(fn func(line.Line) bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	s.tree.Ascend(func(it btree.Item) bool {
		e, ok := it.(*entry)
		if !ok {
			return true
		}
		return fn(e.line)
	})
}
