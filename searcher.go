package fzf

import (
	"context"
	"time"

	"github.com/lestrrat-go/pdebug"
	"github.com/wellle/fzf/filter"
	"github.com/wellle/fzf/hub"
	"github.com/wellle/fzf/line"
)

// Searcher is the single consumer of the event bus. It reacts to new
// input batches and to query changes, runs the matcher over the
// accumulated batches, and publishes the sorted result.
type Searcher struct {
	state *Fzf

	batches  [][]line.Line
	snapshot hub.QuerySnapshot
	loaded   bool
}

// progressMinDuration is how long a match pass must run before
// progress percentages are published.
const progressMinDuration = 500 * time.Millisecond

// Throttle bounds for non-user-initiated search cycles.
const (
	throttleMinDelay = 10 * time.Millisecond
	throttleMaxDelay = 200 * time.Millisecond
)

// NewSearcher creates a Searcher bound to the application state.
func NewSearcher(state *Fzf) *Searcher {
	return &Searcher{state: state}
}

// Loop runs the searcher until the context is cancelled or EvtQuit
// arrives.
func (s *Searcher) Loop(ctx context.Context, cancel func()) error {
	defer cancel()

	state := s.state
	backoff := throttleMinDelay

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		var events hub.Events
		state.Hub().Wait(func(pending hub.Events) {
			events = hub.Events{}
			for k, v := range pending {
				events[k] = v
			}
			pending.Clear()
		})

		if _, ok := events[hub.EvtQuit]; ok {
			return nil
		}

		dirty := false
		userInitiated := false

		if _, ok := events[hub.EvtReadNew]; ok {
			if batch := state.Source().DrainPending(); len(batch) > 0 {
				s.batches = append(s.batches, batch)
				state.RotateSpinner()
				state.MatchCache().Flush()
			}
			dirty = true
		}

		if _, ok := events[hub.EvtReadFin]; ok {
			if batch := state.Source().DrainPending(); len(batch) > 0 {
				s.batches = append(s.batches, batch)
				state.MatchCache().Flush()
			}
			s.loaded = true
			state.SetLoaded()
			dirty = true
		}

		if v, ok := events[hub.EvtSearchNew]; ok {
			if snap, ok := v.(hub.QuerySnapshot); ok {
				s.snapshot = snap
			}
			dirty = true
			userInitiated = true
		}

		if dirty && len(s.batches) > 0 {
			if interrupted := s.search(ctx); interrupted {
				// a fresher keystroke is pending; restart right away
				continue
			}
		}

		// Throttle reader-driven cycles so that a fast source does
		// not pin the matcher in a rematch loop
		if userInitiated {
			backoff = throttleMinDelay
			continue
		}
		if !s.loaded {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > throttleMaxDelay {
				backoff = throttleMaxDelay
			}
		}
	}
}

// interruptedBy reports whether a fresher query is pending on the bus.
func (s *Searcher) interruptedBy() bool {
	return s.state.Hub().Peek(hub.EvtSearchNew)
}

// search runs one full match pass and publishes the result. It returns
// true when the pass was abandoned because a fresher query arrived.
func (s *Searcher) search(ctx context.Context) bool {
	if pdebug.Enabled {
		g := pdebug.Marker("Searcher.search %q", s.snapshot.Text)
		defer g.End()
	}

	state := s.state
	queryText := s.snapshot.Text
	matcher := state.Matcher()

	if matcher.Empty(queryText) {
		// all lines, arrival order, nothing to highlight
		total := 0
		for _, b := range s.batches {
			total += len(b)
		}
		result := make([]line.Line, 0, total)
		for _, b := range s.batches {
			for _, l := range b {
				result = append(result, line.NewMatched(l, nil))
			}
		}
		s.publish(result)
		return false
	}

	cache := state.MatchCache()
	if cached, ok := cache.Get(queryText); ok {
		s.publish(cached)
		return false
	}

	cp, err := matcher.Compile(queryText)
	if err != nil {
		// an uncompilable query matches nothing
		s.publish(nil)
		return false
	}

	// Try to seed the scan from a shorter query's cached result
	prefix := runeSlice(queryText, 0, s.snapshot.CursorX)
	suffix := runeSlice(queryText, s.snapshot.CursorX, -1)
	if s.state.extended {
		prefix = filter.TrimPartialTerm(prefix)
	}

	universe := s.batches
	if seed, ok := cache.Seed(prefix, suffix); ok {
		universe = [][]line.Line{seed}
	}

	started := time.Now()
	progress := false
	perBatch := make([][]line.Line, 0, len(universe))
	total := 0
	for i, batch := range universe {
		matches, err := filter.Scan(cp, batch, nil, s.interruptedBy)
		if err != nil {
			// ErrInterrupted: keystrokes pre-empt in-flight searches
			if progress {
				state.SetProgress(-1)
			}
			return true
		}
		perBatch = append(perBatch, matches)
		total += len(matches)

		if time.Since(started) > progressMinDuration {
			progress = true
			state.SetProgress((i + 1) * 100 / len(universe))
			state.RequestDrawStatus()
		}
	}
	if progress {
		state.SetProgress(-1)
	}

	result := make([]line.Line, 0, total)
	if s.state.sortEnabled && total <= s.state.sortLimit {
		for _, m := range perBatch {
			result = append(result, m...)
		}
		filter.Sort(result)
	} else {
		// no sorting: newest batches first, arrival order within each
		for i := len(perBatch) - 1; i >= 0; i-- {
			result = append(result, perBatch[i]...)
		}
	}

	cache.Put(queryText, result)
	s.publish(result)
	return false
}

// publish atomically swaps in the new match list and redraws.
func (s *Searcher) publish(matches []line.Line) {
	state := s.state
	state.SetMatches(matches)
	state.RequestDraw(false)
	state.publishHook(matches, s.loaded)
}

// runeSlice returns the substring of s between the given character
// positions; end < 0 means the end of the string.
func runeSlice(s string, start, end int) string {
	runes := []rune(s)
	if start < 0 {
		start = 0
	}
	if start > len(runes) {
		start = len(runes)
	}
	if end < 0 || end > len(runes) {
		end = len(runes)
	}
	if start >= end {
		return ""
	}
	return string(runes[start:end])
}
