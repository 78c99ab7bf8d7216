package fzf

import (
	"bufio"
	"context"
	"io"
	"sync"

	"github.com/lestrrat-go/pdebug"
	"github.com/wellle/fzf/hub"
	"github.com/wellle/fzf/line"
)

// Source is the reader side of the pipeline: it drains the input
// stream into a pending buffer that the searcher periodically moves
// into its batch list. Every append posts a coalesced EvtReadNew; EOF
// posts EvtReadFin exactly once.
type Source struct {
	idgen line.IDGenerator
	in    io.Reader
	name  string

	mutex   sync.RWMutex
	pending []line.Line
	count   int

	ready     chan struct{}
	setupDone chan struct{}
	setupOnce sync.Once
}

// NewSource creates a new Source. Reading does not start until Setup
// is called.
func NewSource(name string, in io.Reader, idgen line.IDGenerator) *Source {
	return &Source{
		idgen:     idgen,
		in:        in,
		name:      name,
		ready:     make(chan struct{}),
		setupDone: make(chan struct{}),
	}
}

func (s *Source) Name() string {
	return s.name
}

// Setup reads the input stream to EOF, publishing lines as they come.
func (s *Source) Setup(ctx context.Context, state *Fzf) {
	s.setupOnce.Do(func() {
		defer close(s.setupDone)

		// Deliver the finished event even if we bail out mid-stream
		defer state.Hub().Emit(hub.EvtReadFin, true)

		var notify sync.Once
		notifycb := func() {
			close(s.ready)
		}
		defer notify.Do(notifycb)

		if closer, ok := s.in.(io.Closer); ok {
			defer closer.Close()
		}

		scanned := 0
		if pdebug.Enabled {
			defer func() { pdebug.Printf("Source read %d lines", scanned) }()
		}

		scanner := bufio.NewScanner(s.in)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case <-ctx.Done():
				return
			default:
			}

			s.Append(line.NewRaw(s.idgen.Next(), scanner.Text()))
			scanned++
			notify.Do(notifycb)
			state.Hub().Emit(hub.EvtReadNew, true)
		}
	})
}

// Append adds one line to the pending buffer.
func (s *Source) Append(l line.Line) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.pending = append(s.pending, l)
	s.count++
}

// DrainPending moves the pending buffer out of the source. The
// returned slice is never mutated afterwards, so the caller may treat
// it as an immutable batch.
func (s *Source) DrainPending() []line.Line {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	batch := s.pending
	s.pending = nil
	return batch
}

// Count returns the total number of lines read so far. It only ever
// grows.
func (s *Source) Count() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.count
}

// Ready is closed as soon as the first line has been read, or the
// input turned out to be empty.
func (s *Source) Ready() <-chan struct{} {
	return s.ready
}

// SetupDone is closed once all input has been read.
func (s *Source) SetupDone() <-chan struct{} {
	return s.setupDone
}
