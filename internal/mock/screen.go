package mock

import (
	"context"
	"sync"
	"time"

	"github.com/wellle/fzf/ui"
)

// Screen is a ui.Screen implementation that records drawing calls and
// lets tests inject input events.
type Screen struct {
	*Interceptor
	mutex  sync.Mutex
	width  int
	height int
	cells  map[[2]int]rune
	pollCh chan ui.Event
}

func NewScreen() *Screen {
	return &Screen{
		Interceptor: NewInterceptor(),
		width:       80,
		height:      10,
		cells:       make(map[[2]int]rune),
		pollCh:      make(chan ui.Event),
	}
}

// Resize changes the pretend terminal dimensions.
func (d *Screen) Resize(w, h int) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.width = w
	d.height = h
}

func (d *Screen) Init(_ ui.InitOptions) error {
	return nil
}

func (d *Screen) Close() error {
	return nil
}

func (d *Screen) SetCursor(_, _ int) {}

func (d *Screen) SetCell(x, y int, ch rune, _ ui.Style) {
	d.mutex.Lock()
	d.cells[[2]int{x, y}] = ch
	d.mutex.Unlock()
	d.Record("SetCell", []interface{}{x, y, ch})
}

func (d *Screen) Print(args ui.PrintArgs) int {
	return ui.ScreenPrint(d, args)
}

func (d *Screen) Flush() error {
	d.Record("Flush", []interface{}{})
	return nil
}

func (d *Screen) Size() (int, int) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return d.width, d.height
}

// Row reconstructs the text drawn on row y.
func (d *Screen) Row(y int) string {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	out := make([]rune, d.width)
	for i := range out {
		out[i] = ' '
	}
	for pos, ch := range d.cells {
		if pos[1] == y && pos[0] >= 0 && pos[0] < d.width {
			out[pos[0]] = ch
		}
	}
	return string(out)
}

func (d *Screen) PollEvent(_ context.Context) chan ui.Event {
	return d.pollCh
}

// SendEvent injects an event as if the user had typed it.
func (d *Screen) SendEvent(e ui.Event) {
	t := time.NewTimer(time.Second)
	defer t.Stop()
	select {
	case <-t.C:
		panic("timed out sending an event")
	case d.pollCh <- e:
	}
}
