package ui

import (
	"context"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
)

// Tcell drives the terminal through the tcell library. Only the
// renderer goroutine calls the drawing methods; the input loop consumes
// the channel returned by PollEvent.
type Tcell struct {
	mutex  sync.Mutex
	screen tcell.Screen
	opts   InitOptions
}

// NewTcell creates a new Tcell screen driver.
func NewTcell() *Tcell {
	return &Tcell{}
}

// Init opens the terminal and applies the startup options.
func (t *Tcell) Init(opts InitOptions) error {
	s, err := tcell.NewScreen()
	if err != nil {
		return errors.Wrap(err, "failed to create screen")
	}
	if err := s.Init(); err != nil {
		return errors.Wrap(err, "failed to initialize screen")
	}

	if opts.EnableMouse {
		s.EnableMouse()
	}

	style := tcell.StyleDefault
	if opts.BlackBackground {
		style = style.Background(tcell.ColorBlack)
	}
	s.SetStyle(style)

	t.mutex.Lock()
	t.screen = s
	t.opts = opts
	t.mutex.Unlock()
	return nil
}

// Close restores the terminal.
func (t *Tcell) Close() error {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if t.screen != nil {
		t.screen.Fini()
		t.screen = nil
	}
	return nil
}

// Flush makes everything drawn so far visible.
func (t *Tcell) Flush() error {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if t.screen != nil {
		t.screen.Show()
	}
	return nil
}

func (t *Tcell) attrToColor(a Attribute) tcell.Color {
	idx, ok := a.ColorIndex()
	if !ok {
		if t.opts.BlackBackground {
			return tcell.ColorBlack
		}
		return tcell.ColorDefault
	}
	return tcell.PaletteColor(idx)
}

func (t *Tcell) styleToTcell(s Style) tcell.Style {
	fg := s.Foreground()
	bg := s.Background()

	st := tcell.StyleDefault.
		Foreground(t.attrToColor(fg)).
		Background(t.attrToColor(bg))
	st = st.Bold(fg&AttrBold != 0)
	st = st.Underline(fg&AttrUnderline != 0)
	st = st.Reverse(fg&AttrReverse != 0 || bg&AttrReverse != 0)
	return st
}

// SetCell writes one cell.
func (t *Tcell) SetCell(x, y int, ch rune, s Style) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if t.screen != nil {
		t.screen.SetContent(x, y, ch, nil, t.styleToTcell(s))
	}
}

// Print writes a whole string.
func (t *Tcell) Print(args PrintArgs) int {
	return ScreenPrint(t, args)
}

// SetCursor places the hardware cursor.
func (t *Tcell) SetCursor(x, y int) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if t.screen != nil {
		t.screen.ShowCursor(x, y)
	}
}

// Size returns the dimensions of the current terminal.
func (t *Tcell) Size() (int, int) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if t.screen == nil {
		return 0, 0
	}
	return t.screen.Size()
}

// SendEvent is only useful for testing; against a real terminal it is
// a no-op.
func (t *Tcell) SendEvent(_ Event) {}

// PollEvent translates tcell events to internal ones on a separate
// goroutine, so the input loop can select on the channel.
func (t *Tcell) PollEvent(ctx context.Context) chan Event {
	evCh := make(chan Event)

	go func() {
		defer close(evCh)
		for {
			t.mutex.Lock()
			s := t.screen
			t.mutex.Unlock()
			if s == nil {
				return
			}

			tev := s.PollEvent()
			if tev == nil {
				return
			}
			ev, ok := translateEvent(tev)
			if !ok {
				continue
			}
			select {
			case <-ctx.Done():
				return
			case evCh <- ev:
			}
		}
	}()
	return evCh
}

var tcellKeys = map[tcell.Key]Key{
	tcell.KeyCtrlA:      KeyCtrlA,
	tcell.KeyCtrlB:      KeyCtrlB,
	tcell.KeyCtrlC:      KeyCtrlC,
	tcell.KeyCtrlD:      KeyCtrlD,
	tcell.KeyCtrlE:      KeyCtrlE,
	tcell.KeyCtrlF:      KeyCtrlF,
	tcell.KeyCtrlG:      KeyCtrlG,
	tcell.KeyCtrlJ:      KeyCtrlJ,
	tcell.KeyCtrlK:      KeyCtrlK,
	tcell.KeyCtrlL:      KeyCtrlL,
	tcell.KeyCtrlN:      KeyCtrlN,
	tcell.KeyCtrlP:      KeyCtrlP,
	tcell.KeyCtrlQ:      KeyCtrlQ,
	tcell.KeyCtrlU:      KeyCtrlU,
	tcell.KeyCtrlW:      KeyCtrlW,
	tcell.KeyCtrlY:      KeyCtrlY,
	tcell.KeyEnter:      KeyEnter,
	tcell.KeyEsc:        KeyEsc,
	tcell.KeyBackspace:  KeyBackspace,
	tcell.KeyBackspace2: KeyBackspace,
	tcell.KeyDelete:     KeyDelete,
	tcell.KeyInsert:     KeyInsert,
	tcell.KeyTab:        KeyTab,
	tcell.KeyBacktab:    KeyBacktab,
	tcell.KeyUp:         KeyArrowUp,
	tcell.KeyDown:       KeyArrowDown,
	tcell.KeyLeft:       KeyArrowLeft,
	tcell.KeyRight:      KeyArrowRight,
	tcell.KeyHome:       KeyHome,
	tcell.KeyEnd:        KeyEnd,
	tcell.KeyPgUp:       KeyPgUp,
	tcell.KeyPgDn:       KeyPgDn,
}

func translateModifiers(m tcell.ModMask) Modifier {
	var mod Modifier
	if m&tcell.ModAlt != 0 {
		mod |= ModAlt
	}
	if m&tcell.ModShift != 0 {
		mod |= ModShift
	}
	if m&tcell.ModCtrl != 0 {
		mod |= ModCtrl
	}
	return mod
}

func translateEvent(tev tcell.Event) (Event, bool) {
	switch tev := tev.(type) {
	case *tcell.EventKey:
		mod := translateModifiers(tev.Modifiers())
		if tev.Key() == tcell.KeyRune {
			return Event{Type: EventKey, Key: KeyRune, Ch: tev.Rune(), Mod: mod}, true
		}
		k, ok := tcellKeys[tev.Key()]
		if !ok {
			return Event{}, false
		}
		// Ctrl is implied by the logical key itself
		mod &^= ModCtrl
		return Event{Type: EventKey, Key: k, Mod: mod}, true

	case *tcell.EventMouse:
		x, y := tev.Position()
		ev := Event{Type: EventMouse, MouseX: x, MouseY: y, Mod: translateModifiers(tev.Modifiers())}
		switch {
		case tev.Buttons()&tcell.WheelUp != 0:
			ev.Btn = MouseWheelUp
		case tev.Buttons()&tcell.WheelDown != 0:
			ev.Btn = MouseWheelDown
		case tev.Buttons()&tcell.Button1 != 0:
			ev.Btn = MouseLeft
		default:
			return Event{}, false
		}
		return ev, true

	case *tcell.EventResize:
		return Event{Type: EventResize}, true

	case *tcell.EventError:
		return Event{Type: EventError}, true
	}
	return Event{}, false
}
