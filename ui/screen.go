package ui

import (
	"context"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// InitOptions carries the toggles the screen driver needs at startup.
type InitOptions struct {
	// Use256Color selects the 256-color palette
	Use256Color bool
	// BlackBackground forces a black background instead of the
	// terminal default
	BlackBackground bool
	// EnableMouse turns on mouse reporting
	EnableMouse bool
}

// PrintArgs describes one string to be printed at a given position.
type PrintArgs struct {
	X     int
	Y     int
	Style Style
	Msg   string
	// Fill pads the rest of the row with spaces in the same style
	Fill bool
}

// Screen hides the terminal library from the consuming code so that
// it can be swapped out for testing
type Screen interface {
	Init(InitOptions) error
	Close() error
	Flush() error
	PollEvent(context.Context) chan Event
	Print(PrintArgs) int
	SetCell(int, int, rune, Style)
	SetCursor(int, int)
	Size() (int, int)
	SendEvent(Event)
}

// ScreenPrint writes args.Msg cell by cell, expanding each tab with
// spaces up to the next column that is a multiple of four and
// accounting for double-width runes. It returns the number
// of cells written. Screen implementations delegate their Print method
// here.
func ScreenPrint(t Screen, args PrintArgs) int {
	var written int

	st := args.Style
	msg := args.Msg
	x := args.X
	y := args.Y
	for len(msg) > 0 {
		c, w := utf8.DecodeRuneInString(msg)
		if c == utf8.RuneError {
			c = '?'
			w = 1
		}
		msg = msg[w:]
		if c == '\t' {
			n := 4 - x%4
			for i := 0; i <= n; i++ {
				t.SetCell(x+i, y, ' ', st)
			}
			written += n
			x += n
		} else {
			t.SetCell(x, y, c, st)
			n := runewidth.RuneWidth(c)
			x += n
			written += n
		}
	}

	if !args.Fill {
		return written
	}

	width, _ := t.Size()
	for ; x < width; x++ {
		t.SetCell(x, y, ' ', st)
		written++
	}
	return written
}
