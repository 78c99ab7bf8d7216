package fzf

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/wellle/fzf/ui"
)

// doubleClickWindow is how close two clicks on the same row must be to
// count as a commit.
const doubleClickWindow = 500 * time.Millisecond

// Input is the UI loop: it consumes decoded terminal events and
// dispatches them through the keymap.
type Input struct {
	actions ActionMap
	evsrc   chan ui.Event
	state   *Fzf

	lastClickRow  int
	lastClickTime time.Time
}

// NewInput creates the input loop.
func NewInput(state *Fzf, am ActionMap, src chan ui.Event) *Input {
	return &Input{
		actions:      am,
		evsrc:        src,
		state:        state,
		lastClickRow: -1,
	}
}

// Loop dispatches events until the context is cancelled or the event
// source closes.
func (i *Input) Loop(ctx context.Context, cancel func()) error {
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-i.evsrc:
			if !ok {
				return nil
			}
			i.handleEvent(ctx, ev)
		}
	}
}

func (i *Input) handleEvent(ctx context.Context, ev ui.Event) {
	switch ev.Type {
	case ui.EventError:
		i.state.Exit(setExitStatus(errors.New("terminal error"), 2))
	case ui.EventResize:
		i.state.RequestDraw(true)
	case ui.EventMouse:
		i.handleMouse(ctx, ev)
	case ui.EventKey:
		_ = i.actions.ExecuteAction(ctx, i.state, ev)
	}
}

// rowToMatchIndex maps a screen row to an index into the match list.
// Candidate row n is drawn at y = rows - 3 - n.
func (i *Input) rowToMatchIndex(y int) (int, bool) {
	_, rows := i.state.Screen().Size()
	idx := rows - 3 - y
	if idx < 0 || idx >= len(i.state.Matches()) {
		return 0, false
	}
	return idx, true
}

func (i *Input) handleMouse(ctx context.Context, ev ui.Event) {
	state := i.state

	switch ev.Btn {
	case ui.MouseWheelUp:
		state.MoveVCursor(1)
		state.RequestDraw(false)
	case ui.MouseWheelDown:
		state.MoveVCursor(-1)
		state.RequestDraw(false)
	case ui.MouseLeft:
		idx, ok := i.rowToMatchIndex(ev.MouseY)
		if !ok {
			return
		}

		if ev.Mod&ui.ModShift != 0 && state.MultiSelect() {
			state.SetVCursor(idx)
			doToggleSelection(ctx, state, ev)
			state.RequestDraw(false)
			return
		}

		now := time.Now()
		if idx == i.lastClickRow && now.Sub(i.lastClickTime) < doubleClickWindow {
			state.SetVCursor(idx)
			doFinish(ctx, state, ev)
			return
		}
		i.lastClickRow = idx
		i.lastClickTime = now

		state.SetVCursor(idx)
		state.RequestDraw(false)
	}
}
