package fzf

import (
	"context"
	"unicode"

	"github.com/lestrrat-go/pdebug"
	"github.com/pkg/errors"
	"github.com/wellle/fzf/ui"
)

// Action describes an action that can be executed upon receiving user input.
type Action interface {
	Execute(context.Context, *Fzf, ui.Event)
}

// ActionFunc is a type of Action that is basically just a callback.
type ActionFunc func(context.Context, *Fzf, ui.Event)

// Execute fulfills the Action interface for ActionFunc
func (a ActionFunc) Execute(ctx context.Context, state *Fzf, e ui.Event) {
	a(ctx, state, e)
}

// ActionMap is the interface for dispatching actions based on key events.
type ActionMap interface {
	ExecuteAction(context.Context, *Fzf, ui.Event) error
}

// keyStroke identifies a single bindable key press. Ch is only set for
// modifier+rune combinations such as Alt-B.
type keyStroke struct {
	Key ui.Key
	Ch  rune
	Mod ui.Modifier
}

// This is the global map of canonical action name to actions
var nameToActions map[string]Action

// The bindings are fixed: there is no keymap configuration.
var keyBinding map[keyStroke]Action

// Register registers `a` into the global action registry by the name
// `name`, and binds it to the given keys. Called during package init()
// to set up the built-in actions.
func (a ActionFunc) Register(name string, keys ...ui.Key) {
	nameToActions["fzf."+name] = a
	for _, k := range keys {
		keyBinding[keyStroke{Key: k}] = a
	}
}

// RegisterAltRune binds the action to Alt+ch.
func (a ActionFunc) RegisterAltRune(name string, ch rune) {
	nameToActions["fzf."+name] = a
	keyBinding[keyStroke{Key: ui.KeyRune, Ch: ch, Mod: ui.ModAlt}] = a
}

func init() {
	nameToActions = map[string]Action{}
	keyBinding = map[keyStroke]Action{}

	ActionFunc(doBeginningOfLine).Register("BeginningOfLine", ui.KeyCtrlA, ui.KeyHome)
	ActionFunc(doEndOfLine).Register("EndOfLine", ui.KeyCtrlE, ui.KeyEnd)
	ActionFunc(doBackwardChar).Register("BackwardChar", ui.KeyCtrlB, ui.KeyArrowLeft)
	ActionFunc(doForwardChar).Register("ForwardChar", ui.KeyCtrlF, ui.KeyArrowRight)
	ActionFunc(doBackwardWord).RegisterAltRune("BackwardWord", 'b')
	ActionFunc(doForwardWord).RegisterAltRune("ForwardWord", 'f')
	ActionFunc(doDeleteBackwardChar).Register("DeleteBackwardChar", ui.KeyBackspace)
	ActionFunc(doDeleteForwardChar).Register("DeleteForwardChar", ui.KeyDelete)
	ActionFunc(doKillBeginningOfLine).Register("KillBeginningOfLine", ui.KeyCtrlU)
	ActionFunc(doDeleteBackwardWord).Register("DeleteBackwardWord", ui.KeyCtrlW)
	ActionFunc(doYank).Register("Yank", ui.KeyCtrlY)

	ActionFunc(doSelectDown).Register("SelectDown", ui.KeyCtrlJ, ui.KeyCtrlN, ui.KeyArrowDown)
	ActionFunc(doSelectUp).Register("SelectUp", ui.KeyCtrlK, ui.KeyCtrlP, ui.KeyArrowUp)
	ActionFunc(doJumpToFirst).Register("JumpToFirst", ui.KeyPgDn)
	ActionFunc(doJumpToLast).Register("JumpToLast", ui.KeyPgUp)

	ActionFunc(doToggleSelectionDown).Register("ToggleSelectionDown", ui.KeyTab)
	ActionFunc(doToggleSelectionUp).Register("ToggleSelectionUp", ui.KeyBacktab)

	ActionFunc(doFinish).Register("Finish", ui.KeyEnter)
	ActionFunc(doCancel).Register("Cancel", ui.KeyCtrlC, ui.KeyCtrlG, ui.KeyCtrlQ, ui.KeyEsc)
	ActionFunc(doEndOfFile).Register("EndOfFile", ui.KeyCtrlD)
	ActionFunc(doRefreshScreen).Register("RefreshScreen", ui.KeyCtrlL)
}

// Keymap dispatches events against the fixed key bindings.
type Keymap struct{}

// ExecuteAction looks up and executes the action bound to the event.
func (km Keymap) ExecuteAction(ctx context.Context, state *Fzf, ev ui.Event) (err error) {
	if pdebug.Enabled {
		g := pdebug.Marker("Keymap.ExecuteAction %v", ev).BindError(&err)
		defer g.End()
	}

	a := km.LookupAction(ev)
	if a == nil {
		return errors.New("action not found")
	}

	a.Execute(ctx, state, ev)
	return nil
}

// LookupAction returns the appropriate action for the given event.
// Unbound printable keys insert themselves into the query.
func (km Keymap) LookupAction(ev ui.Event) Action {
	ks := keyStroke{Key: ev.Key, Mod: ev.Mod & ui.ModAlt}
	if ev.Key == ui.KeyRune {
		ks.Ch = ev.Ch
	}
	if a, ok := keyBinding[ks]; ok {
		return a
	}
	if ev.Key == ui.KeyRune && ev.Mod&ui.ModAlt == 0 {
		return ActionFunc(doAcceptChar)
	}
	return ActionFunc(doNothing)
}

// This is a noop action
func doNothing(_ context.Context, _ *Fzf, _ ui.Event) {}

// doAcceptChar is not registered anywhere; it is the fallthrough for
// printable input.
func doAcceptChar(_ context.Context, state *Fzf, e ui.Event) {
	ch := e.Ch
	if ch <= 0 {
		return
	}

	q := state.Query()
	c := state.Caret()

	q.InsertAt(ch, c.Pos())
	c.Move(1)

	state.RequestDrawPrompt() // update prompt before running the query
	state.ExecQuery()
}

// execQueryAndDraw publishes the query and refreshes the prompt.
func execQueryAndDraw(state *Fzf) {
	state.ExecQuery()
	state.RequestDrawPrompt()
}

func doBeginningOfLine(_ context.Context, state *Fzf, _ ui.Event) {
	state.Caret().SetPos(0)
	execQueryAndDraw(state)
}

func doEndOfLine(_ context.Context, state *Fzf, _ ui.Event) {
	state.Caret().SetPos(state.Query().Len())
	execQueryAndDraw(state)
}

func doBackwardChar(_ context.Context, state *Fzf, _ ui.Event) {
	c := state.Caret()
	if c.Pos() <= 0 {
		return
	}
	c.Move(-1)
	execQueryAndDraw(state)
}

func doForwardChar(_ context.Context, state *Fzf, _ ui.Event) {
	c := state.Caret()
	if c.Pos() >= state.Query().Len() {
		return
	}
	c.Move(1)
	execQueryAndDraw(state)
}

func doBackwardWord(_ context.Context, state *Fzf, _ ui.Event) {
	c := state.Caret()
	q := state.Query()
	if c.Pos() == 0 {
		return
	}
	defer execQueryAndDraw(state)

	if c.Pos() >= q.Len() {
		c.Move(-1)
	}

	// if we start from a whitespace-ish position, we should
	// rewind to the end of the previous word, and then do the
	// search all over again
	for {
		if unicode.IsSpace(q.RuneAt(c.Pos())) {
			for pos := c.Pos(); pos > 0; pos-- {
				if !unicode.IsSpace(q.RuneAt(pos)) {
					c.SetPos(pos)
					break
				}
			}
		}

		// if we start from the first character of a word, we
		// should attempt to move back and search for the previous word
		if c.Pos() > 0 && unicode.IsSpace(q.RuneAt(c.Pos()-1)) {
			c.Move(-1)
			continue
		}
		break
	}

	// Now look for a space
	for pos := c.Pos(); pos > 0; pos-- {
		if unicode.IsSpace(q.RuneAt(pos)) {
			c.SetPos(pos + 1)
			return
		}
	}

	// not found. just move to the beginning of the buffer
	c.SetPos(0)
}

func doForwardWord(_ context.Context, state *Fzf, _ ui.Event) {
	if state.Caret().Pos() >= state.Query().Len() {
		return
	}
	defer execQueryAndDraw(state)

	foundSpace := false
	q := state.Query()
	c := state.Caret()
	for pos := c.Pos(); pos < q.Len(); pos++ {
		r := q.RuneAt(pos)
		if foundSpace {
			if !unicode.IsSpace(r) {
				c.SetPos(pos)
				return
			}
		} else {
			if unicode.IsSpace(r) {
				foundSpace = true
			}
		}
	}

	// not found. just move to the end of the buffer
	c.SetPos(q.Len())
}

func doDeleteBackwardChar(_ context.Context, state *Fzf, _ ui.Event) {
	q := state.Query()
	c := state.Caret()
	if q.Len() <= 0 {
		return
	}

	pos := c.Pos()
	if pos == 0 {
		return
	}

	q.DeleteRange(pos-1, pos)
	c.SetPos(pos - 1)

	execQueryAndDraw(state)
}

func doDeleteForwardChar(_ context.Context, state *Fzf, _ ui.Event) {
	q := state.Query()
	c := state.Caret()
	if q.Len() <= c.Pos() {
		return
	}

	pos := c.Pos()
	q.DeleteRange(pos, pos+1)

	execQueryAndDraw(state)
}

func doKillBeginningOfLine(_ context.Context, state *Fzf, _ ui.Event) {
	q := state.Query()
	c := state.Caret()

	killed := q.StringRange(0, c.Pos())
	if killed == "" {
		return
	}
	state.SetYank(killed)
	q.DeleteRange(0, c.Pos())
	c.SetPos(0)
	execQueryAndDraw(state)
}

func doDeleteBackwardWord(_ context.Context, state *Fzf, _ ui.Event) {
	c := state.Caret()
	if c.Pos() == 0 {
		return
	}

	q := state.Query()
	pos := c.Pos()
	if l := q.Len(); l < pos {
		pos = l
	}

	sepFunc := unicode.IsSpace
	if unicode.IsSpace(q.RuneAt(pos - 1)) {
		sepFunc = func(r rune) bool { return !unicode.IsSpace(r) }
	}

	found := false
	start := pos
	for pos = start - 1; pos >= 0; pos-- {
		if sepFunc(q.RuneAt(pos)) {
			state.SetYank(q.StringRange(pos+1, start))
			q.DeleteRange(pos+1, start)
			c.SetPos(pos + 1)
			found = true
			break
		}
	}

	if !found {
		state.SetYank(q.StringRange(0, start))
		q.DeleteRange(0, start)
		c.SetPos(0)
	}
	execQueryAndDraw(state)
}

func doYank(_ context.Context, state *Fzf, _ ui.Event) {
	text := state.Yank()
	if text == "" {
		return
	}

	c := state.Caret()
	n := state.Query().InsertStringAt(text, c.Pos())
	c.Move(n)
	execQueryAndDraw(state)
}

func doSelectUp(_ context.Context, state *Fzf, _ ui.Event) {
	state.MoveVCursor(1)
	state.RequestDraw(false)
}

func doSelectDown(_ context.Context, state *Fzf, _ ui.Event) {
	state.MoveVCursor(-1)
	state.RequestDraw(false)
}

func doJumpToFirst(_ context.Context, state *Fzf, _ ui.Event) {
	state.SetVCursor(0)
	state.RequestDraw(false)
}

func doJumpToLast(_ context.Context, state *Fzf, _ ui.Event) {
	state.SetVCursor(state.MaxVisibleRow())
	state.RequestDraw(false)
}

func doToggleSelection(_ context.Context, state *Fzf, _ ui.Event) {
	if !state.MultiSelect() {
		return
	}

	l, ok := state.CurrentMatch()
	if !ok {
		return
	}

	selection := state.Selection()
	if selection.Has(l) {
		selection.Remove(l)
		return
	}
	selection.Add(l)
}

func doToggleSelectionDown(ctx context.Context, state *Fzf, e ui.Event) {
	if !state.MultiSelect() {
		return
	}
	doToggleSelection(ctx, state, e)
	state.MoveVCursor(-1)
	state.RequestDraw(false)
}

func doToggleSelectionUp(ctx context.Context, state *Fzf, e ui.Event) {
	if !state.MultiSelect() {
		return
	}
	doToggleSelection(ctx, state, e)
	state.MoveVCursor(1)
	state.RequestDraw(false)
}

func doFinish(_ context.Context, state *Fzf, _ ui.Event) {
	if pdebug.Enabled {
		g := pdebug.Marker("doFinish")
		defer g.End()
	}
	state.Exit(errCollectResults{})
}

func doCancel(_ context.Context, state *Fzf, _ ui.Event) {
	state.Exit(setExitStatus(makeIgnorable(errors.New("user canceled")), 1))
}

func doEndOfFile(ctx context.Context, state *Fzf, e ui.Event) {
	if state.Query().Len() > 0 {
		doDeleteForwardChar(ctx, state, e)
	} else {
		doCancel(ctx, state, e)
	}
}

func doRefreshScreen(_ context.Context, state *Fzf, _ ui.Event) {
	state.RequestDraw(true)
}
