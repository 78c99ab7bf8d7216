package fzf

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wellle/fzf/ui"
)

func keyEvent(k ui.Key) ui.Event {
	return ui.Event{Type: ui.EventKey, Key: k}
}

func runeEvent(ch rune) ui.Event {
	return ui.Event{Type: ui.EventKey, Key: ui.KeyRune, Ch: ch}
}

func altEvent(ch rune) ui.Event {
	return ui.Event{Type: ui.EventKey, Key: ui.KeyRune, Ch: ch, Mod: ui.ModAlt}
}

func typeString(ctx context.Context, p *Fzf, s string) {
	for _, ch := range s {
		doAcceptChar(ctx, p, runeEvent(ch))
	}
}

func TestAcceptCharInsertsAtCaret(t *testing.T) {
	p := newTestApp(t, CLIOptions{})
	ctx := context.Background()

	typeString(ctx, p, "abc")
	assert.Equal(t, "abc", p.Query().String())
	assert.Equal(t, 3, p.Caret().Pos())

	doBackwardChar(ctx, p, keyEvent(ui.KeyCtrlB))
	doAcceptChar(ctx, p, runeEvent('X'))
	assert.Equal(t, "abXc", p.Query().String())
	assert.Equal(t, 3, p.Caret().Pos())
}

func TestCursorMotions(t *testing.T) {
	p := newTestApp(t, CLIOptions{})
	ctx := context.Background()
	typeString(ctx, p, "hello")

	doBeginningOfLine(ctx, p, keyEvent(ui.KeyCtrlA))
	assert.Equal(t, 0, p.Caret().Pos())
	doBackwardChar(ctx, p, keyEvent(ui.KeyCtrlB))
	assert.Equal(t, 0, p.Caret().Pos(), "cannot move before the start")

	doEndOfLine(ctx, p, keyEvent(ui.KeyCtrlE))
	assert.Equal(t, 5, p.Caret().Pos())
	doForwardChar(ctx, p, keyEvent(ui.KeyCtrlF))
	assert.Equal(t, 5, p.Caret().Pos(), "cannot move past the end")
}

func TestWordMotions(t *testing.T) {
	p := newTestApp(t, CLIOptions{})
	ctx := context.Background()
	typeString(ctx, p, "foo bar baz")

	doBackwardWord(ctx, p, altEvent('b'))
	assert.Equal(t, 8, p.Caret().Pos(), "start of 'baz'")
	doBackwardWord(ctx, p, altEvent('b'))
	assert.Equal(t, 4, p.Caret().Pos(), "start of 'bar'")

	p.Caret().SetPos(0)
	doForwardWord(ctx, p, altEvent('f'))
	assert.Equal(t, 4, p.Caret().Pos())
}

func TestDeleteActions(t *testing.T) {
	p := newTestApp(t, CLIOptions{})
	ctx := context.Background()
	typeString(ctx, p, "abcd")

	doDeleteBackwardChar(ctx, p, keyEvent(ui.KeyBackspace))
	assert.Equal(t, "abc", p.Query().String())

	p.Caret().SetPos(1)
	doDeleteForwardChar(ctx, p, keyEvent(ui.KeyDelete))
	assert.Equal(t, "ac", p.Query().String())
	assert.Equal(t, 1, p.Caret().Pos())
}

func TestKillAndYank(t *testing.T) {
	p := newTestApp(t, CLIOptions{})
	ctx := context.Background()
	typeString(ctx, p, "hello world")

	p.Caret().SetPos(5)
	doKillBeginningOfLine(ctx, p, keyEvent(ui.KeyCtrlU))
	assert.Equal(t, " world", p.Query().String())
	assert.Equal(t, 0, p.Caret().Pos())
	assert.Equal(t, "hello", p.Yank())

	doEndOfLine(ctx, p, keyEvent(ui.KeyCtrlE))
	doYank(ctx, p, keyEvent(ui.KeyCtrlY))
	assert.Equal(t, " worldhello", p.Query().String())
}

func TestDeleteBackwardWordYanks(t *testing.T) {
	p := newTestApp(t, CLIOptions{})
	ctx := context.Background()
	typeString(ctx, p, "foo bar")

	doDeleteBackwardWord(ctx, p, keyEvent(ui.KeyCtrlW))
	assert.Equal(t, "foo ", p.Query().String())
	assert.Equal(t, "bar", p.Yank())

	doYank(ctx, p, keyEvent(ui.KeyCtrlY))
	assert.Equal(t, "foo bar", p.Query().String())
}

func TestVCursorActions(t *testing.T) {
	p := newTestApp(t, CLIOptions{})
	p.SetMatches(rawLines("a", "b", "c", "d"))
	ctx := context.Background()

	doSelectUp(ctx, p, keyEvent(ui.KeyCtrlK))
	assert.Equal(t, 1, p.VCursor())

	doSelectDown(ctx, p, keyEvent(ui.KeyCtrlJ))
	assert.Equal(t, 0, p.VCursor())
	doSelectDown(ctx, p, keyEvent(ui.KeyCtrlJ))
	assert.Equal(t, 0, p.VCursor(), "cursor clamps at the bottom")

	doJumpToLast(ctx, p, keyEvent(ui.KeyPgUp))
	assert.Equal(t, 3, p.VCursor())
	doJumpToFirst(ctx, p, keyEvent(ui.KeyPgDn))
	assert.Equal(t, 0, p.VCursor())
}

func TestToggleSelection(t *testing.T) {
	p := newTestApp(t, CLIOptions{OptMulti: true})
	lines := rawLines("A", "B", "C")
	p.SetMatches(lines)
	ctx := context.Background()

	// toggling twice leaves the selection unchanged
	doToggleSelection(ctx, p, keyEvent(ui.KeyTab))
	assert.True(t, p.Selection().Has(lines[0]))
	doToggleSelection(ctx, p, keyEvent(ui.KeyTab))
	assert.False(t, p.Selection().Has(lines[0]))
	assert.Equal(t, 0, p.Selection().Len())
}

func TestToggleSelectionMovesCursor(t *testing.T) {
	p := newTestApp(t, CLIOptions{OptMulti: true})
	lines := rawLines("A", "B", "C")
	p.SetMatches(lines)
	p.SetVCursor(2)
	ctx := context.Background()

	doToggleSelectionDown(ctx, p, keyEvent(ui.KeyTab))
	assert.True(t, p.Selection().Has(lines[2]))
	assert.Equal(t, 1, p.VCursor())

	doToggleSelectionUp(ctx, p, keyEvent(ui.KeyBacktab))
	assert.True(t, p.Selection().Has(lines[1]))
	assert.Equal(t, 2, p.VCursor())
}

func TestToggleSelectionRequiresMultiMode(t *testing.T) {
	p := newTestApp(t, CLIOptions{})
	p.SetMatches(rawLines("A"))
	ctx := context.Background()

	doToggleSelectionDown(ctx, p, keyEvent(ui.KeyTab))
	assert.Equal(t, 0, p.Selection().Len())
}

func TestFinishAndCancel(t *testing.T) {
	p := newTestApp(t, CLIOptions{})
	ctx := context.Background()

	doFinish(ctx, p, keyEvent(ui.KeyEnter))
	assert.True(t, isCollectResults(p.Err()))

	p = newTestApp(t, CLIOptions{})
	doCancel(ctx, p, keyEvent(ui.KeyCtrlC))
	assert.Error(t, p.Err())
}

func TestEndOfFile(t *testing.T) {
	p := newTestApp(t, CLIOptions{})
	ctx := context.Background()

	typeString(ctx, p, "ab")
	doEndOfFile(ctx, p, keyEvent(ui.KeyCtrlD))
	assert.Equal(t, "ab", p.Query().String(), "delete-forward at the end is a no-op")
	assert.NoError(t, p.Err())

	p.Caret().SetPos(0)
	doEndOfFile(ctx, p, keyEvent(ui.KeyCtrlD))
	assert.Equal(t, "b", p.Query().String())

	p.Query().Reset()
	doEndOfFile(ctx, p, keyEvent(ui.KeyCtrlD))
	assert.Error(t, p.Err(), "Ctrl-D on an empty query aborts")
}

func TestLookupActionFallsBackToInsert(t *testing.T) {
	km := Keymap{}

	a := km.LookupAction(runeEvent('x'))
	assert.NotNil(t, a)

	// an unbound rune is inserted; a bound key runs its own action
	p := newTestApp(t, CLIOptions{})
	km.ExecuteAction(context.Background(), p, runeEvent('x'))
	assert.Equal(t, "x", p.Query().String())

	km.ExecuteAction(context.Background(), p, keyEvent(ui.KeyCtrlA))
	assert.Equal(t, 0, p.Caret().Pos())
}

func isCollectResults(err error) bool {
	type collector interface{ CollectResults() bool }
	c, ok := err.(collector)
	return ok && c.CollectResults()
}
