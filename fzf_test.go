package fzf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/wellle/fzf/filter"
	"github.com/wellle/fzf/internal/util"
	"github.com/wellle/fzf/line"
)

// newTestApp builds an Fzf wired for tests: no settings file, no
// screen, sorting on with the default cap.
func newTestApp(t *testing.T, opts CLIOptions) *Fzf {
	t.Helper()

	p := New()
	p.skipReadConfig = true
	p.Stdout = &bytes.Buffer{}
	p.Stderr = &bytes.Buffer{}
	if opts.OptSort == 0 {
		opts.OptSort = 1000
	}
	require.NoError(t, p.ApplyConfig(opts))
	return p
}

// startIDGen runs the app's line ID generator for the test's lifetime.
func startIDGen(t *testing.T, p *Fzf) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go p.idgen.Run(ctx)
	return ctx
}

// eventually polls cond until it holds or the deadline passes.
func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func rawLines(texts ...string) []line.Line {
	out := make([]line.Line, len(texts))
	for i, txt := range texts {
		out[i] = line.NewRaw(uint64(i+1), txt)
	}
	return out
}

func TestApplyConfigMatcherSelection(t *testing.T) {
	p := newTestApp(t, CLIOptions{})
	require.Equal(t, "Fuzzy", p.Matcher().String())

	p = newTestApp(t, CLIOptions{OptExtended: true})
	require.Equal(t, "ExtendedFuzzy", p.Matcher().String())

	p = newTestApp(t, CLIOptions{OptExtendedExact: true})
	require.Equal(t, "ExtendedExact", p.Matcher().String())

	p = newTestApp(t, CLIOptions{OptNth: "2", OptExtended: true})
	require.Equal(t, "ExtendedFuzzy", p.Matcher().String())
}

func TestApplyConfigRejectsBadNth(t *testing.T) {
	p := New()
	p.skipReadConfig = true
	err := p.ApplyConfig(CLIOptions{OptNth: "0", OptSort: 1000})
	require.Error(t, err)
}

func TestVCursorClamping(t *testing.T) {
	p := newTestApp(t, CLIOptions{})
	p.SetMatches(rawLines("a", "b", "c"))

	p.SetVCursor(10)
	require.Equal(t, 2, p.VCursor())

	p.MoveVCursor(-5)
	require.Equal(t, 0, p.VCursor())

	p.SetMatches(nil)
	require.Equal(t, 0, p.VCursor(), "empty match list pins the cursor at zero")
}

func TestSpinnerRotatesAndClears(t *testing.T) {
	p := newTestApp(t, CLIOptions{})
	first := p.Spinner()
	p.RotateSpinner()
	require.NotEqual(t, first, p.Spinner())

	p.SetLoaded()
	require.Equal(t, rune(0), p.Spinner(), "spinner is cleared once loaded")
}

func TestPrintResultsCurrentPick(t *testing.T) {
	p := newTestApp(t, CLIOptions{})
	p.SetMatches(rawLines("alpha", "beta"))
	p.SetVCursor(1)

	p.PrintResults()
	require.Equal(t, "beta\n", p.Stdout.(*bytes.Buffer).String())
}

func TestPrintResultsMultiSelectOrder(t *testing.T) {
	p := newTestApp(t, CLIOptions{OptMulti: true})
	lines := rawLines("A", "B", "C")
	p.SetMatches(lines)

	// select A, then C, then B
	p.Selection().Add(lines[0])
	p.Selection().Add(lines[2])
	p.Selection().Add(lines[1])

	p.PrintResults()
	require.Equal(t, "A\nC\nB\n", p.Stdout.(*bytes.Buffer).String())
}

func TestPrintResultsNothingToPrint(t *testing.T) {
	p := newTestApp(t, CLIOptions{})
	p.PrintResults()
	require.Empty(t, p.Stdout.(*bytes.Buffer).String())
}

func TestExitStatusWrappers(t *testing.T) {
	err := setExitStatus(makeIgnorable(errors.New("user canceled")), 1)

	require.True(t, util.IsIgnorableError(err))
	st, ok := util.GetExitStatus(err)
	require.True(t, ok)
	require.Equal(t, 1, st)

	require.True(t, util.IsCollectResultsError(errCollectResults{}))
}

func TestCaseModeWiring(t *testing.T) {
	p := newTestApp(t, CLIOptions{OptCaseSensitive: true})
	matches := applyMatcher(t, p.Matcher(), "abc", rawLines("abc", "ABC"))
	require.Len(t, matches, 1)

	p = newTestApp(t, CLIOptions{OptIgnoreCase: true})
	matches = applyMatcher(t, p.Matcher(), "ABC", rawLines("abc", "ABC"))
	require.Len(t, matches, 2)
}

func applyMatcher(t *testing.T, m filter.Matcher, q string, lines []line.Line) []line.Line {
	t.Helper()
	cp, err := m.Compile(q)
	require.NoError(t, err)
	out, err := filter.Scan(cp, lines, nil, nil)
	require.NoError(t, err)
	return out
}
