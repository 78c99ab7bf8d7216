package ui

import (
	"fmt"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/wellle/fzf/filter"
	"github.com/wellle/fzf/line"
	"github.com/wellle/fzf/query"
)

// gutterWidth is the number of columns reserved on the left of each
// candidate row: one for the cursor marker, one for the multi-select
// marker.
const gutterWidth = 2

// reservedRows is the number of rows that are not candidate rows: the
// prompt line and the status line.
const reservedRows = 2

// State is the read-only view of the application state that the layout
// needs while drawing.
type State interface {
	Caret() *Caret
	Query() *query.Query
	Screen() Screen
	Styles() *StyleSet
	Prompt() string
	Matches() []line.Line
	Count() int
	VCursor() int
	MultiSelect() bool
	SelectedLen() int
	IsSelected(line.Line) bool
	// Spinner returns the current spinner glyph, or 0 once the source
	// has been fully loaded
	Spinner() rune
	// Progress returns the ongoing search progress percentage, or a
	// negative number when no long search is running
	Progress() int
}

// Layout draws the bottom-up screen: the prompt on the bottom row, the
// status line above it, and candidate rows growing upward.
type Layout struct {
	screen Screen
	styles *StyleSet
	prompt string

	displayCache []line.Line
	dirty        bool
}

// NewLayout creates a Layout drawing onto s.
func NewLayout(s Screen, styles *StyleSet, prompt string) *Layout {
	if prompt == "" {
		prompt = ">"
	}
	return &Layout{
		screen: s,
		styles: styles,
		prompt: prompt,
	}
}

// PurgeDisplayCache forces the next DrawScreen to repaint every row.
func (l *Layout) PurgeDisplayCache() {
	l.displayCache = nil
	l.dirty = true
}

// PerPage returns how many candidate rows fit on the screen.
func (l *Layout) PerPage() int {
	_, rows := l.screen.Size()
	pp := rows - reservedRows
	if pp < 0 {
		// terminal too small; draw no candidate rows rather than crash
		pp = 0
	}
	return pp
}

// DrawPrompt draws the query line and positions the cursor.
func (l *Layout) DrawPrompt(state State) {
	cols, rows := l.screen.Size()
	if rows < 1 {
		return
	}
	y := rows - 1

	promptLen := runewidth.StringWidth(l.prompt) + 1
	l.screen.Print(PrintArgs{Y: y, Style: l.styles.Prompt, Msg: l.prompt + " "})

	q := state.Query()
	c := state.Caret()
	if c.Pos() > q.Len() {
		c.SetPos(q.Len())
	}
	qs := q.String()

	x := promptLen
	for _, r := range qs {
		l.screen.SetCell(x, y, r, l.styles.Query)
		x += runewidth.RuneWidth(r)
	}

	// clear the rest of the line
	for fill := x; fill < cols; fill++ {
		l.screen.SetCell(fill, y, ' ', l.styles.Query)
	}

	// software caret: reverse the cell under the insertion point
	caretX := promptLen + runewidth.StringWidth(q.StringRange(0, c.Pos()))
	under := ' '
	if c.Pos() < q.Len() {
		under = q.RuneAt(c.Pos())
	}
	l.screen.SetCell(caretX, y, under, l.styles.Query.Reverse())
	l.screen.SetCursor(caretX, y)

	_ = l.screen.Flush()
}

// DrawStatus draws the spinner / counters line.
func (l *Layout) DrawStatus(state State) {
	_, rows := l.screen.Size()
	if rows < 2 {
		return
	}
	y := rows - 2

	glyph := state.Spinner()
	if glyph == 0 {
		glyph = ' '
	}

	msg := fmt.Sprintf("%c %d/%d", glyph, len(state.Matches()), state.Count())
	if n := state.SelectedLen(); state.MultiSelect() && n > 0 {
		msg += fmt.Sprintf(" (%d)", n)
	}
	if p := state.Progress(); p >= 0 {
		msg += fmt.Sprintf(" %d%%", p)
	}

	l.screen.Print(PrintArgs{X: 0, Y: y, Style: l.styles.Prompt, Msg: msg, Fill: true})
	_ = l.screen.Flush()
}

// DrawScreen draws the whole display: candidate rows, status, prompt.
func (l *Layout) DrawScreen(state State) {
	cols, rows := l.screen.Size()
	perPage := l.PerPage()
	matches := state.Matches()
	vcursor := state.VCursor()

	if len(l.displayCache) != perPage {
		l.displayCache = make([]line.Line, perPage)
		l.dirty = true
	}

	for i := 0; i < perPage; i++ {
		y := rows - 1 - reservedRows - i
		if i >= len(matches) {
			if l.displayCache[i] != nil || l.dirty {
				l.displayCache[i] = nil
				l.screen.Print(PrintArgs{Y: y, Style: l.styles.Basic, Fill: true})
			}
			continue
		}
		l.drawRow(state, matches[i], i, i == vcursor, y, cols)
	}
	l.dirty = false

	l.DrawStatus(state)
	l.DrawPrompt(state)
}

func (l *Layout) drawRow(state State, target line.Line, n int, current bool, y, cols int) {
	// rows under the cursor or carrying a selection marker bypass the
	// cache so marker changes always repaint
	selected := state.MultiSelect() && state.IsSelected(target)
	cacheable := !current && !selected && !l.dirty && !target.IsDirty()
	if cacheable && l.displayCache[n] == target {
		return
	}
	target.SetDirty(false)
	l.displayCache[n] = target
	if current || selected {
		// poison the cache entry so leaving this state repaints
		l.displayCache[n] = nil
	}

	baseStyle := l.styles.Basic
	if current {
		baseStyle = l.styles.Selected
	}

	// gutters
	cursorMark, selectMark := ' ', ' '
	if current {
		cursorMark = '>'
	}
	if selected {
		selectMark = '>'
	}
	l.screen.SetCell(0, y, cursorMark, l.styles.Selected)
	l.screen.SetCell(1, y, selectMark, l.styles.SavedSelection)

	width := cols - gutterWidth
	if width <= 0 {
		return
	}

	txt := target.Text()
	var indices [][]int
	if ix, ok := target.(filter.MatchIndexer); ok {
		indices = ix.Indices()
	}
	txt, indices = TrimToWidth(txt, indices, width)

	x := gutterWidth
	prev := 0
	for _, m := range indices {
		begin, end := m[0], m[1]
		if begin < prev {
			begin = prev
		}
		if end > len(txt) {
			end = len(txt)
		}
		if begin > len(txt) {
			begin = len(txt)
		}
		if begin > prev {
			x += l.screen.Print(PrintArgs{X: x, Y: y, Style: baseStyle, Msg: txt[prev:begin]})
		}
		if end > begin {
			hl := NewStyle(l.styles.Matched.Foreground(), baseStyle.Background())
			x += l.screen.Print(PrintArgs{X: x, Y: y, Style: hl, Msg: txt[begin:end]})
		}
		prev = end
	}
	if prev < len(txt) {
		x += l.screen.Print(PrintArgs{X: x, Y: y, Style: baseStyle, Msg: txt[prev:]})
	}

	// clear the remainder of the row
	l.screen.Print(PrintArgs{X: x, Y: y, Style: baseStyle, Fill: true})
}

// TrimToWidth fits txt into width display cells. When the text
// overflows and the rightmost match still fits, the right side is
// truncated and ".." appended; otherwise the left side is dropped,
// ".." prepended, and the offsets shifted accordingly (begins clamped
// to just after the ellipsis).
func TrimToWidth(txt string, indices [][]int, width int) (string, [][]int) {
	if runewidth.StringWidth(txt) <= width {
		return txt, indices
	}

	rightmost := 0
	for _, m := range indices {
		if m[1] > rightmost {
			rightmost = m[1]
		}
	}

	if rightmost > len(txt) {
		rightmost = len(txt)
	}

	if runewidth.StringWidth(txt[:rightmost]) <= width-2 {
		// Keep the left, truncate the right
		cut := fitWidth(txt, width-2)
		return txt[:cut] + "..", indices
	}

	// Truncate the left so that the remainder fits
	drop := 0
	for drop < len(txt) && runewidth.StringWidth(txt[drop:]) > width-2 {
		_, sz := utf8.DecodeRuneInString(txt[drop:])
		drop += sz
	}

	trimmed := ".." + txt[drop:]
	shifted := make([][]int, 0, len(indices))
	for _, m := range indices {
		begin := m[0] - drop + 2
		end := m[1] - drop + 2
		if end <= 2 {
			continue
		}
		if begin < 2 {
			begin = 2
		}
		if end > len(trimmed) {
			end = len(trimmed)
		}
		shifted = append(shifted, []int{begin, end})
	}
	return trimmed, shifted
}

// fitWidth returns the largest byte index such that txt[:idx] fits in
// width display cells.
func fitWidth(txt string, width int) int {
	w := 0
	for i, r := range txt {
		rw := runewidth.RuneWidth(r)
		if w+rw > width {
			return i
		}
		w += rw
	}
	return len(txt)
}
