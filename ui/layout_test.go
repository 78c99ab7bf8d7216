package ui_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wellle/fzf/ui"
)

func TestTrimToWidthFits(t *testing.T) {
	txt, indices := ui.TrimToWidth("short", [][]int{{0, 2}}, 20)
	assert.Equal(t, "short", txt)
	assert.Equal(t, [][]int{{0, 2}}, indices)
}

func TestTrimToWidthRight(t *testing.T) {
	// the match fits on the left: keep the left, truncate the right
	txt, indices := ui.TrimToWidth("abcdefghijklmnop", [][]int{{1, 3}}, 10)
	assert.Equal(t, "abcdefgh..", txt)
	assert.Equal(t, [][]int{{1, 3}}, indices)
}

func TestTrimToWidthLeft(t *testing.T) {
	// the match hangs off the right edge: drop the left instead
	txt, indices := ui.TrimToWidth("abcdefghijklmnop", [][]int{{13, 16}}, 10)
	assert.Equal(t, "..ijklmnop", txt)
	// offsets shift by 2 - trimmed bytes (8): 13 -> 7, 16 -> 10
	assert.Equal(t, [][]int{{7, 10}}, indices)
}

func TestTrimToWidthLeftClampsBegin(t *testing.T) {
	// an offset starting inside the dropped region clamps to just
	// after the ellipsis
	txt, indices := ui.TrimToWidth("abcdefghijklmnop", [][]int{{4, 16}}, 10)
	assert.Equal(t, "..ijklmnop", txt)
	assert.Equal(t, [][]int{{2, 10}}, indices)
}

func TestTrimToWidthDropsInvisibleOffsets(t *testing.T) {
	txt, indices := ui.TrimToWidth("abcdefghijklmnop", [][]int{{0, 2}, {13, 16}}, 10)
	assert.Equal(t, "..ijklmnop", txt)
	assert.Equal(t, [][]int{{7, 10}}, indices)
}

func TestTrimToWidthCJK(t *testing.T) {
	// each CJK rune is 2 cells wide and 3 bytes long
	txt, indices := ui.TrimToWidth("日本語テキスト", [][]int{{0, 3}}, 10)
	// 4 runes fit in width-2 = 8 cells
	assert.Equal(t, "日本語テ..", txt)
	assert.Equal(t, [][]int{{0, 3}}, indices)
}

func TestTrimToWidthNoIndices(t *testing.T) {
	txt, indices := ui.TrimToWidth("abcdefghijklmnop", nil, 6)
	assert.Equal(t, "abcd..", txt)
	assert.Empty(t, indices)
}
