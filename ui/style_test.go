package ui

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyleUnmarshalJSON(t *testing.T) {
	var s Style
	require.NoError(t, json.Unmarshal([]byte(`["red","on_blue","bold"]`), &s))
	assert.Equal(t, ColorRed|AttrBold, s.Foreground())
	assert.Equal(t, ColorBlue, s.Background())
}

func TestStyleUnmarshalUnknownTokens(t *testing.T) {
	var s Style
	require.NoError(t, json.Unmarshal([]byte(`["chartreuse"]`), &s))
	assert.Equal(t, ColorDefault, s.Foreground())
	assert.Equal(t, ColorDefault, s.Background())
}

func TestColor256RoundTrip(t *testing.T) {
	a := Color256(110)
	idx, ok := a.ColorIndex()
	require.True(t, ok)
	assert.Equal(t, 110, idx)

	_, ok = ColorDefault.ColorIndex()
	assert.False(t, ok)
}

func TestStyleSetPalettes(t *testing.T) {
	ss := NewStyleSet()
	assert.Equal(t, ColorGreen, ss.Matched.Foreground())

	ss.Init256()
	idx, ok := ss.Matched.Foreground().ColorIndex()
	require.True(t, ok)
	assert.Equal(t, 151, idx)
}

func TestReverse(t *testing.T) {
	s := NewStyle(ColorRed, ColorDefault).Reverse()
	assert.NotZero(t, s.Foreground()&AttrReverse)
}
