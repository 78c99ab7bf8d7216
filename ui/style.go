package ui

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Attribute represents terminal display attributes such as colors
// and text styling (bold, underline, reverse). It is a uint32 bitfield:
//
//	Bits 0-8:   Palette color (0=default, n+1 for palette index n, 1-256)
//	Bit 25:     AttrBold
//	Bit 26:     AttrUnderline
//	Bit 27:     AttrReverse
type Attribute uint32

// Named palette color constants.
const (
	ColorDefault Attribute = 0x0000
	ColorBlack   Attribute = 0x0001
	ColorRed     Attribute = 0x0002
	ColorGreen   Attribute = 0x0003
	ColorYellow  Attribute = 0x0004
	ColorBlue    Attribute = 0x0005
	ColorMagenta Attribute = 0x0006
	ColorCyan    Attribute = 0x0007
	ColorWhite   Attribute = 0x0008
)

const (
	AttrBold      Attribute = 0x02000000
	AttrUnderline Attribute = 0x04000000
	AttrReverse   Attribute = 0x08000000

	colorMask Attribute = 0x000001FF
)

// Color256 returns the attribute for palette color n (0-255).
func Color256(n int) Attribute {
	return Attribute(n&0xFF) + 1
}

// ColorIndex extracts the palette index from an attribute. The second
// return value is false for the default color.
func (a Attribute) ColorIndex() (int, bool) {
	v := a & colorMask
	if v == 0 {
		return 0, false
	}
	return int(v - 1), true
}

// Style describes display attributes for foreground and background.
type Style struct {
	fg Attribute
	bg Attribute
}

// NewStyle creates a Style with the given foreground and background.
func NewStyle(fg, bg Attribute) Style {
	return Style{fg: fg, bg: bg}
}

func (s Style) Foreground() Attribute {
	return s.fg
}

func (s Style) Background() Attribute {
	return s.bg
}

// Reverse returns a copy of the style with the reverse attribute set.
func (s Style) Reverse() Style {
	return Style{fg: s.fg | AttrReverse, bg: s.bg | AttrReverse}
}

var (
	stringToFg = map[string]Attribute{
		"default": ColorDefault,
		"black":   ColorBlack,
		"red":     ColorRed,
		"green":   ColorGreen,
		"yellow":  ColorYellow,
		"blue":    ColorBlue,
		"magenta": ColorMagenta,
		"cyan":    ColorCyan,
		"white":   ColorWhite,
	}
	stringToBg = map[string]Attribute{
		"on_default": ColorDefault,
		"on_black":   ColorBlack,
		"on_red":     ColorRed,
		"on_green":   ColorGreen,
		"on_yellow":  ColorYellow,
		"on_blue":    ColorBlue,
		"on_magenta": ColorMagenta,
		"on_cyan":    ColorCyan,
		"on_white":   ColorWhite,
	}
	stringToFgAttr = map[string]Attribute{
		"bold":      AttrBold,
		"underline": AttrUnderline,
		"reverse":   AttrReverse,
	}
	stringToBgAttr = map[string]Attribute{
		"on_bold": AttrBold,
	}
)

// UnmarshalJSON decodes the JSON representation and assembles
// the proper Style object from a list of strings
func (s *Style) UnmarshalJSON(buf []byte) error {
	raw := []string{}
	if err := json.Unmarshal(buf, &raw); err != nil {
		return errors.Wrap(err, "failed to unmarshal Style")
	}

	s.fg = ColorDefault
	s.bg = ColorDefault

	for _, v := range raw {
		if fg, ok := stringToFg[v]; ok {
			s.fg |= fg
			continue
		}
		if bg, ok := stringToBg[v]; ok {
			s.bg |= bg
			continue
		}
		if fgAttr, ok := stringToFgAttr[v]; ok {
			s.fg |= fgAttr
			continue
		}
		if bgAttr, ok := stringToBgAttr[v]; ok {
			s.bg |= bgAttr
		}
	}

	return nil
}

// UnmarshalYAML decodes the YAML representation, reusing the JSON rules.
func (s *Style) UnmarshalYAML(buf []byte) error {
	return s.UnmarshalJSON(buf)
}

// StyleSet holds styles for the various screen sections
type StyleSet struct {
	Basic          Style `json:"Basic" yaml:"Basic"`
	Query          Style `json:"Query" yaml:"Query"`
	Matched        Style `json:"Matched" yaml:"Matched"`
	Prompt         Style `json:"Prompt" yaml:"Prompt"`
	Selected       Style `json:"Selected" yaml:"Selected"`
	SavedSelection Style `json:"SavedSelection" yaml:"SavedSelection"`
}

// NewStyleSet creates a StyleSet with the 8-color defaults.
func NewStyleSet() *StyleSet {
	ss := &StyleSet{}
	ss.Init()
	return ss
}

// Init applies the 8-color defaults.
func (ss *StyleSet) Init() {
	ss.Basic = NewStyle(ColorDefault, ColorDefault)
	ss.Query = NewStyle(ColorDefault, ColorDefault)
	ss.Matched = NewStyle(ColorGreen, ColorDefault)
	ss.Prompt = NewStyle(ColorBlue, ColorDefault)
	ss.Selected = NewStyle(ColorDefault|AttrBold, ColorDefault)
	ss.SavedSelection = NewStyle(ColorMagenta|AttrBold, ColorDefault)
}

// Init256 applies the 256-color palette, used when $TERM advertises
// 256-color support.
func (ss *StyleSet) Init256() {
	ss.Basic = NewStyle(ColorDefault, ColorDefault)
	ss.Query = NewStyle(ColorDefault, ColorDefault)
	ss.Matched = NewStyle(Color256(151), ColorDefault)
	ss.Prompt = NewStyle(Color256(110), ColorDefault)
	ss.Selected = NewStyle(Color256(229)|AttrBold, Color256(236))
	ss.SavedSelection = NewStyle(Color256(151)|AttrBold, Color256(236))
}
