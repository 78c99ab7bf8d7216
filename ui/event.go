package ui

// EventType classifies the type of terminal event.
type EventType uint8

const (
	// EventKey is a keyboard event
	EventKey EventType = iota
	// EventMouse is a mouse click or scroll event
	EventMouse
	// EventResize is a terminal resize event
	EventResize
	// EventError is an error event
	EventError
)

// Key is a logical key, decoupled from any terminal library.
type Key int

const (
	KeyNone Key = iota
	// KeyRune is a printable character carried in Event.Ch
	KeyRune
	KeyCtrlA
	KeyCtrlB
	KeyCtrlC
	KeyCtrlD
	KeyCtrlE
	KeyCtrlF
	KeyCtrlG
	KeyCtrlJ
	KeyCtrlK
	KeyCtrlL
	KeyCtrlN
	KeyCtrlP
	KeyCtrlQ
	KeyCtrlU
	KeyCtrlW
	KeyCtrlY
	KeyEnter
	KeyEsc
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyTab
	KeyBacktab
	KeyArrowUp
	KeyArrowDown
	KeyArrowLeft
	KeyArrowRight
	KeyHome
	KeyEnd
	KeyPgUp
	KeyPgDn
)

// Modifier is a bitmask of modifier keys held during an event.
type Modifier uint8

const (
	ModNone Modifier = 0
	ModAlt  Modifier = 1 << iota
	ModShift
	ModCtrl
)

// MouseButton identifies what part of the mouse produced an EventMouse.
type MouseButton int

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseWheelUp
	MouseWheelDown
)

// Event is the internal terminal event type delivered by the screen
// driver to the input loop.
type Event struct {
	Type EventType
	Key  Key
	Ch   rune
	Mod  Modifier

	// Mouse event fields
	MouseX int
	MouseY int
	Btn    MouseButton
}
