package fzf

import "github.com/wellle/fzf/ui"

// View owns the layout and translates draw requests into layout calls.
// Its methods run only on the renderer goroutine.
type View struct {
	state  *Fzf
	layout *ui.Layout
}

// NewView creates the view for an initialized screen.
func NewView(state *Fzf) *View {
	return &View{
		state:  state,
		layout: ui.NewLayout(state.Screen(), state.Styles(), state.Prompt()),
	}
}

// PerPage returns how many candidate rows fit on the screen.
func (v *View) PerPage() int {
	return v.layout.PerPage()
}

// Purge drops the row display cache so the next draw repaints fully.
func (v *View) Purge() {
	v.layout.PurgeDisplayCache()
}

// DrawScreen repaints the whole display.
func (v *View) DrawScreen() {
	v.layout.DrawScreen(v.state)
}

// DrawPrompt repaints the query line only.
func (v *View) DrawPrompt() {
	v.layout.DrawPrompt(v.state)
}

// DrawStatus repaints the counters line only.
func (v *View) DrawStatus() {
	v.layout.DrawStatus(v.state)
}
