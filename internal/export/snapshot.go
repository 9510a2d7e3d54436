package export

import "image/color"

type paneState struct {
	pane   Pane
	style  Style
	scroll float64
}

type controlState struct {
	control Control
	visible bool
}

// snapshot records everything prepare touches.
type snapshot struct {
	panes    []paneState
	controls []controlState
}

func takeSnapshot(view View) *snapshot {
	s := &snapshot{}
	for _, p := range append([]Pane{view.Container()}, view.Panes()...) {
		s.panes = append(s.panes, paneState{pane: p, style: p.Style(), scroll: p.ScrollOffset()})
	}
	for _, c := range view.Controls() {
		s.controls = append(s.controls, controlState{control: c, visible: c.Visible()})
	}
	return s
}

// restore puts styles back before scroll offsets so a pane that was clipped
// again can accept its old offset.
func (s *snapshot) restore() {
	for i := len(s.controls) - 1; i >= 0; i-- {
		s.controls[i].control.SetVisible(s.controls[i].visible)
	}
	for i := len(s.panes) - 1; i >= 0; i-- {
		st := s.panes[i]
		st.pane.SetStyle(st.style)
		st.pane.SetScrollOffset(st.scroll)
	}
}

// prepare hides ephemeral controls and expands every pane to its full
// content using the expanded style.
func prepare(view View, expanded Style, background color.RGBA) {
	for _, c := range view.Controls() {
		if c.Ephemeral() {
			c.SetVisible(false)
		}
	}

	container := view.Container()
	cs := container.Style()
	cs.Height = 0
	cs.MaxHeight = 0
	cs.Overflow = OverflowVisible
	cs.Background = background
	container.SetStyle(cs)
	container.SetScrollOffset(0)

	for _, p := range view.Panes() {
		st := expanded
		st.Background = p.Style().Background
		p.SetStyle(st)
		p.SetScrollOffset(0)
	}
}
