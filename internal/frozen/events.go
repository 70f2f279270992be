package frozen

// Input events reported by the host toolkit. They carry plain values only.

// ScrollDelta is a wheel or scrollbar gesture on either pane.
type ScrollDelta struct {
	FromFrozen bool
	Rows       int
	Columns    int // ignored for the frozen pane
}

// RangeVisible reports the viewport size after layout.
type RangeVisible struct {
	Width  int
	Height int
}

// SelectionCommitted is a click or keyboard selection at a display cell.
type SelectionCommitted struct {
	Row, Col int
	Extend   bool
}

// Handle applies one host event. Vertical scrolling from either pane goes
// through ScrollTo so the panes cannot drift apart.
func (s *Split) Handle(ev any) {
	switch e := ev.(type) {
	case ScrollDelta:
		if e.Rows != 0 {
			s.ScrollBy(e.Rows)
		}
		if e.Columns != 0 && !e.FromFrozen {
			s.ScrollColumns(e.Columns)
		}
	case RangeVisible:
		s.SetViewport(e.Width, e.Height)
	case SelectionCommitted:
		if e.Extend {
			s.ExtendSelection(e.Row, e.Col)
		} else {
			s.SetCursor(e.Row, e.Col)
		}
	}
}
