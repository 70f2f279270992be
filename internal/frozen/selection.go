package frozen

import "packgrid/internal/model"

// Selection is a rectangular range in display coordinates. Columns count
// across both panes, frozen columns first. Bounds are inclusive.
type Selection struct {
	StartRow, EndRow int
	StartCol, EndCol int
}

// Contains reports whether the display cell is inside the selection.
func (sel Selection) Contains(row, col int) bool {
	return row >= sel.StartRow && row <= sel.EndRow && col >= sel.StartCol && col <= sel.EndCol
}

// CellRef addresses one model cell.
type CellRef struct {
	Row    model.RowID
	Column int
}

// Cursor returns the current display cell.
func (s *Split) Cursor() (row, col int) { return s.cursor.row, s.cursor.col }

// SetCursor moves the cursor and collapses the selection onto it.
func (s *Split) SetCursor(row, col int) {
	s.cursor = cellPos{row: s.clampRow(row), col: s.clampCol(col)}
	s.anchor = s.cursor
	s.syncCursorID()
	s.EnsureVisible(s.cursor.row, s.cursor.col)
}

// ExtendSelection moves the cursor while keeping the anchor.
func (s *Split) ExtendSelection(row, col int) {
	s.cursor = cellPos{row: s.clampRow(row), col: s.clampCol(col)}
	s.syncCursorID()
	s.EnsureVisible(s.cursor.row, s.cursor.col)
}

// MoveCursor moves by (dr, dc). With extend the anchor stays put.
func (s *Split) MoveCursor(dr, dc int, extend bool) {
	if extend {
		s.ExtendSelection(s.cursor.row+dr, s.cursor.col+dc)
		return
	}
	s.SetCursor(s.cursor.row+dr, s.cursor.col+dc)
}

// SelectionRange returns the one logical selection spanning both panes.
func (s *Split) SelectionRange() (Selection, bool) {
	if len(s.rows) == 0 || s.ColumnCount() == 0 {
		return Selection{}, false
	}
	sel := Selection{
		StartRow: min(s.anchor.row, s.cursor.row),
		EndRow:   max(s.anchor.row, s.cursor.row),
		StartCol: min(s.anchor.col, s.cursor.col),
		EndCol:   max(s.anchor.col, s.cursor.col),
	}
	return sel, true
}

// PaneSelection is the part of the selection rendered by one pane, as pane
// column indexes. ok is false when the pane shows none of it.
func (s *Split) PaneSelection(p *Pane) (startCol, endCol int, ok bool) {
	sel, has := s.SelectionRange()
	if !has {
		return 0, 0, false
	}
	off := 0
	if !p.frozen {
		off = len(s.frozen.cols)
	}
	startCol, endCol = sel.StartCol-off, sel.EndCol-off
	if endCol < 0 || startCol >= len(p.cols) {
		return 0, 0, false
	}
	return max(startCol, 0), min(endCol, len(p.cols)-1), true
}

// SelectedCells lists the selected model cells row by row, in display order.
func (s *Split) SelectedCells() [][]CellRef {
	sel, ok := s.SelectionRange()
	if !ok {
		return nil
	}
	out := make([][]CellRef, 0, sel.EndRow-sel.StartRow+1)
	for r := sel.StartRow; r <= sel.EndRow; r++ {
		line := make([]CellRef, 0, sel.EndCol-sel.StartCol+1)
		for c := sel.StartCol; c <= sel.EndCol; c++ {
			col, _, _ := s.DisplayColumn(c)
			line = append(line, CellRef{Row: s.rows[r], Column: col})
		}
		out = append(out, line)
	}
	return out
}
