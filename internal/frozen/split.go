// Package frozen splits a table view into a non-scrolling pane holding the
// frozen columns and a scrolling pane holding the rest. Both panes render the
// same visible rows and share one vertical offset.
package frozen

import (
	"errors"
	"fmt"
	"slices"

	"github.com/mattn/go-runewidth"

	"packgrid/internal/model"
	"packgrid/internal/util/logx"
)

// ErrCrossesBoundary is returned when a column move would change panes; use
// ToggleFrozen for that.
var ErrCrossesBoundary = errors.New("column move crosses the frozen boundary")

// RowSource supplies the visible row sequence, e.g. a filter.RowFilter or
// the table itself.
type RowSource interface {
	VisibleRows() []model.RowID
	Watch(fn func()) (cancel func())
}

// Pane is one of the two viewports.
type Pane struct {
	s        *Split
	frozen   bool
	cols     []int // model column indexes in display order
	firstCol int   // horizontal offset into cols; always 0 for the frozen pane
}

// Columns returns the pane's model columns in display order.
func (p *Pane) Columns() []int { return slices.Clone(p.cols) }

// VisibleColumns returns the columns from the horizontal offset on.
func (p *Pane) VisibleColumns() []int { return slices.Clone(p.cols[p.firstCol:]) }

// FirstVisibleRow is shared by both panes.
func (p *Pane) FirstVisibleRow() int { return p.s.firstRow }

func (p *Pane) FirstColumn() int { return p.firstCol }

func (p *Pane) RowCount() int { return len(p.s.rows) }

// Window returns the row ids currently on screen.
func (p *Pane) Window() []model.RowID { return p.s.window() }

// Split keeps the two panes in sync with the row source and with each other.
type Split struct {
	table  *model.Table
	source RowSource
	rows   []model.RowID

	frozen Pane
	scroll Pane
	widths map[int]int

	firstRow int
	height   int
	width    int // 0 until the host reports a viewport

	cursor   cellPos
	anchor   cellPos
	cursorID model.RowID

	cancels []func()
}

type cellPos struct{ row, col int } // display coordinates

// New builds a split over t. A nil src shows every table row.
func New(t *model.Table, src RowSource) *Split {
	if src == nil {
		src = t
	}
	s := &Split{table: t, source: src, widths: map[int]int{}, height: 20}
	s.frozen = Pane{s: s, frozen: true}
	s.scroll = Pane{s: s}
	for i, c := range t.Columns() {
		s.widths[i] = defaultWidth(c)
		if c.Frozen {
			s.frozen.cols = append(s.frozen.cols, i)
		} else {
			s.scroll.cols = append(s.scroll.cols, i)
		}
	}
	s.rows = src.VisibleRows()
	s.cancels = append(s.cancels,
		t.Subscribe(s.handleTable),
		src.Watch(s.refreshRows),
	)
	return s
}

// Close detaches the split from its sources.
func (s *Split) Close() {
	for _, c := range s.cancels {
		c()
	}
	s.cancels = nil
}

func (s *Split) Frozen() *Pane     { return &s.frozen }
func (s *Split) Scrollable() *Pane { return &s.scroll }

func (s *Split) RowCount() int { return len(s.rows) }

// RowAt returns the row at display index i.
func (s *Split) RowAt(i int) (model.RowID, bool) {
	if i < 0 || i >= len(s.rows) {
		return 0, false
	}
	return s.rows[i], true
}

// FirstVisibleRow is the shared vertical offset.
func (s *Split) FirstVisibleRow() int { return s.firstRow }

func (s *Split) PageHeight() int { return s.height }

// SetViewport records the on-screen size: width in cells and how many rows
// fit in a page.
func (s *Split) SetViewport(width, height int) {
	if height < 1 {
		height = 1
	}
	s.width, s.height = width, height
	s.EnsureVisible(s.cursor.row, s.cursor.col)
}

// ScrollTo sets the first visible row of both panes. It is the only place
// the vertical offset changes.
func (s *Split) ScrollTo(row int) {
	if row >= len(s.rows) {
		row = len(s.rows) - 1
	}
	if row < 0 {
		row = 0
	}
	s.firstRow = row
}

// ScrollBy moves both panes by delta rows.
func (s *Split) ScrollBy(delta int) { s.ScrollTo(s.firstRow + delta) }

// ScrollColumns moves the scrollable pane horizontally by delta columns.
func (s *Split) ScrollColumns(delta int) {
	n := s.scroll.firstCol + delta
	if n > len(s.scroll.cols)-1 {
		n = len(s.scroll.cols) - 1
	}
	if n < 0 {
		n = 0
	}
	s.scroll.firstCol = n
}

func (s *Split) window() []model.RowID {
	if len(s.rows) == 0 {
		return nil
	}
	end := s.firstRow + s.height
	if end > len(s.rows) {
		end = len(s.rows)
	}
	return slices.Clone(s.rows[s.firstRow:end])
}

// ColumnCount is the number of display columns across both panes.
func (s *Split) ColumnCount() int { return len(s.frozen.cols) + len(s.scroll.cols) }

// DisplayColumn maps a unified display column (frozen first) to a model column.
func (s *Split) DisplayColumn(i int) (col int, frozen bool, ok bool) {
	switch {
	case i < 0:
		return -1, false, false
	case i < len(s.frozen.cols):
		return s.frozen.cols[i], true, true
	case i < s.ColumnCount():
		return s.scroll.cols[i-len(s.frozen.cols)], false, true
	}
	return -1, false, false
}

// DisplayIndex is the inverse of DisplayColumn.
func (s *Split) DisplayIndex(col int) (int, bool) {
	if i := slices.Index(s.frozen.cols, col); i >= 0 {
		return i, true
	}
	if i := slices.Index(s.scroll.cols, col); i >= 0 {
		return len(s.frozen.cols) + i, true
	}
	return -1, false
}

func (s *Split) ColumnWidth(col int) int { return s.widths[col] }

// SetColumnWidth resizes one column. It only affects the pane owning it.
func (s *Split) SetColumnWidth(col, w int) error {
	if col < 0 || col >= s.table.ColumnCount() {
		return fmt.Errorf("%w: column %d", model.ErrOutOfRange, col)
	}
	if w < 1 {
		w = 1
	}
	s.widths[col] = w
	return nil
}

// FrozenWidth is the on-screen width of the frozen pane, one gutter per column.
func (s *Split) FrozenWidth() int {
	w := len(s.frozen.cols)
	for _, c := range s.frozen.cols {
		w += s.widths[c]
	}
	return w
}

// MoveColumn reorders columns within one pane. from and to are display
// indexes.
func (s *Split) MoveColumn(from, to int) error {
	nf := len(s.frozen.cols)
	if from < 0 || to < 0 || from >= s.ColumnCount() || to >= s.ColumnCount() {
		return fmt.Errorf("%w: move %d -> %d", model.ErrOutOfRange, from, to)
	}
	if (from < nf) != (to < nf) {
		return ErrCrossesBoundary
	}
	curCol, _, _ := s.DisplayColumn(s.cursor.col)
	p := &s.scroll
	if from < nf {
		p = &s.frozen
	} else {
		from, to = from-nf, to-nf
	}
	c := p.cols[from]
	p.cols = slices.Insert(slices.Delete(p.cols, from, from+1), to, c)
	if i, ok := s.DisplayIndex(curCol); ok {
		s.cursor.col = i
		s.anchor.col = i
	}
	return nil
}

// ToggleFrozen moves a model column across the boundary. The change goes
// through the table so every view of it sees the new descriptor.
func (s *Split) ToggleFrozen(col int) error {
	c, err := s.table.Column(col)
	if err != nil {
		return err
	}
	return s.table.SetColumnFrozen(col, !c.Frozen)
}

func (s *Split) handleTable(e model.Event) {
	if e.Kind != model.EventColumn {
		return
	}
	c, err := s.table.Column(e.Column)
	if err != nil {
		return
	}
	curCol, _, _ := s.DisplayColumn(s.cursor.col)
	if c.Frozen && !slices.Contains(s.frozen.cols, e.Column) {
		s.scroll.cols = slices.DeleteFunc(s.scroll.cols, func(x int) bool { return x == e.Column })
		s.frozen.cols = append(s.frozen.cols, e.Column)
	} else if !c.Frozen && !slices.Contains(s.scroll.cols, e.Column) {
		s.frozen.cols = slices.DeleteFunc(s.frozen.cols, func(x int) bool { return x == e.Column })
		s.scroll.cols = slices.Insert(s.scroll.cols, 0, e.Column)
	}
	s.ScrollColumns(0)
	if i, ok := s.DisplayIndex(curCol); ok {
		s.cursor.col, s.anchor.col = i, i
	}
	logx.Debugf("frozen: column %q frozen=%v (%d frozen, %d scrollable)", c.Name, c.Frozen, len(s.frozen.cols), len(s.scroll.cols))
}

// refreshRows re-reads the row source, keeping the cursor on the same row id
// when it is still visible.
func (s *Split) refreshRows() {
	s.rows = s.source.VisibleRows()
	row := s.cursor.row
	if s.cursorID != 0 {
		if i := slices.Index(s.rows, s.cursorID); i >= 0 {
			row = i
		}
	}
	s.anchor.row = s.clampRow(s.anchor.row + row - s.cursor.row)
	s.cursor.row = s.clampRow(row)
	s.syncCursorID()
	s.ScrollTo(s.firstRow)
	s.ensureRowVisible(s.cursor.row)
}

func (s *Split) clampRow(r int) int {
	if r >= len(s.rows) {
		r = len(s.rows) - 1
	}
	if r < 0 {
		r = 0
	}
	return r
}

func (s *Split) clampCol(c int) int {
	if c >= s.ColumnCount() {
		c = s.ColumnCount() - 1
	}
	if c < 0 {
		c = 0
	}
	return c
}

func (s *Split) syncCursorID() {
	if id, ok := s.RowAt(s.cursor.row); ok {
		s.cursorID = id
	} else {
		s.cursorID = 0
	}
}

func (s *Split) ensureRowVisible(row int) {
	switch {
	case row < s.firstRow:
		s.ScrollTo(row)
	case row >= s.firstRow+s.height:
		s.ScrollTo(row - s.height + 1)
	}
}

// EnsureVisible scrolls so the display cell (row, col) is on screen. Frozen
// columns never scroll horizontally; a scrollable column is kept clear of the
// frozen pane.
func (s *Split) EnsureVisible(row, col int) {
	s.ensureRowVisible(row)
	sc := col - len(s.frozen.cols)
	if sc < 0 {
		return
	}
	if sc < s.scroll.firstCol {
		s.scroll.firstCol = sc
		return
	}
	if s.width <= 0 {
		return
	}
	avail := s.width - s.FrozenWidth()
	for s.scroll.firstCol < sc {
		used := 0
		for _, c := range s.scroll.cols[s.scroll.firstCol : sc+1] {
			used += s.widths[c] + 1
		}
		if used <= avail {
			break
		}
		s.scroll.firstCol++
	}
}

func defaultWidth(c model.Column) int {
	floor := 6
	switch c.Kind {
	case model.KindBool:
		floor = 5
	case model.KindInteger, model.KindFloat:
		floor = 8
	case model.KindText, model.KindRef:
		floor = 16
	}
	return max(runewidth.StringWidth(c.Name)+2, floor)
}
