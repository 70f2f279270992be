package frozen

import (
	"errors"
	"slices"
	"testing"

	"packgrid/internal/filter"
	"packgrid/internal/model"
)

func newTable(t *testing.T, n int) *model.Table {
	t.Helper()
	cols := []model.Column{
		{Name: "name", Kind: model.KindText, Frozen: true},
		{Name: "age", Kind: model.KindInteger, Editable: true},
		{Name: "city", Kind: model.KindText},
		{Name: "enabled", Kind: model.KindBool},
	}
	data := make([][]model.Value, 0, n)
	for i := 0; i < n; i++ {
		data = append(data, []model.Value{model.Text(string(rune('a' + i%26))), model.Int(int64(i)), model.Text("x"), model.Bool(i%2 == 0)})
	}
	tbl, err := model.NewTable(cols, data)
	if err != nil {
		t.Fatalf("table: %v", err)
	}
	return tbl
}

func TestPartition(t *testing.T) {
	s := New(newTable(t, 3), nil)
	if got := s.Frozen().Columns(); !slices.Equal(got, []int{0}) {
		t.Fatalf("frozen cols %v", got)
	}
	if got := s.Scrollable().Columns(); !slices.Equal(got, []int{1, 2, 3}) {
		t.Fatalf("scroll cols %v", got)
	}
}

func TestScrollToSyncsPanes(t *testing.T) {
	s := New(newTable(t, 50), nil)
	s.SetViewport(80, 10)
	for k := 0; k < s.RowCount(); k++ {
		s.ScrollTo(k)
		if s.Frozen().FirstVisibleRow() != k || s.Scrollable().FirstVisibleRow() != k {
			t.Fatalf("k=%d frozen=%d scroll=%d", k, s.Frozen().FirstVisibleRow(), s.Scrollable().FirstVisibleRow())
		}
		if !slices.Equal(s.Frozen().Window(), s.Scrollable().Window()) {
			t.Fatalf("k=%d windows differ", k)
		}
	}
	s.ScrollTo(500)
	if s.FirstVisibleRow() != 49 {
		t.Fatalf("clamped to %d", s.FirstVisibleRow())
	}
}

func TestScrollGestureFromEitherPane(t *testing.T) {
	s := New(newTable(t, 30), nil)
	s.Handle(RangeVisible{Width: 40, Height: 5})
	s.Handle(ScrollDelta{FromFrozen: true, Rows: 4, Columns: 2})
	if s.Frozen().FirstVisibleRow() != 4 || s.Scrollable().FirstVisibleRow() != 4 {
		t.Fatalf("offsets diverged")
	}
	if s.Scrollable().FirstColumn() != 0 {
		t.Fatalf("frozen pane gesture scrolled horizontally")
	}
	s.Handle(ScrollDelta{Rows: -1, Columns: 1})
	if s.FirstVisibleRow() != 3 || s.Scrollable().FirstColumn() != 1 {
		t.Fatalf("row=%d col=%d", s.FirstVisibleRow(), s.Scrollable().FirstColumn())
	}
}

func TestNonFrozenEditKeepsRowInPlace(t *testing.T) {
	tbl := newTable(t, 3)
	f := filter.New(tbl)
	s := New(tbl, f)
	row2 := tbl.RowIDs()[1]
	before, _ := s.RowAt(1)
	if err := tbl.SetCell(row2, 1, model.Int(5)); err != nil {
		t.Fatalf("set: %v", err)
	}
	after, _ := s.RowAt(1)
	if before != row2 || after != row2 {
		t.Fatalf("row moved: before=%d after=%d", before, after)
	}
	if !slices.Equal(s.Frozen().Window(), tbl.RowIDs()) {
		t.Fatalf("frozen window %v", s.Frozen().Window())
	}
}

func TestFollowsFilter(t *testing.T) {
	tbl := newTable(t, 10)
	f := filter.New(tbl)
	s := New(tbl, f)
	s.SetViewport(80, 4)
	s.SetCursor(6, 0)
	want, _ := s.RowAt(6)

	set, err := filter.Compile(tbl.Columns(), []filter.Criteria{{Query: "true", Columns: []int{3}}}, false)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	f.SetPredicate(set)
	if s.RowCount() != 5 || s.Frozen().RowCount() != s.Scrollable().RowCount() {
		t.Fatalf("rows=%d", s.RowCount())
	}
	r, _ := s.Cursor()
	if got, _ := s.RowAt(r); got != want {
		t.Fatalf("cursor left its row: got %d want %d", got, want)
	}
	if s.FirstVisibleRow() > r || r >= s.FirstVisibleRow()+s.PageHeight() {
		t.Fatalf("cursor %d off screen (first %d)", r, s.FirstVisibleRow())
	}
}

func TestToggleFrozenRepartitions(t *testing.T) {
	tbl := newTable(t, 3)
	s := New(tbl, nil)
	s.SetCursor(0, 2) // city
	if err := s.ToggleFrozen(2); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if got := s.Frozen().Columns(); !slices.Equal(got, []int{0, 2}) {
		t.Fatalf("frozen %v", got)
	}
	if _, col := s.Cursor(); col != 1 {
		t.Fatalf("cursor should follow city to display 1, got %d", col)
	}
	if c, _ := tbl.Column(2); !c.Frozen {
		t.Fatalf("descriptor not updated")
	}
	_ = s.ToggleFrozen(0)
	if got := s.Scrollable().Columns(); !slices.Equal(got, []int{0, 1, 3}) {
		t.Fatalf("scroll %v", got)
	}
}

func TestMoveColumnStaysInPane(t *testing.T) {
	s := New(newTable(t, 3), nil)
	if err := s.MoveColumn(0, 2); !errors.Is(err, ErrCrossesBoundary) {
		t.Fatalf("expected boundary error, got %v", err)
	}
	if err := s.MoveColumn(3, 1); err != nil {
		t.Fatalf("move: %v", err)
	}
	if got := s.Scrollable().Columns(); !slices.Equal(got, []int{3, 1, 2}) {
		t.Fatalf("scroll %v", got)
	}
	if got := s.Frozen().Columns(); !slices.Equal(got, []int{0}) {
		t.Fatalf("frozen changed: %v", got)
	}
}

func TestResizeIsPaneLocal(t *testing.T) {
	s := New(newTable(t, 3), nil)
	before := s.FrozenWidth()
	_ = s.SetColumnWidth(2, 40)
	if s.FrozenWidth() != before {
		t.Fatalf("scrollable resize changed frozen width")
	}
	_ = s.SetColumnWidth(0, 3)
	if s.FrozenWidth() != 4 {
		t.Fatalf("frozen width %d", s.FrozenWidth())
	}
}

func TestSelectionAcrossBoundary(t *testing.T) {
	tbl := newTable(t, 5)
	s := New(tbl, nil)
	s.SetCursor(3, 2)
	s.Handle(SelectionCommitted{Row: 1, Col: 0, Extend: true})
	sel, ok := s.SelectionRange()
	if !ok || sel != (Selection{StartRow: 1, EndRow: 3, StartCol: 0, EndCol: 2}) {
		t.Fatalf("selection %+v", sel)
	}
	if a, b, ok := s.PaneSelection(s.Frozen()); !ok || a != 0 || b != 0 {
		t.Fatalf("frozen part %d..%d %v", a, b, ok)
	}
	if a, b, ok := s.PaneSelection(s.Scrollable()); !ok || a != 0 || b != 1 {
		t.Fatalf("scroll part %d..%d %v", a, b, ok)
	}
	cells := s.SelectedCells()
	if len(cells) != 3 || len(cells[0]) != 3 || cells[0][0].Row != tbl.RowIDs()[1] || cells[2][2].Column != 2 {
		t.Fatalf("cells %+v", cells)
	}
}

func TestEnsureVisibleScrollsRightOfFrozen(t *testing.T) {
	s := New(newTable(t, 3), nil)
	// frozen width 17, each scrollable column 9..17 wide
	s.SetViewport(40, 10)
	s.SetCursor(0, 3)
	if s.Scrollable().FirstColumn() == 0 {
		t.Fatalf("expected horizontal scroll for the last column")
	}
	s.SetCursor(0, 1)
	if s.Scrollable().FirstColumn() != 0 {
		t.Fatalf("moving back left should scroll back")
	}
	s.SetCursor(0, 0)
	if s.Scrollable().FirstColumn() != 0 {
		t.Fatalf("frozen column scrolled the pane")
	}
}
