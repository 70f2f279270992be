package filter

import (
	"fmt"
	"slices"
	"sort"

	"packgrid/internal/model"
	"packgrid/internal/util/logx"
)

// RowFilter is the visible-row projection of a table: the rows accepted by
// the current predicate, in model order unless an explicit sort is set.
type RowFilter struct {
	table   *model.Table
	pred    Predicate
	visible []model.RowID
	member  map[model.RowID]bool

	sortCol  int
	sortDesc bool

	watchers []watcher
	nextW    int
	cancel   func()
}

type watcher struct {
	id int
	fn func()
}

// New subscribes a filter to t. It starts with the match-all predicate.
func New(t *model.Table) *RowFilter {
	f := &RowFilter{table: t, sortCol: -1}
	f.recompute()
	f.cancel = t.Subscribe(f.handle)
	return f
}

// Close detaches the filter from its table.
func (f *RowFilter) Close() {
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
}

// SetPredicate replaces the predicate and recomputes the visible rows in a
// single pass. An empty predicate also drops any explicit sort so the view
// returns to plain model order.
func (f *RowFilter) SetPredicate(p Predicate) {
	f.pred = p
	if IsEmpty(p) {
		f.sortCol = -1
	}
	f.recompute()
	f.notify()
}

func (f *RowFilter) Predicate() Predicate { return f.pred }

// SortBy orders visible rows by a column. Ties keep model order.
func (f *RowFilter) SortBy(col int, desc bool) error {
	if col < 0 || col >= f.table.ColumnCount() {
		return fmt.Errorf("%w: sort column %d", model.ErrOutOfRange, col)
	}
	f.sortCol, f.sortDesc = col, desc
	f.recompute()
	f.notify()
	return nil
}

// ClearSort restores model order.
func (f *RowFilter) ClearSort() {
	if f.sortCol < 0 {
		return
	}
	f.sortCol = -1
	f.recompute()
	f.notify()
}

// Sort returns the active sort column, or ok=false.
func (f *RowFilter) Sort() (col int, desc bool, ok bool) {
	return f.sortCol, f.sortDesc, f.sortCol >= 0
}

// VisibleRows returns a copy of the visible row ids.
func (f *RowFilter) VisibleRows() []model.RowID { return slices.Clone(f.visible) }

func (f *RowFilter) Len() int { return len(f.visible) }

// At returns the row shown at display index i.
func (f *RowFilter) At(i int) (model.RowID, bool) {
	if i < 0 || i >= len(f.visible) {
		return 0, false
	}
	return f.visible[i], true
}

// IndexOf returns the display index of a row.
func (f *RowFilter) IndexOf(id model.RowID) (int, bool) {
	if !f.member[id] {
		return -1, false
	}
	if f.sortCol < 0 {
		i := sort.Search(len(f.visible), func(i int) bool { return !f.less(f.visible[i], id) })
		if i < len(f.visible) && f.visible[i] == id {
			return i, true
		}
	}
	i := slices.Index(f.visible, id)
	return i, i >= 0
}

// Watch registers fn to run after every change of the visible rows.
func (f *RowFilter) Watch(fn func()) (cancel func()) {
	id := f.nextW
	f.nextW++
	f.watchers = append(f.watchers, watcher{id: id, fn: fn})
	return func() {
		f.watchers = slices.DeleteFunc(f.watchers, func(w watcher) bool { return w.id == id })
	}
}

func (f *RowFilter) notify() {
	for _, w := range slices.Clone(f.watchers) {
		w.fn()
	}
}

func (f *RowFilter) match(id model.RowID) bool {
	if IsEmpty(f.pred) {
		return true
	}
	r, err := f.table.Row(id)
	if err != nil {
		return false
	}
	return f.pred.Match(r)
}

// recompute builds the visible list aside and swaps it in.
func (f *RowFilter) recompute() {
	ids := f.table.RowIDs()
	visible := make([]model.RowID, 0, len(ids))
	member := make(map[model.RowID]bool, len(ids))
	for _, id := range ids {
		if f.match(id) {
			visible = append(visible, id)
			member[id] = true
		}
	}
	if f.sortCol >= 0 {
		slices.SortStableFunc(visible, func(a, b model.RowID) int { return f.cmp(a, b) })
	}
	f.visible, f.member = visible, member
	logx.Debugf("filter: recomputed %d/%d rows visible", len(visible), len(ids))
}

func (f *RowFilter) handle(e model.Event) {
	switch e.Kind {
	case model.EventInsert:
		if f.match(e.Row) {
			f.insert(e.Row)
		}
	case model.EventUpdate:
		in, ok := f.member[e.Row], f.match(e.Row)
		switch {
		case in && !ok:
			f.remove(e.Row)
		case !in && ok:
			f.insert(e.Row)
		case in && ok && e.Column == f.sortCol:
			f.remove(e.Row)
			f.insert(e.Row)
		}
	case model.EventRemove:
		if f.member[e.Row] {
			f.remove(e.Row)
		}
	case model.EventReset:
		f.recompute()
	case model.EventColumn:
		// descriptor only, rows are unaffected
	}
	f.notify()
}

func (f *RowFilter) insert(id model.RowID) {
	i := sort.Search(len(f.visible), func(i int) bool { return f.less(id, f.visible[i]) })
	f.visible = slices.Insert(f.visible, i, id)
	f.member[id] = true
}

func (f *RowFilter) remove(id model.RowID) {
	if i := slices.Index(f.visible, id); i >= 0 {
		f.visible = slices.Delete(f.visible, i, i+1)
	}
	delete(f.member, id)
}

func (f *RowFilter) less(a, b model.RowID) bool { return f.cmp(a, b) < 0 }

// cmp orders by the sort column (if any) and then by model position.
func (f *RowFilter) cmp(a, b model.RowID) int {
	if f.sortCol >= 0 {
		ca, errA := f.table.CellAt(a, f.sortCol)
		cb, errB := f.table.CellAt(b, f.sortCol)
		if errA == nil && errB == nil {
			c := model.Compare(ca.Value, cb.Value)
			if f.sortDesc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
	}
	pa, _ := f.table.Position(a)
	pb, _ := f.table.Position(b)
	return pa - pb
}
