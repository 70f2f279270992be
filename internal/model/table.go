package model

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrOutOfRange is returned for unknown row ids, invalid columns or positions.
	ErrOutOfRange = errors.New("out of range")
	// ErrTypeMismatch is returned when a value kind violates the column schema.
	ErrTypeMismatch = errors.New("type mismatch")
)

// EventKind classifies a change event.
type EventKind int

const (
	EventUpdate EventKind = iota // single cell value changed
	EventInsert                  // row inserted
	EventRemove                  // row removed
	EventColumn                  // column descriptor changed
	EventReset                   // bulk change, consumers recompute everything
)

func (k EventKind) String() string {
	switch k {
	case EventUpdate:
		return "update"
	case EventInsert:
		return "insert"
	case EventRemove:
		return "remove"
	case EventColumn:
		return "column"
	case EventReset:
		return "reset"
	}
	return "unknown"
}

// Event is emitted after every successful mutation. Position is the model
// position of the row (for remove: the position it had before removal).
type Event struct {
	Kind     EventKind
	Row      RowID
	Position int
	Column   int
}

// Listener receives change events in emission order.
type Listener func(Event)

// Source is the read contract shared by the table and its projections.
type Source interface {
	RowCount() int
	ColumnCount() int
	Columns() []Column
	CellAt(id RowID, col int) (Cell, error)
	Subscribe(l Listener) (cancel func())
}

type subscriber struct {
	id int
	fn Listener
}

type row struct {
	id    RowID
	cells []Cell
}

// Table is the authoritative row/column store of one open document. It is
// not safe for concurrent use; callers marshal mutations onto one goroutine.
type Table struct {
	cols   []Column
	rows   []*row
	pos    map[RowID]int
	nextID RowID

	subs    []subscriber
	nextSub int
	queue   []Event
	busy    bool
}

// NewTable builds a table from a pre-decoded grid. Every row must have one
// value per column with the column's kind.
func NewTable(cols []Column, data [][]Value) (*Table, error) {
	t := &Table{
		cols:   slices.Clone(cols),
		pos:    make(map[RowID]int, len(data)),
		nextID: 1,
	}
	t.rows = make([]*row, 0, len(data))
	for i, vals := range data {
		cells, err := t.cellsFor(vals)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		r := &row{id: t.nextID, cells: cells}
		t.nextID++
		t.pos[r.id] = len(t.rows)
		t.rows = append(t.rows, r)
	}
	return t, nil
}

func (t *Table) cellsFor(vals []Value) ([]Cell, error) {
	if len(vals) != len(t.cols) {
		return nil, fmt.Errorf("%w: got %d values for %d columns", ErrOutOfRange, len(vals), len(t.cols))
	}
	cells := make([]Cell, len(vals))
	for c, v := range vals {
		if v.Kind != t.cols[c].Kind {
			return nil, fmt.Errorf("%w: column %q wants %s, got %s", ErrTypeMismatch, t.cols[c].Name, t.cols[c].Kind, v.Kind)
		}
		cells[c] = Cell{Value: v}
	}
	return cells, nil
}

func (t *Table) RowCount() int    { return len(t.rows) }
func (t *Table) ColumnCount() int { return len(t.cols) }

// Columns returns a copy of the column descriptors.
func (t *Table) Columns() []Column { return slices.Clone(t.cols) }

// Column returns the descriptor of column c.
func (t *Table) Column(c int) (Column, error) {
	if c < 0 || c >= len(t.cols) {
		return Column{}, fmt.Errorf("%w: column %d", ErrOutOfRange, c)
	}
	return t.cols[c], nil
}

// ColumnIndex finds a column by name.
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, c := range t.cols {
		if c.Name == name {
			return i, true
		}
	}
	return -1, false
}

// RowIDs returns every row id in model order.
func (t *Table) RowIDs() []RowID {
	out := make([]RowID, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.id
	}
	return out
}

// Position returns the current model position of a row.
func (t *Table) Position(id RowID) (int, bool) {
	p, ok := t.pos[id]
	return p, ok
}

// Row returns a read-only view of the row.
func (t *Table) Row(id RowID) (Row, error) {
	p, ok := t.pos[id]
	if !ok {
		return Row{}, fmt.Errorf("%w: row %d", ErrOutOfRange, id)
	}
	r := t.rows[p]
	return Row{ID: r.id, Cells: r.cells}, nil
}

// CellAt returns a copy of one cell.
func (t *Table) CellAt(id RowID, col int) (Cell, error) {
	p, ok := t.pos[id]
	if !ok {
		return Cell{}, fmt.Errorf("%w: row %d", ErrOutOfRange, id)
	}
	if col < 0 || col >= len(t.cols) {
		return Cell{}, fmt.Errorf("%w: column %d", ErrOutOfRange, col)
	}
	return t.rows[p].cells[col], nil
}

// SetCell validates v against the column and stores it, marking the cell
// dirty. A failed call leaves the cell untouched and emits nothing.
func (t *Table) SetCell(id RowID, col int, v Value) error {
	p, ok := t.pos[id]
	if !ok {
		return fmt.Errorf("%w: row %d", ErrOutOfRange, id)
	}
	if col < 0 || col >= len(t.cols) {
		return fmt.Errorf("%w: column %d", ErrOutOfRange, col)
	}
	if want := t.cols[col].Kind; v.Kind != want {
		return fmt.Errorf("%w: column %q wants %s, got %s", ErrTypeMismatch, t.cols[col].Name, want, v.Kind)
	}
	t.rows[p].cells[col] = Cell{Value: v, Dirty: true}
	t.emit(Event{Kind: EventUpdate, Row: id, Position: p, Column: col})
	return nil
}

// InsertRow inserts a row at position (0..RowCount) and returns its new id.
func (t *Table) InsertRow(position int, vals []Value) (RowID, error) {
	if position < 0 || position > len(t.rows) {
		return 0, fmt.Errorf("%w: position %d", ErrOutOfRange, position)
	}
	cells, err := t.cellsFor(vals)
	if err != nil {
		return 0, err
	}
	r := &row{id: t.nextID, cells: cells}
	t.nextID++
	t.rows = slices.Insert(t.rows, position, r)
	t.reindex(position)
	t.emit(Event{Kind: EventInsert, Row: r.id, Position: position, Column: -1})
	return r.id, nil
}

// AppendRow inserts a row after the last one.
func (t *Table) AppendRow(vals []Value) (RowID, error) {
	return t.InsertRow(len(t.rows), vals)
}

// RemoveRow deletes a row. Its id is retired and never handed out again.
func (t *Table) RemoveRow(id RowID) error {
	p, ok := t.pos[id]
	if !ok {
		return fmt.Errorf("%w: row %d", ErrOutOfRange, id)
	}
	t.rows = slices.Delete(t.rows, p, p+1)
	delete(t.pos, id)
	t.reindex(p)
	t.emit(Event{Kind: EventRemove, Row: id, Position: p, Column: -1})
	return nil
}

// SetColumnFrozen moves a column across the frozen/scrollable boundary.
func (t *Table) SetColumnFrozen(col int, frozen bool) error {
	if col < 0 || col >= len(t.cols) {
		return fmt.Errorf("%w: column %d", ErrOutOfRange, col)
	}
	if t.cols[col].Frozen == frozen {
		return nil
	}
	t.cols[col].Frozen = frozen
	t.emit(Event{Kind: EventColumn, Position: -1, Column: col})
	return nil
}

// MarkClean clears every dirty flag, e.g. after the document was saved.
func (t *Table) MarkClean() {
	for _, r := range t.rows {
		for i := range r.cells {
			r.cells[i].Dirty = false
		}
	}
	t.emit(Event{Kind: EventReset, Position: -1, Column: -1})
}

func (t *Table) reindex(from int) {
	for i := from; i < len(t.rows); i++ {
		t.pos[t.rows[i].id] = i
	}
}

// Subscribe registers l. Listeners are called in subscription order.
func (t *Table) Subscribe(l Listener) (cancel func()) {
	id := t.nextSub
	t.nextSub++
	t.subs = append(t.subs, subscriber{id: id, fn: l})
	return func() {
		t.subs = slices.DeleteFunc(t.subs, func(s subscriber) bool { return s.id == id })
	}
}

// Watch is Subscribe for consumers that only need to know something changed.
func (t *Table) Watch(fn func()) (cancel func()) {
	return t.Subscribe(func(Event) { fn() })
}

// VisibleRows lets the table act as an unfiltered row source.
func (t *Table) VisibleRows() []RowID { return t.RowIDs() }

// emit delivers e to every listener. Events raised by a listener while a
// delivery is running are queued and delivered once it completes.
func (t *Table) emit(e Event) {
	t.queue = append(t.queue, e)
	if t.busy {
		return
	}
	t.busy = true
	defer func() { t.busy = false }()
	for len(t.queue) > 0 {
		ev := t.queue[0]
		t.queue = t.queue[1:]
		for _, s := range slices.Clone(t.subs) {
			s.fn(ev)
		}
	}
}

var _ Source = (*Table)(nil)
