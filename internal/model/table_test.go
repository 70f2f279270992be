package model

import (
	"errors"
	"testing"
)

func testColumns() []Column {
	return []Column{
		{Name: "name", Kind: KindText, Editable: true, Frozen: true},
		{Name: "age", Kind: KindInteger, Editable: true},
		{Name: "enabled", Kind: KindBool, Editable: true},
	}
}

func testTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := NewTable(testColumns(), [][]Value{
		{Text("alice"), Int(30), Bool(true)},
		{Text("bob"), Int(25), Bool(false)},
		{Text("carol"), Int(41), Bool(true)},
	})
	if err != nil {
		t.Fatalf("new table: %v", err)
	}
	return tbl
}

func TestNewTableRejectsKindViolation(t *testing.T) {
	_, err := NewTable(testColumns(), [][]Value{{Text("x"), Text("oops"), Bool(false)}})
	if !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected type mismatch, got %v", err)
	}
	_, err = NewTable(testColumns(), [][]Value{{Text("x")}})
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected out of range for short row, got %v", err)
	}
}

func TestSetCellTypeMismatchLeavesCell(t *testing.T) {
	tbl := testTable(t)
	var events []Event
	tbl.Subscribe(func(e Event) { events = append(events, e) })
	id := tbl.RowIDs()[1]

	err := tbl.SetCell(id, 1, Text("five"))
	if !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected type mismatch, got %v", err)
	}
	c, _ := tbl.CellAt(id, 1)
	if c.Value.Int != 25 || c.Dirty {
		t.Fatalf("cell changed after failed set: %+v", c)
	}
	if len(events) != 0 {
		t.Fatalf("no event expected, got %v", events)
	}
}

func TestSetCellMarksDirtyAndEmits(t *testing.T) {
	tbl := testTable(t)
	var events []Event
	tbl.Subscribe(func(e Event) { events = append(events, e) })
	id := tbl.RowIDs()[2]
	if err := tbl.SetCell(id, 1, Int(5)); err != nil {
		t.Fatalf("set: %v", err)
	}
	c, _ := tbl.CellAt(id, 1)
	if !c.Dirty || c.Value.Int != 5 {
		t.Fatalf("unexpected cell %+v", c)
	}
	if len(events) != 1 || events[0].Kind != EventUpdate || events[0].Row != id || events[0].Column != 1 {
		t.Fatalf("unexpected events %+v", events)
	}
}

func TestCellAtOutOfRange(t *testing.T) {
	tbl := testTable(t)
	if _, err := tbl.CellAt(999, 0); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("unknown row: %v", err)
	}
	if _, err := tbl.CellAt(tbl.RowIDs()[0], 3); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("bad column: %v", err)
	}
}

func TestRowIDsNeverReused(t *testing.T) {
	tbl := testTable(t)
	first := tbl.RowIDs()[0]
	if err := tbl.RemoveRow(first); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := tbl.RemoveRow(first); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("second remove should fail, got %v", err)
	}
	seen := map[RowID]bool{}
	for _, id := range tbl.RowIDs() {
		seen[id] = true
	}
	for i := 0; i < 10; i++ {
		id, err := tbl.InsertRow(0, []Value{Text("n"), Int(1), Bool(false)})
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
		if id == first || seen[id] {
			t.Fatalf("id %d reused", id)
		}
		seen[id] = true
	}
}

func TestInsertRemovePositions(t *testing.T) {
	tbl := testTable(t)
	ids := tbl.RowIDs()
	var events []Event
	tbl.Subscribe(func(e Event) { events = append(events, e) })

	nid, err := tbl.InsertRow(1, []Value{Text("dave"), Int(19), Bool(false)})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if p, _ := tbl.Position(nid); p != 1 {
		t.Fatalf("new row at %d", p)
	}
	if p, _ := tbl.Position(ids[2]); p != 3 {
		t.Fatalf("last row shifted to %d", p)
	}
	if err := tbl.RemoveRow(ids[0]); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if p, _ := tbl.Position(nid); p != 0 {
		t.Fatalf("new row now at %d", p)
	}
	if len(events) != 2 || events[0].Kind != EventInsert || events[0].Position != 1 ||
		events[1].Kind != EventRemove || events[1].Position != 0 {
		t.Fatalf("unexpected events %+v", events)
	}
	if _, err := tbl.InsertRow(9, []Value{Text("x"), Int(1), Bool(true)}); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("insert past end: %v", err)
	}
}

func TestNestedEventsDeliveredInOrder(t *testing.T) {
	tbl := testTable(t)
	ids := tbl.RowIDs()
	var first, second []EventKind
	tbl.Subscribe(func(e Event) {
		first = append(first, e.Kind)
		if e.Kind == EventUpdate && e.Row == ids[0] {
			// a listener reacting with another mutation
			_ = tbl.RemoveRow(ids[1])
		}
	})
	tbl.Subscribe(func(e Event) { second = append(second, e.Kind) })

	if err := tbl.SetCell(ids[0], 0, Text("al")); err != nil {
		t.Fatalf("set: %v", err)
	}
	want := []EventKind{EventUpdate, EventRemove}
	for _, got := range [][]EventKind{first, second} {
		if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestUnsubscribe(t *testing.T) {
	tbl := testTable(t)
	n := 0
	cancel := tbl.Subscribe(func(Event) { n++ })
	_ = tbl.SetCell(tbl.RowIDs()[0], 1, Int(1))
	cancel()
	_ = tbl.SetCell(tbl.RowIDs()[0], 1, Int(2))
	if n != 1 {
		t.Fatalf("listener called %d times", n)
	}
}

func TestMarkClean(t *testing.T) {
	tbl := testTable(t)
	id := tbl.RowIDs()[0]
	_ = tbl.SetCell(id, 1, Int(3))
	var last Event
	tbl.Subscribe(func(e Event) { last = e })
	tbl.MarkClean()
	r, _ := tbl.Row(id)
	if r.Edited() {
		t.Fatalf("row still edited")
	}
	if last.Kind != EventReset {
		t.Fatalf("expected reset event, got %v", last.Kind)
	}
}

func TestParseValue(t *testing.T) {
	cases := []struct {
		kind Kind
		in   string
		want string
		err  bool
	}{
		{KindInteger, " 42", "42", false},
		{KindInteger, "4.2", "", true},
		{KindFloat, "1.5", "1.5", false},
		{KindBool, "1", "true", false},
		{KindBool, "maybe", "", true},
		{KindText, "hi", "hi", false},
		{KindRef, "land_units", "land_units", false},
	}
	for _, c := range cases {
		v, err := ParseValue(c.kind, c.in)
		if c.err {
			if !errors.Is(err, ErrTypeMismatch) {
				t.Fatalf("%s %q: expected mismatch, got %v", c.kind, c.in, err)
			}
			continue
		}
		if err != nil || v.String() != c.want || v.Kind != c.kind {
			t.Fatalf("%s %q: got %v %v", c.kind, c.in, v, err)
		}
	}
}
