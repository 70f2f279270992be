package parse

import (
	"errors"
	"strings"
	"testing"

	"packgrid/internal/model"
)

func TestParseHeader(t *testing.T) {
	cols, typed, err := ParseHeader("id:ref:frozen:ro\tname:text:frozen\tnotes:longtext\tqty:int\tdone:bool")
	if err != nil || !typed {
		t.Fatalf("header: %v typed=%v", err, typed)
	}
	if len(cols) != 5 {
		t.Fatalf("cols: %d", len(cols))
	}
	if !cols[0].Frozen || cols[0].Editable || cols[0].Kind != model.KindRef {
		t.Fatalf("id column: %+v", cols[0])
	}
	if !cols[1].Frozen || !cols[1].Editable {
		t.Fatalf("name column: %+v", cols[1])
	}
	if !cols[2].Multiline || cols[2].Kind != model.KindText {
		t.Fatalf("notes column: %+v", cols[2])
	}
	if cols[3].Kind != model.KindInteger || cols[4].Kind != model.KindBool {
		t.Fatalf("kinds: %v %v", cols[3].Kind, cols[4].Kind)
	}
	if got := FormatHeader(cols); got != "id:ref:frozen:ro\tname:text:frozen\tnotes:longtext\tqty:int\tdone:bool" {
		t.Fatalf("format: %q", got)
	}
}

func TestParseHeaderErrors(t *testing.T) {
	for _, h := range []string{"", "a\ta", "a:weird", "a:int:sideways", "\tb"} {
		if _, _, err := ParseHeader(h); err == nil {
			t.Fatalf("header %q: expected error", h)
		}
	}
}

func TestEscapeRoundTrip(t *testing.T) {
	s := "line one\nline\ttwo \\ back\\t"
	if got := Unescape(Escape(s)); got != s {
		t.Fatalf("got %q", got)
	}
	if strings.ContainsAny(Escape(s), "\t\n") {
		t.Fatalf("escaped text still has separators: %q", Escape(s))
	}
	for _, s := range []string{"#1 spear", "#", `\#`, "a#b"} {
		if got := Unescape(Escape(s)); got != s {
			t.Fatalf("%q came back as %q", s, got)
		}
	}
	if Comment(Escape("# not a comment")) {
		t.Fatalf("escaped field reads as a comment")
	}
}

func TestDecodeKeepsWrittenRows(t *testing.T) {
	cols := []model.Column{
		{Name: "item", Kind: model.KindText, Editable: true},
		{Name: "note", Kind: model.KindText, Editable: true},
	}
	rows := [][]model.Value{
		{model.Text("#1 spear"), model.Text("first")},
		{model.Text(""), model.Text("")},
		{model.Text("ok"), model.Text("x")},
	}
	var b strings.Builder
	b.WriteString(FormatHeader(cols) + "\n")
	for _, r := range rows {
		b.WriteString(FormatRow(r) + "\n")
	}
	_, got, err := Decode(strings.NewReader(b.String()))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != len(rows) {
		t.Fatalf("wrote %d rows, read back %d: %v", len(rows), len(got), got)
	}
	for i := range rows {
		for j := range rows[i] {
			if model.Compare(got[i][j], rows[i][j]) != 0 {
				t.Fatalf("row %d col %d: %q want %q", i, j, got[i][j].Str, rows[i][j].Str)
			}
		}
	}

	// A single-column table writes an empty cell as an empty line.
	in := "name:text\nrope\n\nstove\n"
	if _, got, err = Decode(strings.NewReader(in)); err != nil || len(got) != 3 || got[1][0].Str != "" {
		t.Fatalf("single column: %v %v", got, err)
	}
}

func TestDecodeTyped(t *testing.T) {
	in := "# packing list\n\nname:text\tqty:int\tdone:bool\nrope\t2\ttrue\n# spares\nstove\t1\nnotes\\nhere\t\t0\n"
	cols, rows, err := Decode(strings.NewReader(in))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(cols) != 3 || len(rows) != 3 {
		t.Fatalf("cols=%d rows=%d", len(cols), len(rows))
	}
	if rows[0][1].Int != 2 || !rows[0][2].Bool {
		t.Fatalf("row 0: %+v", rows[0])
	}
	if rows[1][2].Bool || rows[1][2].Kind != model.KindBool {
		t.Fatalf("missing field not zeroed: %+v", rows[1][2])
	}
	if rows[2][0].Str != "notes\nhere" {
		t.Fatalf("unescape: %q", rows[2][0].Str)
	}
}

func TestDecodeBadRowReportsLine(t *testing.T) {
	_, _, err := Decode(strings.NewReader("qty:int\n1\nmany\n"))
	if !errors.Is(err, model.ErrTypeMismatch) || !strings.Contains(err.Error(), "line 3") {
		t.Fatalf("got %v", err)
	}
	_, _, err = Decode(strings.NewReader("a:int\n1\t2\n"))
	if !errors.Is(err, model.ErrOutOfRange) {
		t.Fatalf("extra fields: %v", err)
	}
}

func TestDecodeInfersKinds(t *testing.T) {
	in := "item_id\tname\tweight\tcount\tpacked\nA1\ttent\t2.5\t1\ttrue\nA2\tstove\t1\t2\tfalse\n"
	cols, _, err := Decode(strings.NewReader(in))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []model.Kind{model.KindRef, model.KindText, model.KindFloat, model.KindInteger, model.KindBool}
	for i, k := range want {
		if cols[i].Kind != k {
			t.Fatalf("column %s: got %v want %v", cols[i].Name, cols[i].Kind, k)
		}
	}
	if cols[0].Editable {
		t.Fatalf("inferred ref column should be read-only")
	}
}
