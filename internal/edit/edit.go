// Package edit runs cell editing sessions between a table and a text editor
// widget.
package edit

import (
	"errors"
	"fmt"

	"packgrid/internal/model"
	"packgrid/internal/util/logx"
)

// ErrReadOnly is returned when editing a column that is not editable.
var ErrReadOnly = errors.New("column is read-only")

// TextEditor is the editor widget contract: the session loads the cell text
// into it and reads it back on commit.
type TextEditor interface {
	Text() string
	SetText(string)
}

// Buffer is a TextEditor holding plain text.
type Buffer struct{ S string }

func (b *Buffer) Text() string     { return b.S }
func (b *Buffer) SetText(s string) { b.S = s }

// Session edits one cell.
type Session struct {
	table  *model.Table
	id     model.RowID
	col    int
	column model.Column
	orig   model.Value
	editor TextEditor
}

// Begin loads the cell at (id, col) into ed.
func Begin(t *model.Table, id model.RowID, col int, ed TextEditor) (*Session, error) {
	c, err := t.Column(col)
	if err != nil {
		return nil, err
	}
	if !c.Editable {
		return nil, fmt.Errorf("%w: %s", ErrReadOnly, c.Name)
	}
	cell, err := t.CellAt(id, col)
	if err != nil {
		return nil, err
	}
	ed.SetText(cell.Value.String())
	return &Session{table: t, id: id, col: col, column: c, orig: cell.Value, editor: ed}, nil
}

func (s *Session) Row() model.RowID      { return s.id }
func (s *Session) Column() model.Column  { return s.column }
func (s *Session) ColumnIndex() int      { return s.col }
func (s *Session) Original() model.Value { return s.orig }

// Commit parses the editor text by column kind and writes it to the table.
// An unchanged value is not written, so the cell does not turn dirty.
func (s *Session) Commit() error {
	v, err := model.ParseValue(s.column.Kind, s.editor.Text())
	if err != nil {
		logx.Warnf("edit: %s row %d: %v", s.column.Name, s.id, err)
		return err
	}
	if model.Compare(v, s.orig) == 0 {
		return nil
	}
	if err := s.table.SetCell(s.id, s.col, v); err != nil {
		logx.Warnf("edit: %s row %d: %v", s.column.Name, s.id, err)
		return err
	}
	return nil
}

// Cancel restores the original text in the editor. The table is untouched.
func (s *Session) Cancel() {
	s.editor.SetText(s.orig.String())
}

// Toggle flips a boolean cell in place.
func Toggle(t *model.Table, id model.RowID, col int) error {
	c, err := t.Column(col)
	if err != nil {
		return err
	}
	if !c.Editable {
		return fmt.Errorf("%w: %s", ErrReadOnly, c.Name)
	}
	if c.Kind != model.KindBool {
		return fmt.Errorf("%w: %s is not a bool column", model.ErrTypeMismatch, c.Name)
	}
	cell, err := t.CellAt(id, col)
	if err != nil {
		return err
	}
	return t.SetCell(id, col, model.Bool(!cell.Value.Bool))
}
