package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the value kind of a cell or column.
type Kind int

const (
	KindText Kind = iota
	KindInteger
	KindFloat
	KindBool
	KindRef // reference to a key of another table
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInteger:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindRef:
		return "ref"
	}
	return "unknown"
}

// ParseKind maps a schema kind name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "string", "str", "longtext":
		return KindText, nil
	case "int", "integer", "i32", "i64":
		return KindInteger, nil
	case "float", "f32", "f64", "number":
		return KindFloat, nil
	case "bool", "boolean":
		return KindBool, nil
	case "ref", "reference", "key":
		return KindRef, nil
	}
	return KindText, fmt.Errorf("unknown kind %q", s)
}

// Value is a tagged cell value. Only the field matching Kind is meaningful.
type Value struct {
	Kind  Kind
	Str   string
	Int   int64
	Float float64
	Bool  bool
}

func Text(s string) Value   { return Value{Kind: KindText, Str: s} }
func Int(i int64) Value     { return Value{Kind: KindInteger, Int: i} }
func Float(f float64) Value { return Value{Kind: KindFloat, Float: f} }
func Bool(b bool) Value     { return Value{Kind: KindBool, Bool: b} }
func Ref(id string) Value   { return Value{Kind: KindRef, Str: id} }
func Zero(k Kind) Value     { return Value{Kind: k} }

// String is the display form used by filters, export and rendering.
func (v Value) String() string {
	switch v.Kind {
	case KindInteger:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	default:
		return v.Str
	}
}

// Blank reports whether the value renders as an empty cell.
func (v Value) Blank() bool {
	return (v.Kind == KindText || v.Kind == KindRef) && v.Str == ""
}

// Param returns the value as a plain Go value for expression evaluation.
func (v Value) Param() any {
	switch v.Kind {
	case KindInteger:
		return float64(v.Int)
	case KindFloat:
		return v.Float
	case KindBool:
		return v.Bool
	default:
		return v.Str
	}
}

// Compare orders two values of the same kind. Booleans order false before true.
func Compare(a, b Value) int {
	switch a.Kind {
	case KindInteger:
		switch {
		case a.Int < b.Int:
			return -1
		case a.Int > b.Int:
			return 1
		}
		return 0
	case KindFloat:
		switch {
		case a.Float < b.Float:
			return -1
		case a.Float > b.Float:
			return 1
		}
		return 0
	case KindBool:
		switch {
		case a.Bool == b.Bool:
			return 0
		case !a.Bool:
			return -1
		}
		return 1
	default:
		return strings.Compare(a.Str, b.Str)
	}
}

// ParseValue converts text typed by a user (or read from a TSV file) into a
// value of kind k.
func ParseValue(k Kind, s string) (Value, error) {
	switch k {
	case KindInteger:
		i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q is not an integer", ErrTypeMismatch, s)
		}
		return Int(i), nil
	case KindFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q is not a number", ErrTypeMismatch, s)
		}
		return Float(f), nil
	case KindBool:
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "1", "yes":
			return Bool(true), nil
		case "false", "0", "no", "":
			return Bool(false), nil
		}
		return Value{}, fmt.Errorf("%w: %q is not a boolean", ErrTypeMismatch, s)
	case KindRef:
		return Ref(s), nil
	default:
		return Text(s), nil
	}
}

// Column describes one column of a table.
type Column struct {
	Name      string
	Kind      Kind
	Editable  bool
	Frozen    bool
	Multiline bool // long text, edited through the external text editor
}

// Cell is a value plus its dirty flag.
type Cell struct {
	Value Value
	Dirty bool
}

// RowID is a stable row identity, distinct from the display position.
type RowID uint64

// Row is a read-only view of a table row. Cells must not be modified.
type Row struct {
	ID    RowID
	Cells []Cell
}

// Edited reports whether any cell of the row is dirty.
func (r Row) Edited() bool {
	for _, c := range r.Cells {
		if c.Dirty {
			return true
		}
	}
	return false
}
