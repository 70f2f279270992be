// Package parse decodes typed TSV tables.
//
// The header row names each column as name[:kind[:flag...]] where kind is one
// of text, int, float, bool, ref (or longtext) and flags are frozen, ro and
// long. A header without kinds is typed by sampling the data rows. Values
// escape backslash, tab, newline and carriage return with a backslash.
package parse

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"packgrid/internal/model"
)

// MaxLineBytes bounds a single TSV line.
const MaxLineBytes = 4 * 1024 * 1024

// ParseHeader decodes a header line. typed is false when no field carried a
// kind, in which case every column is text until InferKinds runs.
func ParseHeader(line string) (cols []model.Column, typed bool, err error) {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return nil, false, fmt.Errorf("empty header")
	}
	seen := map[string]bool{}
	for i, f := range strings.Split(line, "\t") {
		parts := strings.Split(f, ":")
		name := Unescape(strings.TrimSpace(parts[0]))
		if name == "" {
			return nil, false, fmt.Errorf("header field %d: empty column name", i+1)
		}
		if seen[name] {
			return nil, false, fmt.Errorf("header field %d: duplicate column %q", i+1, name)
		}
		seen[name] = true
		c := model.Column{Name: name, Kind: model.KindText, Editable: true}
		if len(parts) > 1 {
			typed = true
			kindName := strings.TrimSpace(parts[1])
			k, err := model.ParseKind(kindName)
			if err != nil {
				return nil, false, fmt.Errorf("header field %d: %w", i+1, err)
			}
			c.Kind = k
			c.Multiline = strings.EqualFold(kindName, "longtext")
			for _, flag := range parts[2:] {
				switch strings.ToLower(strings.TrimSpace(flag)) {
				case "frozen":
					c.Frozen = true
				case "ro", "readonly":
					c.Editable = false
				case "long":
					c.Multiline = true
				case "":
				default:
					return nil, false, fmt.Errorf("header field %d: unknown flag %q", i+1, flag)
				}
			}
		}
		cols = append(cols, c)
	}
	return cols, typed, nil
}

// FormatHeader is the inverse of ParseHeader.
func FormatHeader(cols []model.Column) string {
	fields := make([]string, len(cols))
	for i, c := range cols {
		var b strings.Builder
		b.WriteString(Escape(c.Name))
		b.WriteByte(':')
		if c.Multiline && c.Kind == model.KindText {
			b.WriteString("longtext")
		} else {
			b.WriteString(c.Kind.String())
		}
		if c.Frozen {
			b.WriteString(":frozen")
		}
		if !c.Editable {
			b.WriteString(":ro")
		}
		fields[i] = b.String()
	}
	return strings.Join(fields, "\t")
}

var (
	escaper   = strings.NewReplacer(`\`, `\\`, "\t", `\t`, "\n", `\n`, "\r", `\r`)
	unescaper = strings.NewReplacer(`\\`, `\`, `\t`, "\t", `\n`, "\n", `\r`, "\r", `\#`, "#")
)

// Escape encodes a field. A leading # is escaped too so a row can never be
// read back as a comment.
func Escape(s string) string {
	s = escaper.Replace(s)
	if strings.HasPrefix(s, "#") {
		s = `\` + s
	}
	return s
}

func Unescape(s string) string { return unescaper.Replace(s) }

// SplitLine splits a data line into unescaped fields.
func SplitLine(line string) []string {
	fields := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
	for i, f := range fields {
		fields[i] = Unescape(f)
	}
	return fields
}

// FormatRow encodes values as one TSV line without the trailing newline.
func FormatRow(vals []model.Value) string {
	fields := make([]string, len(vals))
	for i, v := range vals {
		fields[i] = Escape(v.String())
	}
	return strings.Join(fields, "\t")
}

// Skip reports whether a line before the header carries nothing: blank
// lines and # comments.
func Skip(line string) bool {
	t := strings.TrimSpace(line)
	return t == "" || strings.HasPrefix(t, "#")
}

// Comment reports whether a line after the header is a # comment. Every
// other line there is a row, blank ones included: FormatRow writes a row of
// empty cells as tabs only, or as nothing for a single column.
func Comment(line string) bool { return strings.HasPrefix(line, "#") }

// Decoder turns data lines into typed values for a fixed column set.
type Decoder struct {
	cols []model.Column
}

func NewDecoder(cols []model.Column) *Decoder { return &Decoder{cols: cols} }

func (d *Decoder) Columns() []model.Column { return d.cols }

// ParseRow decodes one data line. Empty or missing trailing fields take the
// zero value of their kind; extra fields are an error.
func (d *Decoder) ParseRow(line string) ([]model.Value, error) {
	fields := SplitLine(line)
	if len(fields) > len(d.cols) {
		return nil, fmt.Errorf("%w: %d fields for %d columns", model.ErrOutOfRange, len(fields), len(d.cols))
	}
	vals := make([]model.Value, len(d.cols))
	for i, c := range d.cols {
		if i >= len(fields) || fields[i] == "" {
			vals[i] = model.Zero(c.Kind)
			continue
		}
		v, err := model.ParseValue(c.Kind, fields[i])
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", c.Name, err)
		}
		vals[i] = v
	}
	return vals, nil
}

// Decode reads a whole table. Rows that fail to parse abort the decode with
// the offending line number.
func Decode(r io.Reader) ([]model.Column, [][]model.Value, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineBytes)
	var (
		cols  []model.Column
		typed bool
		lines []string
		nums  []int
		n     int
	)
	for sc.Scan() {
		n++
		line := sc.Text()
		if cols == nil {
			if Skip(line) {
				continue
			}
			var err error
			if cols, typed, err = ParseHeader(line); err != nil {
				return nil, nil, fmt.Errorf("line %d: %w", n, err)
			}
			continue
		}
		if Comment(line) {
			continue
		}
		lines = append(lines, line)
		nums = append(nums, n)
	}
	if err := sc.Err(); err != nil {
		return nil, nil, err
	}
	if cols == nil {
		return nil, nil, fmt.Errorf("missing header")
	}
	if !typed {
		sample := make([][]string, 0, min(len(lines), SampleRows))
		for _, l := range lines[:min(len(lines), SampleRows)] {
			sample = append(sample, SplitLine(l))
		}
		cols = InferKinds(cols, sample)
	}
	d := NewDecoder(cols)
	rows := make([][]model.Value, 0, len(lines))
	for i, l := range lines {
		vals, err := d.ParseRow(l)
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", nums[i], err)
		}
		rows = append(rows, vals)
	}
	return cols, rows, nil
}
