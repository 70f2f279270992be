// Package export writes visible rows as TSV or CSV.
package export

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"packgrid/internal/model"
	"packgrid/internal/parse"
	"packgrid/internal/util/logx"
)

type Format string

const (
	TSV Format = "tsv"
	CSV Format = "csv"
)

// ParseFormat accepts tsv or csv in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case TSV, CSV:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Write encodes rows in the given order. cols selects and orders the
// columns; nil means every column in model order. TSV carries a typed header
// that parse.Decode reads back; CSV carries plain column names.
func Write(w io.Writer, f Format, src model.Source, rows []model.RowID, cols []int) error {
	if cols == nil {
		cols = make([]int, src.ColumnCount())
		for i := range cols {
			cols[i] = i
		}
	}
	all := src.Columns()
	picked := make([]model.Column, len(cols))
	for i, c := range cols {
		if c < 0 || c >= len(all) {
			return fmt.Errorf("%w: column %d", model.ErrOutOfRange, c)
		}
		picked[i] = all[c]
	}
	vals := make([]model.Value, len(cols))
	next := func(id model.RowID) error {
		for i, c := range cols {
			cell, err := src.CellAt(id, c)
			if err != nil {
				return err
			}
			vals[i] = cell.Value
		}
		return nil
	}

	switch f {
	case TSV:
		bw := bufio.NewWriter(w)
		if _, err := bw.WriteString(parse.FormatHeader(picked) + "\n"); err != nil {
			return err
		}
		for _, id := range rows {
			if err := next(id); err != nil {
				return err
			}
			if _, err := bw.WriteString(parse.FormatRow(vals) + "\n"); err != nil {
				return err
			}
		}
		return bw.Flush()
	case CSV:
		cw := csv.NewWriter(w)
		header := make([]string, len(picked))
		for i, c := range picked {
			header[i] = c.Name
		}
		if err := cw.Write(header); err != nil {
			return err
		}
		rec := make([]string, len(cols))
		for _, id := range rows {
			if err := next(id); err != nil {
				return err
			}
			for i, v := range vals {
				rec[i] = v.String()
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	}
	return fmt.Errorf("unknown export format %q", f)
}

// ToFile writes to path through a temp file, so a failed export leaves any
// previous file intact. An empty row set still writes the header.
func ToFile(path string, f Format, src model.Source, rows []model.RowID, cols []int) error {
	tmp := path + ".tmp"
	fh, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := Write(fh, f, src, rows, cols); err != nil {
		fh.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := fh.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		return err
	}
	logx.Infof("export: %d rows written to %s (%s)", len(rows), path, f)
	return nil
}

// Cells renders a block of cells as tab separated lines without a header,
// the clipboard form of a selection.
func Cells(src model.Source, rows []model.RowID, cols []int) string {
	var b strings.Builder
	for r, id := range rows {
		if r > 0 {
			b.WriteByte('\n')
		}
		for i, c := range cols {
			if i > 0 {
				b.WriteByte('\t')
			}
			if cell, err := src.CellAt(id, c); err == nil {
				b.WriteString(parse.Escape(cell.Value.String()))
			}
		}
	}
	return b.String()
}
