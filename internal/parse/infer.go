package parse

import (
	"strconv"
	"strings"

	"packgrid/internal/model"
)

// SampleRows is how many data rows InferKinds looks at.
const SampleRows = 200

// InferKinds types untyped columns from sample rows. A column takes the
// narrowest kind every non-blank sample parses as: bool, int, float, then
// text. Columns named id or *_id become read-only refs.
func InferKinds(cols []model.Column, sample [][]string) []model.Column {
	out := make([]model.Column, len(cols))
	for i, c := range cols {
		c.Kind = guess(i, sample)
		name := strings.ToLower(c.Name)
		if c.Kind == model.KindText && (name == "id" || strings.HasSuffix(name, "_id")) {
			c.Kind = model.KindRef
			c.Editable = false
		}
		if c.Kind == model.KindText && long(i, sample) {
			c.Multiline = true
		}
		out[i] = c
	}
	return out
}

func guess(col int, sample [][]string) model.Kind {
	var seen, bools, ints, floats int
	for _, row := range sample {
		if col >= len(row) {
			continue
		}
		s := strings.TrimSpace(row[col])
		if s == "" {
			continue
		}
		seen++
		switch strings.ToLower(s) {
		case "true", "false", "yes", "no":
			bools++
			continue
		}
		if _, err := strconv.ParseInt(s, 10, 64); err == nil {
			ints++
			continue
		}
		if _, err := strconv.ParseFloat(s, 64); err == nil {
			floats++
		}
	}
	switch {
	case seen == 0:
		return model.KindText
	case bools == seen:
		return model.KindBool
	case ints == seen:
		return model.KindInteger
	case ints+floats == seen:
		return model.KindFloat
	}
	return model.KindText
}

// long reports whether any sampled cell spans lines or runs past 80 bytes.
func long(col int, sample [][]string) bool {
	for _, row := range sample {
		if col < len(row) && (len(row[col]) > 80 || strings.Contains(row[col], "\n")) {
			return true
		}
	}
	return false
}
