package state

import (
	"packgrid/internal/filter"
	"packgrid/internal/model"
	"packgrid/internal/util/logx"
)

// Criteria resolves saved filters against cols. Unknown column names are
// dropped; a filter left with no known column of several is skipped.
func (v View) Criteria(cols []model.Column) []filter.Criteria {
	idx := indexByName(cols)
	out := make([]filter.Criteria, 0, len(v.Filters))
	for _, f := range v.Filters {
		c := filter.Criteria{
			Query:         f.Query,
			Expr:          f.Expr,
			Group:         f.Group,
			UseRegex:      f.Regex,
			CaseSensitive: f.CaseSensitive,
			Invert:        f.Invert,
			ShowBlank:     f.ShowBlank,
		}
		for _, name := range f.Columns {
			if i, ok := idx[name]; ok {
				c.Columns = append(c.Columns, i)
			} else {
				logx.Debugf("state: filter column %q no longer exists", name)
			}
		}
		if len(f.Columns) > 0 && len(c.Columns) == 0 {
			continue
		}
		out = append(out, c)
	}
	return out
}

// SetCriteria stores criteria with column names instead of indexes.
func (v *View) SetCriteria(cols []model.Column, cs []filter.Criteria) {
	v.Filters = v.Filters[:0]
	for _, c := range cs {
		f := Filter{
			Query:         c.Query,
			Expr:          c.Expr,
			Group:         c.Group,
			Regex:         c.UseRegex,
			CaseSensitive: c.CaseSensitive,
			Invert:        c.Invert,
			ShowBlank:     c.ShowBlank,
		}
		for _, i := range c.Columns {
			if i >= 0 && i < len(cols) {
				f.Columns = append(f.Columns, cols[i].Name)
			}
		}
		v.Filters = append(v.Filters, f)
	}
}

// Resolve maps saved column names to indexes, skipping unknown names.
func Resolve(cols []model.Column, names []string) []int {
	idx := indexByName(cols)
	out := make([]int, 0, len(names))
	for _, n := range names {
		if i, ok := idx[n]; ok {
			out = append(out, i)
		}
	}
	return out
}

func indexByName(cols []model.Column) map[string]int {
	m := make(map[string]int, len(cols))
	for i, c := range cols {
		m[c.Name] = i
	}
	return m
}
