package ui

import (
	"slices"

	"packgrid/internal/frozen"
	"packgrid/internal/state"
	"packgrid/internal/util/logx"
)

// restoreView applies a saved view: frozen set, per-pane order, widths,
// filters and sort.
func (m *Model) restoreView(v state.View) {
	cols := m.table.Columns()
	frozenSet := state.Resolve(cols, v.Frozen)
	for i, c := range cols {
		want := slices.Contains(frozenSet, i)
		if c.Frozen != want {
			_ = m.table.SetColumnFrozen(i, want)
		}
	}
	if len(v.Order) > 0 {
		order := state.Resolve(cols, v.Order)
		reorderPane(m.split, m.split.Frozen(), 0, order)
		reorderPane(m.split, m.split.Scrollable(), len(m.split.Frozen().Columns()), order)
	}
	for name, w := range v.Widths {
		if i, ok := m.table.ColumnIndex(name); ok {
			_ = m.split.SetColumnWidth(i, w)
		}
	}
	m.filterText = v.Query
	m.criteria = v.Criteria(cols)
	m.editedOnly = v.EditedOnly
	m.caseSensitive = v.Options.CaseSensitive
	m.showBlank = v.Options.ShowBlank
	m.invert = v.Options.Invert
	if err := m.applyCriteria(); err != nil {
		logx.Warnf("ui: saved filter dropped: %v", err)
		m.criteria = nil
	}
	if v.Sort != nil {
		if i, ok := m.table.ColumnIndex(v.Sort.Column); ok {
			_ = m.rows.SortBy(i, v.Sort.Desc)
		}
	}
	logx.Infof("ui: restored view for %s", m.cfg.FilePath)
}

// reorderPane moves the pane's columns into the order they have in want.
// Columns missing from want keep their place after the known ones.
func reorderPane(s *frozen.Split, p *frozen.Pane, offset int, want []int) {
	target := make([]int, 0, len(p.Columns()))
	for _, c := range want {
		if slices.Contains(p.Columns(), c) {
			target = append(target, c)
		}
	}
	for i, c := range target {
		from := slices.Index(p.Columns(), c)
		if from != i {
			_ = s.MoveColumn(offset+from, offset+i)
		}
	}
}

func (m *Model) captureView() state.View {
	cols := m.table.Columns()
	v := state.View{
		Query:      m.filterText,
		EditedOnly: m.editedOnly,
		Widths:     map[string]int{},
		Options: state.Options{
			CaseSensitive: m.caseSensitive,
			ShowBlank:     m.showBlank,
			Invert:        m.invert,
		},
	}
	for _, c := range cols {
		if c.Frozen {
			v.Frozen = append(v.Frozen, c.Name)
		}
	}
	for _, i := range append(m.split.Frozen().Columns(), m.split.Scrollable().Columns()...) {
		v.Order = append(v.Order, cols[i].Name)
		v.Widths[cols[i].Name] = m.split.ColumnWidth(i)
	}
	v.SetCriteria(cols, m.criteria)
	if col, desc, ok := m.rows.Sort(); ok {
		v.Sort = &state.Sort{Column: cols[col].Name, Desc: desc}
	}
	return v
}

func (m *Model) saveView() {
	if m.cfg.NoCache || !m.fromFile() {
		return
	}
	if err := m.store.Save(m.cfg.FilePath, m.captureView()); err != nil {
		logx.Warnf("state: failed to save view: %v", err)
	}
}
