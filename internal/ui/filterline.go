package ui

import (
	"fmt"

	"packgrid/internal/filter"
	"packgrid/internal/util/logx"
)

// setFilter parses the filter line and applies it with the current options.
// On error the previous predicate stays in place.
func (m *Model) setFilter(text string) error {
	cs, err := filter.ParseQuery(text, m.table.Columns())
	if err != nil {
		return err
	}
	for i := range cs {
		cs[i].CaseSensitive = m.caseSensitive
		cs[i].ShowBlank = m.showBlank
		cs[i].Invert = cs[i].Invert != m.invert
	}
	prev := m.criteria
	m.criteria = cs
	if err := m.applyCriteria(); err != nil {
		m.criteria = prev
		return err
	}
	m.filterText = text
	return nil
}

func (m *Model) applyCriteria() error {
	set, err := filter.Compile(m.table.Columns(), m.criteria, m.editedOnly)
	if err != nil {
		return err
	}
	m.rows.SetPredicate(set)
	return nil
}

func (m *Model) clearFilter() {
	m.filterText = ""
	m.criteria = nil
	m.editedOnly = false
	if err := m.applyCriteria(); err != nil {
		logx.Errorf("filter: clear: %v", err)
	}
}

// toggleFilterOption flips one option and re-applies the filter line.
func (m *Model) toggleFilterOption(opt *bool, name string) {
	*opt = !*opt
	if err := m.setFilter(m.filterText); err != nil {
		*opt = !*opt
		m.lastMsg = fmt.Sprintf("filter: %v", err)
		return
	}
	m.lastMsg = fmt.Sprintf("%s: %v", name, *opt)
}

func (m *Model) filterSummary() string {
	s := m.filterText
	if m.editedOnly {
		if s != "" {
			s += " "
		}
		s += "[edited only]"
	}
	if m.caseSensitive {
		s += " [Aa]"
	}
	if m.showBlank {
		s += " [blanks]"
	}
	if m.invert {
		s += " [not]"
	}
	return s
}
