package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"packgrid/internal/edit"
	"packgrid/internal/export"
	"packgrid/internal/model"
	"packgrid/internal/palette"
	"packgrid/internal/util/logx"
)

const (
	actFilter       = "filter"
	actFilterColumn = "filter.column"
	actClearFilter  = "filter.clear"
	actEditedOnly   = "filter.edited"
	actCaseSens     = "filter.case"
	actShowBlank    = "filter.blank"
	actInvert       = "filter.invert"
	actFreeze       = "column.freeze"
	actWider        = "column.wider"
	actNarrower     = "column.narrower"
	actMoveLeft     = "column.left"
	actMoveRight    = "column.right"
	actSortAsc      = "sort.asc"
	actSortDesc     = "sort.desc"
	actSortClear    = "sort.clear"
	actEdit         = "cell.edit"
	actCopy         = "copy"
	actExport       = "export"
	actSave         = "save"
	actSaveView     = "view.save"
	actTop          = "top"
	actBottom       = "bottom"
	actLogs         = "logs"
	actHelp         = "help"
	actQuit         = "quit"
)

func registerActions(c *palette.Catalog) {
	for _, a := range []struct {
		label, id string
		keywords  []string
	}{
		{"&Filter Rows", actFilter, []string{"search", "find", "query"}},
		{"Filter Current Column", actFilterColumn, []string{"search"}},
		{"&Clear Filter", actClearFilter, []string{"reset"}},
		{"Show &Edited Rows Only", actEditedOnly, []string{"dirty", "changed", "modified"}},
		{"Toggle Case-Sensitive Filter", actCaseSens, []string{"match case"}},
		{"Toggle Show Blank Cells", actShowBlank, []string{"empty"}},
		{"&Invert Filter", actInvert, []string{"not", "negate"}},
		{"Freeze / Unfreeze Column", actFreeze, []string{"pin", "lock", "split"}},
		{"Widen Column", actWider, []string{"width", "resize"}},
		{"Narrow Column", actNarrower, []string{"width", "resize"}},
		{"Move Column Left", actMoveLeft, []string{"reorder"}},
		{"Move Column Right", actMoveRight, []string{"reorder"}},
		{"&Sort Ascending", actSortAsc, []string{"order"}},
		{"Sort Descending", actSortDesc, []string{"order"}},
		{"Clear Sort", actSortClear, []string{"order", "unsort"}},
		{"Edit Cell", actEdit, []string{"change", "modify"}},
		{"&Copy Selection", actCopy, []string{"clipboard", "yank"}},
		{"E&xport Visible Rows", actExport, []string{"tsv", "csv", "write"}},
		{"Save &Table", actSave, []string{"write", "file"}},
		{"Save View Layout", actSaveView, []string{"state", "remember"}},
		{"Go to Top", actTop, []string{"first", "home"}},
		{"Go to Bottom", actBottom, []string{"last", "end"}},
		{"Application &Log", actLogs, []string{"debug", "messages"}},
		{"&Help", actHelp, []string{"keys", "shortcuts"}},
		{"&Quit", actQuit, []string{"exit", "close"}},
	} {
		if err := c.Register(a.label, a.id, a.keywords...); err != nil {
			logx.Errorf("palette: %v", err)
		}
	}
}

// syncActions enables only the actions that can run right now.
func (m *Model) syncActions() {
	_, _, sorted := m.rows.Sort()
	_ = m.catalog.SetEnabled(actSortClear, sorted)
	_ = m.catalog.SetEnabled(actSave, m.canSave())
	_ = m.catalog.SetEnabled(actSaveView, m.fromFile() && !m.cfg.NoCache)
	_ = m.catalog.SetEnabled(actClearFilter, m.filterText != "" || m.editedOnly)
}

// fromFile reports whether the table was loaded from -file.
func (m *Model) fromFile() bool {
	return m.cfg.FilePath != "" && m.feed.Name() == m.cfg.FilePath
}

// canSave is false while following: the rewrite would be read back as new rows.
func (m *Model) canSave() bool { return m.fromFile() && !m.follow }

// cursorColumn is the model column under the cursor.
func (m *Model) cursorColumn() (int, bool) {
	_, dc := m.split.Cursor()
	col, _, ok := m.split.DisplayColumn(dc)
	return col, ok
}

// runAction executes one catalog action. Keys and the palette both land here.
func (m *Model) runAction(id string) tea.Cmd {
	col, hasCol := m.cursorColumn()
	switch id {
	case actFilter:
		m.startFilter("")
	case actFilterColumn:
		if hasCol {
			c, _ := m.table.Column(col)
			m.startFilter(c.Name + ":")
		}
	case actClearFilter:
		m.clearFilter()
		m.lastMsg = "filter cleared"
	case actEditedOnly:
		m.toggleFilterOption(&m.editedOnly, "edited only")
	case actCaseSens:
		m.toggleFilterOption(&m.caseSensitive, "case-sensitive")
	case actShowBlank:
		m.toggleFilterOption(&m.showBlank, "show blanks")
	case actInvert:
		m.toggleFilterOption(&m.invert, "invert")
	case actFreeze:
		if hasCol {
			if err := m.split.ToggleFrozen(col); err != nil {
				m.lastMsg = err.Error()
			}
		}
	case actWider, actNarrower:
		if hasCol {
			d := 2
			if id == actNarrower {
				d = -2
			}
			_ = m.split.SetColumnWidth(col, m.split.ColumnWidth(col)+d)
		}
	case actMoveLeft, actMoveRight:
		_, dc := m.split.Cursor()
		to := dc - 1
		if id == actMoveRight {
			to = dc + 1
		}
		if err := m.split.MoveColumn(dc, to); err != nil {
			m.lastMsg = fmt.Sprintf("move column: %v", err)
		} else {
			r, _ := m.split.Cursor()
			m.split.SetCursor(r, to)
		}
	case actSortAsc, actSortDesc:
		if hasCol {
			_ = m.rows.SortBy(col, id == actSortDesc)
		}
	case actSortClear:
		m.rows.ClearSort()
	case actEdit:
		return m.beginEdit()
	case actCopy:
		m.copySelection()
	case actExport:
		m.exportVisible()
	case actSave:
		m.saveTable()
	case actSaveView:
		m.saveView()
		m.lastMsg = "view saved"
	case actTop:
		_, c := m.split.Cursor()
		m.split.SetCursor(0, c)
	case actBottom:
		_, c := m.split.Cursor()
		m.split.SetCursor(m.split.RowCount()-1, c)
	case actLogs:
		m.openAppLogsModal()
	case actHelp:
		m.openHelpModal()
	case actQuit:
		return tea.Quit
	default:
		logx.Warnf("ui: unknown action %q", id)
	}
	return nil
}

// cycleSort goes none -> ascending -> descending -> none on the cursor column.
func (m *Model) cycleSort() {
	col, ok := m.cursorColumn()
	if !ok {
		return
	}
	cur, desc, sorted := m.rows.Sort()
	switch {
	case !sorted || cur != col:
		_ = m.rows.SortBy(col, false)
	case !desc:
		_ = m.rows.SortBy(col, true)
	default:
		m.rows.ClearSort()
	}
}

func (m *Model) startFilter(prefill string) {
	m.prevFilter = m.filterText
	v := m.filterText
	if prefill != "" {
		v = strings.TrimSpace(v + " " + prefill)
	}
	m.input.SetValue(v)
	m.input.CursorEnd()
	m.input.Focus()
	m.inlineMode = inlineFilter
}

// beginEdit starts editing the cursor cell: booleans toggle in place, long
// text opens the text area, everything else edits inline.
func (m *Model) beginEdit() tea.Cmd {
	r, _ := m.split.Cursor()
	id, ok := m.split.RowAt(r)
	col, hasCol := m.cursorColumn()
	if !ok || !hasCol {
		return nil
	}
	c, _ := m.table.Column(col)
	if c.Editable && c.Kind == model.KindBool {
		if err := edit.Toggle(m.table, id, col); err != nil {
			m.lastMsg = err.Error()
		}
		return nil
	}
	if c.Multiline {
		s, err := edit.Begin(m.table, id, col, areaEditor{&m.area})
		if err != nil {
			m.lastMsg = err.Error()
			return nil
		}
		m.session = s
		m.openEditorModal(c.Name)
		return m.area.Focus()
	}
	s, err := edit.Begin(m.table, id, col, inputEditor{&m.cellInput})
	if err != nil {
		m.lastMsg = err.Error()
		return nil
	}
	m.session = s
	m.inlineMode = inlineEdit
	return m.cellInput.Focus()
}

// commitEdit writes the session back. The session stays open on a parse
// error so the text can be fixed.
func (m *Model) commitEdit() bool {
	if m.session == nil {
		return true
	}
	if err := m.session.Commit(); err != nil {
		m.lastMsg = err.Error()
		return false
	}
	m.lastMsg = fmt.Sprintf("%s updated", m.session.Column().Name)
	m.session = nil
	return true
}

func (m *Model) cancelEdit() {
	if m.session != nil {
		m.session.Cancel()
		m.session = nil
	}
}

func (m *Model) copySelection() {
	cells := m.split.SelectedCells()
	if len(cells) == 0 {
		return
	}
	ids := make([]model.RowID, len(cells))
	cols := make([]int, len(cells[0]))
	for i, line := range cells {
		ids[i] = line[0].Row
	}
	for i, ref := range cells[0] {
		cols[i] = ref.Column
	}
	copyToClipboard(export.Cells(m.table, ids, cols))
	m.lastMsg = fmt.Sprintf("copied %dx%d cells to clipboard", len(ids), len(cols))
}

// displayColumns lists every model column in on-screen order.
func (m *Model) displayColumns() []int {
	return append(m.split.Frozen().Columns(), m.split.Scrollable().Columns()...)
}

func (m *Model) exportVisible() {
	if m.cfg.ExportFormat == "" || m.cfg.ExportOut == "" {
		m.lastMsg = "use -export and -out to export"
		logx.Warnf("export: missing -export/-out flags")
		return
	}
	f, err := export.ParseFormat(m.cfg.ExportFormat)
	if err == nil {
		err = export.ToFile(m.cfg.ExportOut, f, m.table, m.rows.VisibleRows(), m.displayColumns())
	}
	if err != nil {
		m.lastMsg = fmt.Sprintf("export failed: %v", err)
		logx.Errorf("export: %v", err)
		return
	}
	m.lastMsg = fmt.Sprintf("exported %d rows to %s (%s)", m.rows.Len(), m.cfg.ExportOut, f)
}

// saveTable writes every row back to the source file and clears the dirty
// flags.
func (m *Model) saveTable() {
	if !m.canSave() {
		m.lastMsg = "save needs a -file source without -follow"
		return
	}
	if err := export.ToFile(m.cfg.FilePath, export.TSV, m.table, m.table.RowIDs(), nil); err != nil {
		m.lastMsg = fmt.Sprintf("save failed: %v", err)
		logx.Errorf("save: %v", err)
		return
	}
	m.table.MarkClean()
	m.lastMsg = fmt.Sprintf("saved %s", m.cfg.FilePath)
}
