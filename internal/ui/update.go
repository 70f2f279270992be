package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"packgrid/internal/frozen"
	"packgrid/internal/model"
)

func (m *Model) buildHelpItems() []helpItem {
	km := m.keymap
	return []helpItem{
		{group: "Navigation", text: "Previous row", key: tea.Key{Type: tea.KeyUp}},
		{group: "Navigation", text: "Next row", key: tea.Key{Type: tea.KeyDown}},
		{group: "Navigation", text: "Previous column", key: tea.Key{Type: tea.KeyLeft}},
		{group: "Navigation", text: "Next column", key: tea.Key{Type: tea.KeyRight}},
		{group: "Navigation", text: "Extend selection", key: tea.Key{Type: tea.KeyShiftDown}},
		{group: "Navigation", text: "Page up", key: tea.Key{Type: tea.KeyPgUp}},
		{group: "Navigation", text: "Page down", key: tea.Key{Type: tea.KeyPgDown}},
		{group: "Navigation", text: "Go to top", key: km.Top},
		{group: "Navigation", text: "Go to bottom", key: km.Bottom},
		{group: "Navigation", text: "Scroll columns left", key: km.ScrollLeft},
		{group: "Navigation", text: "Scroll columns right", key: km.ScrollRight},

		{group: "Columns", text: "Freeze / unfreeze column", key: km.Freeze},
		{group: "Columns", text: "Cycle sort", key: km.Sort},
		{group: "Columns", text: "Increase column width", key: km.IncColWidth},
		{group: "Columns", text: "Decrease column width", key: km.DecColWidth},
		{group: "Columns", text: "Move column left", key: km.MoveColLeft},
		{group: "Columns", text: "Move column right", key: km.MoveColRight},

		{group: "Filter", text: "Filter rows", key: km.Filter},
		{group: "Filter", text: "Filter current column", key: km.FilterColumn},
		{group: "Filter", text: "Clear filter", key: km.ClearFilter},
		{group: "Filter", text: "Edited rows only", key: km.EditedOnly},

		{group: "Cells", text: "Edit cell", key: km.Edit},
		{group: "Cells", text: "Toggle checkbox", key: km.Toggle},
		{group: "Cells", text: "Copy selection", key: km.Copy},

		{group: "Control", text: "Command palette", key: km.Palette},
		{group: "Control", text: "Export visible rows", key: km.Export},
		{group: "Control", text: "Save table", key: km.Save},
		{group: "Control", text: "Application logs", key: km.AppLogs},
		{group: "Control", text: "Help", key: km.Help},
		{group: "Control", text: "Quit", key: km.Quit},
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth, m.termHeight = msg.Width, msg.Height
		m.split.Handle(frozen.RangeVisible{Width: msg.Width, Height: m.pageRows()})
		if m.modalActive {
			m.resizeModal()
		}
		return m, nil
	case tea.MouseMsg:
		if !m.modalActive {
			m.handleMouse(msg)
		}
		return m, nil
	case paletteResultMsg:
		if m.pal.Apply(msg.res) {
			m.palSel = max(min(m.palSel, m.pal.Len()-1), 0)
		}
		return m, nil
	case tickMsg:
		m.drainLines(500)
		m.drainErrors()
		return m, tea.Tick(200*time.Millisecond, func(time.Time) tea.Msg { return tickMsg{} })
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.modalActive {
			return m, m.updateModal(msg)
		}
		if m.inlineMode != inlineNone {
			return m, m.updateInline(msg)
		}
		return m, m.handleKey(msg)
	}

	// cursor blink and other widget messages
	var cmds [4]tea.Cmd
	m.input, cmds[0] = m.input.Update(msg)
	m.cellInput, cmds[1] = m.cellInput.Update(msg)
	m.palInput, cmds[2] = m.palInput.Update(msg)
	m.area, cmds[3] = m.area.Update(msg)
	return m, tea.Batch(cmds[:]...)
}

func (m *Model) updateModal(msg tea.KeyMsg) tea.Cmd {
	switch m.modalKind {
	case modalPalette:
		return m.updatePalette(msg)
	case modalEditor:
		switch msg.Type {
		case tea.KeyEsc:
			m.cancelEdit()
			m.modalActive = false
			return nil
		case tea.KeyCtrlS:
			if m.commitEdit() {
				m.area.Blur()
				m.modalActive = false
			}
			return nil
		}
		var cmd tea.Cmd
		m.area, cmd = m.area.Update(msg)
		return cmd
	case modalHelp:
		switch {
		case msg.Type == tea.KeyUp:
			if m.helpSel > 0 {
				m.helpSel--
			}
		case msg.Type == tea.KeyDown:
			if m.helpSel+1 < len(m.helpItems) {
				m.helpSel++
			}
		case msg.Type == tea.KeyEnter:
			if len(m.helpItems) > 0 {
				it := m.helpItems[m.helpSel]
				m.modalActive = false
				return keyCmd(it.key)
			}
		case msg.Type == tea.KeyEsc || msg.String() == "q" || msg.String() == "?":
			m.modalActive = false
		}
		return nil
	}
	if msg.Type == tea.KeyEsc || msg.Type == tea.KeyEnter {
		m.modalActive = false
		return nil
	}
	if msg.String() == "c" && m.modalKind == modalLogs {
		copyToClipboard(m.modalBody)
		m.lastMsg = "copied to clipboard"
		return nil
	}
	var cmd tea.Cmd
	m.modalVP, cmd = m.modalVP.Update(msg)
	return cmd
}

// updatePalette routes keys to the palette. Query changes are ranked in a
// command; results for a superseded query are dropped by Apply.
func (m *Model) updatePalette(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.closePaletteModal()
		return nil
	case tea.KeyUp, tea.KeyCtrlK:
		if m.palSel > 0 {
			m.palSel--
		}
		return nil
	case tea.KeyDown, tea.KeyCtrlJ:
		if m.palSel+1 < m.pal.Len() {
			m.palSel++
		}
		return nil
	case tea.KeyEnter:
		m.pal.Flush()
		if m.pal.Len() == 0 {
			return nil
		}
		m.modalActive = false
		m.palInput.Blur()
		if _, err := m.pal.Select(m.palSel); err != nil {
			m.lastMsg = err.Error()
			m.pal.Close()
			return nil
		}
		cmd := m.pending
		m.pending = nil
		return cmd
	}
	before := m.palInput.Value()
	var cmd tea.Cmd
	m.palInput, cmd = m.palInput.Update(msg)
	q := m.palInput.Value()
	if q == before {
		return cmd
	}
	job, err := m.pal.Begin(q)
	if err != nil {
		return cmd
	}
	m.palSel = 0
	return tea.Batch(cmd, func() tea.Msg { return paletteResultMsg{res: job.Run()} })
}

func (m *Model) updateInline(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	switch m.inlineMode {
	case inlineFilter:
		switch msg.Type {
		case tea.KeyEnter:
			if err := m.setFilter(m.input.Value()); err != nil {
				m.lastMsg = fmt.Sprintf("filter: %v", err)
				return nil
			}
			m.input.Blur()
			m.inlineMode = inlineNone
			return nil
		case tea.KeyEsc:
			if err := m.setFilter(m.prevFilter); err != nil {
				m.clearFilter()
			}
			m.input.Blur()
			m.inlineMode = inlineNone
			return nil
		}
		m.input, cmd = m.input.Update(msg)
		// filter while typing; an incomplete regex keeps the last good filter
		if err := m.setFilter(m.input.Value()); err != nil {
			m.lastMsg = fmt.Sprintf("filter: %v", err)
		} else {
			m.lastMsg = ""
		}
		return cmd
	case inlineEdit:
		switch msg.Type {
		case tea.KeyEnter:
			if m.commitEdit() {
				m.cellInput.Blur()
				m.inlineMode = inlineNone
			}
			return nil
		case tea.KeyEsc:
			m.cancelEdit()
			m.cellInput.Blur()
			m.inlineMode = inlineNone
			return nil
		}
		m.cellInput, cmd = m.cellInput.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	km := m.keymap
	page := m.split.PageHeight()
	switch {
	case msg.Type == tea.KeyUp:
		m.split.MoveCursor(-1, 0, false)
	case msg.Type == tea.KeyDown:
		m.split.MoveCursor(1, 0, false)
	case msg.Type == tea.KeyLeft:
		m.split.MoveCursor(0, -1, false)
	case msg.Type == tea.KeyRight:
		m.split.MoveCursor(0, 1, false)
	case msg.Type == tea.KeyShiftUp:
		m.split.MoveCursor(-1, 0, true)
	case msg.Type == tea.KeyShiftDown:
		m.split.MoveCursor(1, 0, true)
	case msg.Type == tea.KeyShiftLeft:
		m.split.MoveCursor(0, -1, true)
	case msg.Type == tea.KeyShiftRight:
		m.split.MoveCursor(0, 1, true)
	case msg.Type == tea.KeyPgUp:
		m.split.MoveCursor(-page, 0, false)
	case msg.Type == tea.KeyPgDown:
		m.split.MoveCursor(page, 0, false)
	case keyMatches(msg, km.Palette), keyMatches(msg, km.PaletteAlt):
		m.openPaletteModal()
	case keyMatches(msg, km.Filter):
		return m.runAction(actFilter)
	case keyMatches(msg, km.FilterColumn):
		return m.runAction(actFilterColumn)
	case keyMatches(msg, km.ClearFilter):
		return m.runAction(actClearFilter)
	case keyMatches(msg, km.EditedOnly):
		return m.runAction(actEditedOnly)
	case keyMatches(msg, km.Edit):
		return m.runAction(actEdit)
	case keyMatches(msg, km.Toggle):
		if col, ok := m.cursorColumn(); ok {
			if c, _ := m.table.Column(col); c.Kind == model.KindBool {
				return m.runAction(actEdit)
			}
		}
	case keyMatches(msg, km.Freeze):
		return m.runAction(actFreeze)
	case keyMatches(msg, km.Sort):
		m.cycleSort()
	case keyMatches(msg, km.IncColWidth):
		return m.runAction(actWider)
	case keyMatches(msg, km.DecColWidth):
		return m.runAction(actNarrower)
	case keyMatches(msg, km.MoveColLeft):
		return m.runAction(actMoveLeft)
	case keyMatches(msg, km.MoveColRight):
		return m.runAction(actMoveRight)
	case keyMatches(msg, km.ScrollLeft):
		m.split.Handle(frozen.ScrollDelta{Columns: -1})
	case keyMatches(msg, km.ScrollRight):
		m.split.Handle(frozen.ScrollDelta{Columns: 1})
	case keyMatches(msg, km.Copy):
		return m.runAction(actCopy)
	case keyMatches(msg, km.Export):
		return m.runAction(actExport)
	case keyMatches(msg, km.Save):
		return m.runAction(actSave)
	case keyMatches(msg, km.Top):
		return m.runAction(actTop)
	case keyMatches(msg, km.Bottom):
		return m.runAction(actBottom)
	case keyMatches(msg, km.AppLogs):
		return m.runAction(actLogs)
	case keyMatches(msg, km.Help):
		return m.runAction(actHelp)
	case keyMatches(msg, km.Quit):
		return m.runAction(actQuit)
	}
	return nil
}

// handleMouse turns wheel and click gestures into split events. Wheel
// scrolling over either pane moves both.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	fromFrozen := msg.X < m.split.FrozenWidth()
	switch msg.Type {
	case tea.MouseWheelUp, tea.MouseWheelDown:
		d := 3
		if msg.Type == tea.MouseWheelUp {
			d = -3
		}
		if msg.Alt {
			m.split.Handle(frozen.ScrollDelta{FromFrozen: fromFrozen, Columns: d / 3})
			return
		}
		m.split.Handle(frozen.ScrollDelta{FromFrozen: fromFrozen, Rows: d})
		// keep the cursor on screen
		r, c := m.split.Cursor()
		first := m.split.FirstVisibleRow()
		if r < first || r >= first+m.split.PageHeight() {
			m.split.SetCursor(min(max(r, first), first+m.split.PageHeight()-1), c)
		}
	case tea.MouseLeft:
		if row, col, ok := m.cellAt(msg.X, msg.Y); ok {
			m.split.Handle(frozen.SelectionCommitted{Row: row, Col: col, Extend: msg.Ctrl})
		}
	}
}

// cellAt maps screen coordinates to a display cell.
func (m *Model) cellAt(x, y int) (row, col int, ok bool) {
	if y < 1 || y > len(m.split.Frozen().Window()) {
		return 0, 0, false
	}
	row = m.split.FirstVisibleRow() + y - 1
	left := 0
	for i, c := range m.split.Frozen().Columns() {
		left += m.split.ColumnWidth(c) + 1
		if x < left {
			return row, i, true
		}
	}
	base := len(m.split.Frozen().Columns()) + m.split.Scrollable().FirstColumn()
	for j, c := range m.visibleScrollColumns() {
		left += m.split.ColumnWidth(c) + 1
		if x < left {
			return row, base + j, true
		}
	}
	return 0, 0, false
}
