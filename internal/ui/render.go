package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"packgrid/internal/util/logx"
	"packgrid/internal/version"
)

func (m *Model) View() string {
	v := m.renderGrid()
	if m.modalActive {
		// Dim the background content while keeping it visible
		dimmed := lipgloss.NewStyle().Faint(true).Render(v)
		v = overlay(dimmed, m.renderModal())
	}
	return v
}

// pageRows is how many data rows fit under the pane headers.
func (m *Model) pageRows() int {
	// reserve 1 for the header, 1 for the inline line, 1 for status
	return max(m.termHeight-3, 1)
}

// visibleScrollColumns lists the scrollable pane columns that fit beside the
// frozen pane, at least one.
func (m *Model) visibleScrollColumns() []int {
	avail := m.termWidth - m.split.FrozenWidth()
	var out []int
	used := 0
	for _, c := range m.split.Scrollable().VisibleColumns() {
		w := m.split.ColumnWidth(c) + 1
		if used+w > avail && len(out) > 0 {
			break
		}
		out = append(out, c)
		used += w
	}
	return out
}

func (m *Model) renderGrid() string {
	sp := m.split.Scrollable()
	nf := len(m.split.Frozen().Columns())
	panes := make([]string, 0, 2)
	if nf > 0 {
		panes = append(panes, m.renderPane(&m.frozenTbl, m.split.Frozen().Columns(), 0))
	}
	panes = append(panes, m.renderPane(&m.scrollTbl, m.visibleScrollColumns(), nf+sp.FirstColumn()))
	grid := lipgloss.JoinHorizontal(lipgloss.Top, panes...)
	return lipgloss.JoinVertical(lipgloss.Left, grid, m.renderInline(), m.renderStatus())
}

// renderPane fills one bubbles table with the shared row window. displayStart
// is the display index of the first column in cols.
func (m *Model) renderPane(tbl *table.Model, cols []int, displayStart int) string {
	ids := m.split.Frozen().Window()
	first := m.split.FirstVisibleRow()
	curRow, curCol := m.split.Cursor()
	sel, hasSel := m.split.SelectionRange()
	multi := hasSel && (sel.StartRow != sel.EndRow || sel.StartCol != sel.EndCol)
	all := m.table.Columns()
	sortCol, desc, sorted := m.rows.Sort()

	tcols := make([]table.Column, len(cols))
	for i, c := range cols {
		w := m.split.ColumnWidth(c)
		title := all[c].Name
		if sorted && sortCol == c {
			if desc {
				title += "▼"
			} else {
				title += "▲"
			}
		}
		if displayStart+i == curCol {
			// Guillemets mark the cursor column
			title = "«" + title + "»"
		}
		tcols[i] = table.Column{Title: truncate(title, w), Width: w}
	}
	trows := make([]table.Row, len(ids))
	for r, id := range ids {
		row := make(table.Row, len(cols))
		for i, c := range cols {
			cell, err := m.table.CellAt(id, c)
			if err != nil {
				continue
			}
			mark := ""
			if multi && sel.Contains(first+r, displayStart+i) {
				mark = "▌"
			}
			if cell.Dirty {
				mark += "•"
			}
			row[i] = mark + cellText(cell.Value, m.split.ColumnWidth(c)-runewidth.StringWidth(mark))
		}
		trows[r] = row
	}
	// Rows first: SetColumns re-renders with the current rows
	tbl.SetRows(nil)
	tbl.SetColumns(tcols)
	tbl.SetRows(trows)
	tbl.SetHeight(m.pageRows() + 1)
	tbl.SetCursor(curRow - first)
	return tbl.View()
}

func (m *Model) renderInline() string {
	var line string
	switch m.inlineMode {
	case inlineFilter:
		line = fmt.Sprintf("Filter: %s    [enter]=apply [esc]=cancel", m.input.View())
	case inlineEdit:
		name := ""
		if m.session != nil {
			name = m.session.Column().Name
		}
		line = fmt.Sprintf("Edit %s %s    [enter]=commit [esc]=cancel", name, m.cellInput.View())
	default:
		if s := m.filterSummary(); s != "" {
			line = fmt.Sprintf("Filter: %s    [F]=clear filter", s)
		}
	}
	if line == "" && m.termWidth > 0 {
		// keep the layout stable
		line = strings.Repeat(" ", m.termWidth)
	}
	return line
}

func (m *Model) renderStatus() string {
	r, _ := m.split.Cursor()
	n := m.split.RowCount()
	cur := 0
	if n > 0 {
		cur = r + 1
	}
	sortDesc := "none"
	if col, desc, ok := m.rows.Sort(); ok {
		c, _ := m.table.Column(col)
		sortDesc = c.Name
		if desc {
			sortDesc += " desc"
		}
	}
	status := fmt.Sprintf("[%s] row:%d/%d total:%d sort:%s frozen:%d follow:%v | [:]=commands [?]=help | %s",
		m.source, cur, n, m.table.RowCount(), sortDesc, len(m.split.Frozen().Columns()), m.follow, m.lastMsg)
	if m.rejected > 0 {
		status += m.styles.Error.Render(fmt.Sprintf(" rejected:%d", m.rejected))
	}
	return m.styles.Status.Render(status)
}

func (m *Model) renderHelp() string {
	// Build an organized, navigable help menu
	if len(m.helpItems) == 0 {
		m.helpItems = m.buildHelpItems()
	}
	m.helpSel = max(min(m.helpSel, len(m.helpItems)-1), 0)
	lines := []string{"Shortcuts:"}
	currentGroup := ""
	lineIndexOfSel := 0
	for i, it := range m.helpItems {
		if it.group != currentGroup {
			currentGroup = it.group
			lines = append(lines, "", currentGroup+":")
		}
		prefix := "  "
		if i == m.helpSel {
			prefix = "> "
			lineIndexOfSel = len(lines)
		}
		lines = append(lines, fmt.Sprintf("%s[%s] %s", prefix, keyLabel(it.key), it.text))
	}
	// Adjust viewport to keep selection visible
	if m.modalVP.Height > 0 {
		top := m.modalVP.YOffset
		bottom := top + m.modalVP.Height - 1
		if lineIndexOfSel <= top {
			m.modalVP.YOffset = max(lineIndexOfSel-1, 0)
		} else if lineIndexOfSel >= bottom {
			m.modalVP.YOffset = max(lineIndexOfSel-m.modalVP.Height+2, 0)
		}
	}
	return m.styles.Help.Render(strings.Join(lines, "\n"))
}

func (m *Model) openHelpModal() {
	m.modalActive = true
	m.modalKind = modalHelp
	m.modalTitle = "Help · packgrid " + version.String()
	m.helpItems = m.buildHelpItems()
	m.helpSel = 0
	m.modalBody = m.renderHelp()
	m.resizeModal()
}

func (m *Model) openAppLogsModal() {
	m.modalActive = true
	m.modalKind = modalLogs
	m.modalTitle = "Application Logs"
	m.modalBody = logx.Dump()
	m.resizeModal()
	m.modalVP.GotoBottom()
}

func (m *Model) openPaletteModal() {
	m.syncActions()
	m.pal.Open()
	m.palSel = 0
	m.palInput.SetValue("")
	m.palInput.Focus()
	m.modalActive = true
	m.modalKind = modalPalette
	m.modalTitle = "Commands"
	m.resizeModal()
}

func (m *Model) closePaletteModal() {
	m.pal.Close()
	m.palInput.Blur()
	m.modalActive = false
}

func (m *Model) openEditorModal(column string) {
	m.modalActive = true
	m.modalKind = modalEditor
	m.modalTitle = "Edit " + column
	m.resizeModal()
}

func (m *Model) resizeModal() {
	w := max(m.termWidth-6, 20)
	h := max(m.termHeight-6, 5)
	m.modalVP = viewport.New(w-4, h-4)
	switch m.modalKind {
	case modalEditor:
		m.area.SetWidth(w - 6)
		m.area.SetHeight(h - 6)
	case modalHelp:
		m.modalVP.SetContent(m.renderHelp())
	default:
		m.modalVP.SetContent(m.modalBody)
	}
}

func (m *Model) renderModal() string {
	var content string
	boxW := max(m.termWidth-6, 20)
	switch m.modalKind {
	case modalHelp:
		m.modalVP.SetContent(m.renderHelp())
		content = m.modalVP.View() + "\n[esc]=close  [enter]=run"
	case modalLogs:
		// Fixed status header above navigable application log viewport
		header := []string{
			"Status:",
			fmt.Sprintf("rows: %d visible / %d total  appended: %d  rejected: %d", m.rows.Len(), m.table.RowCount(), m.appended, m.rejected),
			fmt.Sprintf("source: %s  follow: %v", m.source, m.follow),
		}
		content = m.styles.Help.Render(strings.Join(header, "\n")) + "\n" + m.modalVP.View() + "\n[esc/enter]=close  [c]=copy"
	case modalPalette:
		boxW = min(boxW, 72)
		content = m.renderPalette(max(m.termHeight-12, 3)) + "\n[enter]=run  [esc]=close  [↑/↓]=navigate"
	case modalEditor:
		content = m.area.View() + "\n[ctrl+s]=commit  [esc]=cancel"
	default:
		content = m.modalVP.View() + "\n[esc/enter]=close"
	}
	title := m.styles.PopupTitle.Render(m.modalTitle)
	body := m.styles.PopupBox.Width(boxW).Render(title + "\n" + content)
	return lipgloss.Place(m.termWidth, m.termHeight, lipgloss.Center, lipgloss.Center, body)
}

func (m *Model) renderPalette(height int) string {
	res := m.pal.Results()
	lines := []string{m.palInput.View(), ""}
	if len(res) == 0 {
		lines = append(lines, m.styles.Help.Render("no matching command"))
	}
	start := 0
	if m.palSel >= height {
		start = m.palSel - height + 1
	}
	for i := start; i < len(res) && i < start+height; i++ {
		r := res[i]
		label := highlight(r.Entry.Label, r.Positions, m.styles.Match)
		if r.Keyword != "" {
			label += m.styles.Help.Render("  (" + r.Keyword + ")")
		}
		if i == m.palSel {
			lines = append(lines, m.styles.PaletteSel.Render(">")+" "+label)
		} else {
			lines = append(lines, "  "+label)
		}
	}
	return strings.Join(lines, "\n")
}

// highlight styles the runes of s at the given rune indexes.
func highlight(s string, pos []int, st lipgloss.Style) string {
	if len(pos) == 0 {
		return s
	}
	hit := make(map[int]bool, len(pos))
	for _, p := range pos {
		hit[p] = true
	}
	var b strings.Builder
	for i, r := range []rune(s) {
		if hit[i] {
			b.WriteString(st.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
