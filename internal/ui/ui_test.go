package ui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"packgrid/internal/config"
	"packgrid/internal/ingest"
	"packgrid/internal/state"
)

func demoModel(t *testing.T) *Model {
	t.Helper()
	cfg := &config.Config{Theme: config.ThemeDark, MaxResults: config.DefaultMaxResults, NoCache: true}
	feed, err := ingest.Open(ingest.Options{Source: ingest.SourceDemo})
	if err != nil {
		t.Fatalf("open demo: %v", err)
	}
	m, err := initialModel(context.Background(), cfg, feed)
	if err != nil {
		t.Fatalf("model: %v", err)
	}
	t.Cleanup(m.close)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	return m
}

func TestPaletteDispatchesAction(t *testing.T) {
	m := demoModel(t)
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{':'}})
	if !m.modalActive || m.modalKind != modalPalette || !m.pal.IsOpen() {
		t.Fatalf("palette not open")
	}
	if err := m.pal.UpdateQuery("freeze"); err != nil {
		t.Fatal(err)
	}
	if got := m.pal.Results()[0].Entry.ActionID; got != actFreeze {
		t.Fatalf("top result %q", got)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.modalActive || m.pal.IsOpen() {
		t.Fatalf("palette still open")
	}
	if c, _ := m.table.Column(0); c.Frozen {
		t.Fatalf("cursor column still frozen")
	}
	if n := len(m.split.Frozen().Columns()); n != 1 {
		t.Fatalf("frozen pane has %d columns", n)
	}
}

func TestPaletteEscapeDispatchesNothing(t *testing.T) {
	m := demoModel(t)
	m.openPaletteModal()
	_ = m.pal.UpdateQuery("quit")
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.modalActive || m.pal.IsOpen() || m.pending != nil {
		t.Fatalf("escape left state behind")
	}
}

func TestFilterLine(t *testing.T) {
	m := demoModel(t)
	if err := m.setFilter("category:kitchen"); err != nil {
		t.Fatal(err)
	}
	if m.rows.Len() != 3 || m.split.RowCount() != 3 {
		t.Fatalf("visible %d, split %d", m.rows.Len(), m.split.RowCount())
	}
	if err := m.setFilter("item:/(/"); err == nil {
		t.Fatalf("bad regex accepted")
	}
	if m.rows.Len() != 3 || m.filterText != "category:kitchen" {
		t.Fatalf("failed filter replaced the previous one")
	}
	m.toggleFilterOption(&m.invert, "invert")
	if m.rows.Len() != 7 {
		t.Fatalf("inverted visible %d", m.rows.Len())
	}
	m.clearFilter()
	if m.rows.Len() != 10 {
		t.Fatalf("cleared visible %d", m.rows.Len())
	}
}

func TestDrainLinesAppendsAndRejects(t *testing.T) {
	m := demoModel(t)
	ch := make(chan ingest.Line, 2)
	ch <- ingest.Line{Text: "P0100\tRope\ttools\t0.2\t1\tfalse\t"}
	ch <- ingest.Line{Text: "P0101\tKnife\ttools\theavy"}
	close(ch)
	m.lines = ch
	m.drainLines(10)
	if m.appended != 1 || m.rejected != 1 || m.table.RowCount() != 11 {
		t.Fatalf("appended=%d rejected=%d rows=%d", m.appended, m.rejected, m.table.RowCount())
	}
	if m.lines != nil {
		t.Fatalf("closed stream not released")
	}
}

func TestViewStateRoundTrip(t *testing.T) {
	m := demoModel(t)
	_ = m.setFilter("packed:false")
	_ = m.rows.SortBy(3, true)
	_ = m.split.SetColumnWidth(2, 30)
	_ = m.split.ToggleFrozen(2)
	v := m.captureView()

	n := demoModel(t)
	n.store = state.Store{Dir: t.TempDir()}
	n.restoreView(v)
	if n.rows.Len() != m.rows.Len() {
		t.Fatalf("visible %d want %d", n.rows.Len(), m.rows.Len())
	}
	if col, desc, ok := n.rows.Sort(); !ok || col != 3 || !desc {
		t.Fatalf("sort %d %v %v", col, desc, ok)
	}
	if n.split.ColumnWidth(2) != 30 {
		t.Fatalf("width %d", n.split.ColumnWidth(2))
	}
	if c, _ := n.table.Column(2); !c.Frozen {
		t.Fatalf("category not frozen")
	}
}

func TestRestoredNegatedTermSurvivesOptionToggle(t *testing.T) {
	m := demoModel(t)
	if err := m.setFilter("!category:kitchen"); err != nil {
		t.Fatal(err)
	}
	if m.rows.Len() != 7 {
		t.Fatalf("visible %d", m.rows.Len())
	}
	v := m.captureView()

	n := demoModel(t)
	n.restoreView(v)
	if n.rows.Len() != 7 || n.invert {
		t.Fatalf("restored visible %d invert %v", n.rows.Len(), n.invert)
	}
	n.toggleFilterOption(&n.caseSensitive, "case")
	n.toggleFilterOption(&n.caseSensitive, "case")
	if n.rows.Len() != 7 {
		t.Fatalf("after toggles visible %d", n.rows.Len())
	}

	n.toggleFilterOption(&n.invert, "invert")
	w := demoModel(t)
	w.restoreView(n.captureView())
	if !w.invert || w.rows.Len() != 3 {
		t.Fatalf("global invert lost: invert %v visible %d", w.invert, w.rows.Len())
	}
}

func TestPaletteEnterUsesTypedQuery(t *testing.T) {
	m := demoModel(t)
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{':'}})
	// Results for the empty query are applied; the recompute commands for
	// the typed text are never run here.
	for _, r := range "freeze" {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	if !m.pal.Pending() {
		t.Fatalf("typed query already applied")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.pal.IsOpen() {
		t.Fatalf("palette still open")
	}
	if c, _ := m.table.Column(0); c.Frozen {
		t.Fatalf("enter ran an action from the stale list")
	}
}
