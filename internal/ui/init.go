package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"packgrid/internal/config"
	"packgrid/internal/filter"
	"packgrid/internal/frozen"
	"packgrid/internal/ingest"
	"packgrid/internal/model"
	"packgrid/internal/palette"
	"packgrid/internal/parse"
	"packgrid/internal/state"
	"packgrid/internal/util/logx"
)

// SourceOptions picks the ingest source from the command line.
func SourceOptions(cfg *config.Config) ingest.Options {
	src := ingest.SourceDemo
	if cfg.UseStdin {
		src = ingest.SourceStdin
	}
	if !cfg.UseStdin && cfg.FilePath != "" {
		src = ingest.SourceFile
	}
	return ingest.Options{Source: src, Path: cfg.FilePath, Follow: cfg.Follow}
}

func initialModel(ctx context.Context, cfg *config.Config, feed *ingest.Feed) (*Model, error) {
	t, err := model.NewTable(feed.Columns, feed.Rows)
	if err != nil {
		return nil, err
	}
	m := &Model{
		ctx:     ctx,
		cfg:     cfg,
		feed:    feed,
		decoder: parse.NewDecoder(feed.Columns),
		table:   t,
		styles:  NewStyles(cfg.Theme == config.ThemeDark),
		keymap:  DefaultKeyMap(),
		source:  feed.Name(),
		follow:  feed.Streaming(),
		store:   state.DefaultStore(),
	}
	m.rows = filter.New(t)
	m.split = frozen.New(t, m.rows)

	m.input = textinput.New()
	m.input.Placeholder = `text, col:text, /regex/, !not, a | b, = expr`
	m.input.CharLimit = 512
	m.input.Prompt = "/"
	m.cellInput = textinput.New()
	m.cellInput.Prompt = "= "
	m.palInput = textinput.New()
	m.palInput.Placeholder = "type a command"
	m.palInput.Prompt = "> "
	m.area = textarea.New()
	m.area.ShowLineNumbers = false
	m.modalVP = viewport.New(80, 20)

	m.frozenTbl = newPaneTable(m.styles, true)
	m.scrollTbl = newPaneTable(m.styles, false)

	m.catalog = palette.NewCatalog()
	registerActions(m.catalog)
	m.pal = palette.New(m.catalog, cfg.MaxResults, func(id string) {
		m.pending = m.runAction(id)
	})

	if !cfg.NoCache && m.fromFile() {
		if v, ok := m.store.Load(cfg.FilePath); ok {
			m.restoreView(v)
		}
	}
	for _, name := range cfg.Freeze {
		if i, ok := t.ColumnIndex(name); ok {
			_ = t.SetColumnFrozen(i, true)
		} else {
			logx.Warnf("ui: -freeze: no column %q", name)
		}
	}
	if cfg.Filter != "" {
		m.setFilter(cfg.Filter)
	}
	return m, nil
}

func newPaneTable(st Styles, frozenPane bool) table.Model {
	tbl := table.New(table.WithFocused(false), table.WithHeight(20))
	ts := table.DefaultStyles()
	// Remove default padding to make width math exact
	ts.Header = st.TableStyles.Header
	if frozenPane {
		ts.Header = ts.Header.Foreground(st.Divider.GetForeground())
	}
	ts.Cell = st.TableStyles.Cell
	ts.Selected = st.TableStyles.Selected
	tbl.SetStyles(ts)
	return tbl
}

func Run(ctx context.Context, cfg *config.Config) error {
	feed, err := ingest.Open(SourceOptions(cfg))
	if err != nil {
		return err
	}
	m, err := initialModel(ctx, cfg, feed)
	if err != nil {
		return err
	}
	defer m.close()
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	m.saveView()
	return err
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(setupPipeline(m), tea.Tick(200*time.Millisecond, func(time.Time) tea.Msg { return tickMsg{} }))
}

func (m *Model) close() {
	if m.ingestCancel != nil {
		m.ingestCancel()
	}
	m.split.Close()
	m.rows.Close()
}
