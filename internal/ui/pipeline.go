package ui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"packgrid/internal/util/logx"
)

// setupPipeline starts streaming appended rows. Lines are drained on the
// tick, so every table mutation happens on the UI goroutine.
func setupPipeline(m *Model) tea.Cmd {
	if !m.feed.Streaming() {
		return nil
	}
	if m.ingestCancel != nil {
		m.ingestCancel()
	}
	ctx, cancel := context.WithCancel(m.ctx)
	m.ingestCancel = cancel
	m.lines, m.errs = m.feed.Lines(ctx)
	logx.Infof("ingest: streaming from %s", m.source)
	return nil
}

// drainLines appends up to max pending lines to the table.
func (m *Model) drainLines(max int) {
	if m.lines == nil {
		return
	}
	lastRow, _ := m.split.Cursor()
	atEnd := m.split.RowCount() == 0 || lastRow == m.split.RowCount()-1
	added := 0
	for i := 0; i < max; i++ {
		select {
		case l, ok := <-m.lines:
			if !ok {
				m.lines = nil
				logx.Infof("ingest: %s exhausted", m.source)
				i = max
				break
			}
			vals, err := m.decoder.ParseRow(l.Text)
			if err != nil {
				m.rejected++
				logx.Warnf("ingest: %s: rejected line: %v", l.Source, err)
				continue
			}
			if _, err := m.table.AppendRow(vals); err != nil {
				m.rejected++
				logx.Warnf("ingest: append: %v", err)
				continue
			}
			m.appended++
			added++
		default:
			i = max
		}
	}
	if added > 0 && atEnd && m.follow {
		_, col := m.split.Cursor()
		m.split.SetCursor(m.split.RowCount()-1, col)
	}
}

func (m *Model) drainErrors() {
	if m.errs == nil {
		return
	}
	for j := 0; j < 20; j++ {
		select {
		case err, ok := <-m.errs:
			if !ok {
				m.errs = nil
				return
			}
			if strings.Contains(strings.ToLower(err.Error()), "token too long") {
				logx.Errorf("ingest error: %v (line longer than the scan buffer)", err)
			} else {
				logx.Errorf("ingest error: %v", err)
			}
		default:
			return
		}
	}
}
