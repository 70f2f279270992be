package main

import (
	"context"
	"fmt"

	"packgrid/internal/config"
	"packgrid/internal/export"
	"packgrid/internal/filter"
	"packgrid/internal/frozen"
	"packgrid/internal/ingest"
	"packgrid/internal/model"
	"packgrid/internal/parse"
	"packgrid/internal/ui"
	"packgrid/internal/util/logx"
)

// exportHeadless writes the filtered view to cfg.ExportOut without starting
// the terminal UI. Columns come out in display order, frozen ones first.
func exportHeadless(ctx context.Context, cfg *config.Config) error {
	opt := ui.SourceOptions(cfg)
	opt.Follow = false
	feed, err := ingest.Open(opt)
	if err != nil {
		return err
	}
	t, err := model.NewTable(feed.Columns, feed.Rows)
	if err != nil {
		return err
	}
	if opt.Source == ingest.SourceStdin {
		if err := drain(ctx, feed, t); err != nil {
			return err
		}
	}

	for _, name := range cfg.Freeze {
		i, ok := t.ColumnIndex(name)
		if !ok {
			return fmt.Errorf("unknown column %q", name)
		}
		if err := t.SetColumnFrozen(i, true); err != nil {
			return err
		}
	}

	rows := filter.New(t)
	defer rows.Close()
	if cfg.Filter != "" {
		cs, err := filter.ParseQuery(cfg.Filter, t.Columns())
		if err != nil {
			return err
		}
		set, err := filter.Compile(t.Columns(), cs, false)
		if err != nil {
			return err
		}
		rows.SetPredicate(set)
	}

	split := frozen.New(t, rows)
	defer split.Close()
	cols := append(split.Frozen().Columns(), split.Scrollable().Columns()...)

	f, err := export.ParseFormat(cfg.ExportFormat)
	if err != nil {
		return err
	}
	if err := export.ToFile(cfg.ExportOut, f, t, rows.VisibleRows(), cols); err != nil {
		return err
	}
	logx.Infof("export: wrote %d rows to %s", rows.Len(), cfg.ExportOut)
	return nil
}

// drain appends every streamed row until the source is exhausted.
func drain(ctx context.Context, feed *ingest.Feed, t *model.Table) error {
	dec := parse.NewDecoder(feed.Columns)
	lines, errs := feed.Lines(ctx)
	n := 0
	for l := range lines {
		n++
		vals, err := dec.ParseRow(l.Text)
		if err != nil {
			return fmt.Errorf("row %d: %w", n, err)
		}
		if _, err := t.AppendRow(vals); err != nil {
			return err
		}
	}
	if err, ok := <-errs; ok && err != nil {
		return err
	}
	return ctx.Err()
}
