// Package ingest loads the initial table and streams rows appended later.
package ingest

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/nxadm/tail"

	"packgrid/internal/model"
	"packgrid/internal/parse"
	"packgrid/internal/util/logx"
)

type SourceKind string

const (
	SourceStdin  SourceKind = "stdin"
	SourceFile   SourceKind = "file"
	SourceDemo   SourceKind = "demo"
	SourceReader SourceKind = "reader"
)

type Options struct {
	Source      SourceKind
	Path        string
	Reader      io.Reader // SourceReader only
	Follow      bool
	ScanBufSize int           // per-line max (bytes)
	DemoEvery   time.Duration // SourceDemo append interval; 0 = 500ms
}

// Line is one raw data line read after the initial load.
type Line struct {
	Text   string
	Source string
	When   time.Time
}

// Feed is an opened source: the initial table plus a stream of appended rows.
type Feed struct {
	Columns []model.Column
	Rows    [][]model.Value

	opt  Options
	rest *bufio.Reader
}

// Open loads the initial table. Files are decoded whole; stdin and readers
// only consume the header, their rows arrive through Lines.
func Open(opt Options) (*Feed, error) {
	if opt.ScanBufSize <= 0 {
		opt.ScanBufSize = parse.MaxLineBytes
	}
	f := &Feed{opt: opt}
	switch opt.Source {
	case SourceFile:
		fh, err := os.Open(opt.Path)
		if err != nil {
			return nil, err
		}
		defer fh.Close()
		if f.Columns, f.Rows, err = parse.Decode(fh); err != nil {
			return nil, fmt.Errorf("%s: %w", opt.Path, err)
		}
	case SourceStdin, SourceReader:
		r := opt.Reader
		if opt.Source == SourceStdin {
			r = os.Stdin
		}
		if r == nil {
			return nil, errors.New("nil reader")
		}
		f.rest = bufio.NewReaderSize(r, 64*1024)
		cols, err := readHeader(f.rest)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", opt.Source, err)
		}
		f.Columns = cols
	case SourceDemo:
		f.Columns, f.Rows = DemoTable()
	default:
		return nil, errors.New("unknown source kind")
	}
	logx.Infof("ingest: opened %s with %d columns, %d rows", f.Name(), len(f.Columns), len(f.Rows))
	return f, nil
}

// Name is a display name for the source.
func (f *Feed) Name() string {
	if f.opt.Source == SourceFile {
		return f.opt.Path
	}
	return string(f.opt.Source)
}

// Streaming reports whether Lines will deliver anything.
func (f *Feed) Streaming() bool {
	switch f.opt.Source {
	case SourceFile:
		return f.opt.Follow
	case SourceStdin, SourceReader, SourceDemo:
		return true
	}
	return false
}

func readHeader(br *bufio.Reader) ([]model.Column, error) {
	for {
		line, err := br.ReadString('\n')
		if line != "" && !parse.Skip(line) {
			cols, _, herr := parse.ParseHeader(line)
			return cols, herr
		}
		if err != nil {
			if err == io.EOF {
				return nil, errors.New("missing header")
			}
			return nil, err
		}
	}
}

// Lines streams data lines appended after the initial load until ctx ends
// or the source is exhausted. Both channels are closed on return.
func (f *Feed) Lines(ctx context.Context) (<-chan Line, <-chan error) {
	out := make(chan Line, 1024)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errs)

		switch f.opt.Source {
		case SourceStdin, SourceReader:
			readFromReader(ctx, f.rest, string(f.opt.Source), f.opt.ScanBufSize, out, errs)
		case SourceFile:
			if f.opt.Follow {
				readFromTail(ctx, f.opt.Path, out, errs)
			}
		case SourceDemo:
			every := f.opt.DemoEvery
			if every <= 0 {
				every = 500 * time.Millisecond
			}
			demo(ctx, every, out)
		}
	}()

	return out, errs
}

func readFromReader(ctx context.Context, r io.Reader, src string, maxBuf int, out chan<- Line, errs chan<- error) {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 1024*64)
	scanner.Buffer(buf, maxBuf)
	for scanner.Scan() {
		if parse.Comment(scanner.Text()) {
			continue
		}
		select {
		case <-ctx.Done():
			return
		case out <- Line{Text: scanner.Text(), Source: src, When: time.Now()}:
		}
	}
	if err := scanner.Err(); err != nil {
		errs <- err
	}
}

func readFromTail(ctx context.Context, path string, out chan<- Line, errs chan<- error) {
	t, err := tail.TailFile(path, tail.Config{
		Follow:    true,
		ReOpen:    true,
		MustExist: true,
		Logger:    tail.DiscardingLogger,
		Poll:      true,
		Location:  &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd},
	})
	if err != nil {
		errs <- err
		return
	}
	defer t.Cleanup()
	for {
		select {
		case <-ctx.Done():
			_ = t.Stop()
			return
		case l, ok := <-t.Lines:
			if !ok {
				return
			}
			if l.Err != nil {
				logx.Warnf("ingest: tail %s: %v", path, l.Err)
				continue
			}
			if parse.Comment(l.Text) {
				continue
			}
			out <- Line{Text: l.Text, Source: path, When: time.Now()}
		}
	}
}
