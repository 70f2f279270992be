// Package palette implements the command palette: an action catalog searched
// by a tiered fuzzy matcher, with an Open -> Dispatched -> Closed lifecycle.
package palette

import (
	"errors"
	"fmt"
	"slices"

	"packgrid/internal/util/logx"
)

var (
	ErrIndexOutOfRange = errors.New("result index out of range")
	ErrNotOpen         = errors.New("palette is not open")
	// ErrStaleRecompute marks a result computed for a superseded query. It is
	// only logged, callers never see it.
	ErrStaleRecompute = errors.New("stale recompute")
)

const DefaultMaxResults = 50

type State int

const (
	Closed State = iota
	Open
	Dispatched
)

func (s State) String() string {
	switch s {
	case Open:
		return "open"
	case Dispatched:
		return "dispatched"
	}
	return "closed"
}

// Palette owns the query state for one application session.
type Palette struct {
	catalog  *Catalog
	max      int
	dispatch func(actionID string)

	state   State
	query   string
	results []Result
	gen     uint64
	applied uint64 // generation the results belong to
}

// New creates a closed palette over c. dispatch receives every selected
// action id exactly once; limit < 1 means DefaultMaxResults.
func New(c *Catalog, limit int, dispatch func(actionID string)) *Palette {
	if limit < 1 {
		limit = DefaultMaxResults
	}
	return &Palette{catalog: c, max: limit, dispatch: dispatch}
}

func (p *Palette) State() State      { return p.state }
func (p *Palette) Query() string     { return p.query }
func (p *Palette) MaxResults() int   { return p.max }
func (p *Palette) Catalog() *Catalog { return p.catalog }
func (p *Palette) Results() []Result { return slices.Clone(p.results) }
func (p *Palette) Len() int          { return len(p.results) }
func (p *Palette) IsOpen() bool      { return p.state == Open }

// Open resets the query and lists the catalog in registration order.
func (p *Palette) Open() {
	p.state = Open
	_ = p.UpdateQuery("")
}

// Close cancels the palette from any query state without dispatching.
func (p *Palette) Close() {
	p.state = Closed
	p.query = ""
	p.results = nil
	p.gen++
}

// Job is a recompute detached from the palette, safe to run on another
// goroutine.
type Job struct {
	gen     uint64
	query   string
	entries []Entry
	max     int
}

// Computed is the output of Job.Run, applied with Palette.Apply.
type Computed struct {
	gen     uint64
	query   string
	results []Result
}

// Begin starts a recompute for text. Any earlier job becomes stale.
func (p *Palette) Begin(text string) (Job, error) {
	if p.state != Open {
		return Job{}, ErrNotOpen
	}
	p.gen++
	p.query = text
	return Job{gen: p.gen, query: text, entries: p.catalog.enabled(), max: p.max}, nil
}

// Run ranks the job's entries. It only reads the job.
func (j Job) Run() Computed {
	return Computed{gen: j.gen, query: j.query, results: Rank(j.query, j.entries, j.max)}
}

// Apply installs a computed result unless a newer query superseded it.
func (p *Palette) Apply(c Computed) bool {
	if p.state != Open || c.gen != p.gen {
		logx.Debugf("palette: %v: query %q (gen %d, current %d)", ErrStaleRecompute, c.query, c.gen, p.gen)
		return false
	}
	p.results = c.results
	p.applied = c.gen
	return true
}

// Pending reports whether a query was begun whose results are not applied
// yet, so Results still belong to an earlier query.
func (p *Palette) Pending() bool { return p.state == Open && p.applied != p.gen }

// Flush recomputes the current query synchronously if a job is pending.
func (p *Palette) Flush() {
	if p.Pending() {
		p.Apply(Job{gen: p.gen, query: p.query, entries: p.catalog.enabled(), max: p.max}.Run())
	}
}

// UpdateQuery recomputes the ranked list synchronously.
func (p *Palette) UpdateQuery(text string) error {
	j, err := p.Begin(text)
	if err != nil {
		return err
	}
	p.Apply(j.Run())
	return nil
}

// Select dispatches the action at index and closes the palette.
func (p *Palette) Select(index int) (string, error) {
	if p.state != Open {
		return "", ErrNotOpen
	}
	if index < 0 || index >= len(p.results) {
		return "", fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(p.results))
	}
	id := p.results[index].Entry.ActionID
	p.state = Dispatched
	logx.Debugf("palette: dispatch %s", id)
	if p.dispatch != nil {
		p.dispatch(id)
	}
	p.Close()
	return id, nil
}

// Rank scores entries against query: prefix before substring before fuzzy,
// then shorter labels, then registration order. An empty query keeps
// registration order. At most max results are returned.
func Rank(query string, entries []Entry, limit int) []Result {
	if limit < 1 {
		limit = DefaultMaxResults
	}
	out := make([]Result, 0, min(len(entries), limit))
	for i, e := range entries {
		r, ok := Match(query, e)
		if !ok {
			continue
		}
		r.order = i
		out = append(out, r)
	}
	slices.SortStableFunc(out, func(a, b Result) int {
		if a.Score != b.Score {
			return b.Score - a.Score
		}
		return a.order - b.order
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
