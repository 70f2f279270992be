package palette

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func scenarioCatalog(t *testing.T) *Catalog {
	t.Helper()
	c := NewCatalog()
	for _, e := range []Entry{
		{Label: "Open File", ActionID: "open"},
		{Label: "Save As", ActionID: "saveas"},
		{Label: "Find in Files", ActionID: "find"},
	} {
		if err := c.Register(e.Label, e.ActionID); err != nil {
			t.Fatalf("register: %v", err)
		}
	}
	return c
}

func labels(rs []Result) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Entry.Label
	}
	return out
}

func TestScenarioFi(t *testing.T) {
	p := New(scenarioCatalog(t), 0, nil)
	p.Open()
	if err := p.UpdateQuery("fi"); err != nil {
		t.Fatalf("update: %v", err)
	}
	got := labels(p.Results())
	want := []string{"Find in Files", "Open File"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
	rs := p.Results()
	if rs[0].Tier != TierPrefix || rs[1].Tier != TierSubstring {
		t.Fatalf("tiers %v %v", rs[0].Tier, rs[1].Tier)
	}
	if !reflect.DeepEqual(rs[1].Positions, []int{5, 6}) {
		t.Fatalf("positions %v", rs[1].Positions)
	}
}

func TestTierOrder(t *testing.T) {
	c := NewCatalog()
	_ = c.Register("Save Pack File", "save-pack")
	_ = c.Register("Special Pack Fixes", "special")
	_ = c.Register("SPF Tools", "spf-tools")
	_ = c.Register("Export SPF", "export-spf")
	_ = c.Register("Something Else", "else")
	rs := Rank("spf", []Entry{}, 10)
	if len(rs) != 0 {
		t.Fatalf("empty entries should rank nothing")
	}
	p := New(c, 10, nil)
	p.Open()
	_ = p.UpdateQuery("spf")
	got := labels(p.Results())
	want := []string{"SPF Tools", "Export SPF", "Save Pack File", "Special Pack Fixes"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestTieBreakByLengthThenOrder(t *testing.T) {
	c := NewCatalog()
	_ = c.Register("Copy Rows", "a")
	_ = c.Register("Copy", "b")
	_ = c.Register("Copy Cell", "c")
	rs := Rank("copy", c.enabled(), 10)
	want := []string{"Copy", "Copy Rows", "Copy Cell"}
	if got := labels(rs); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestKeywordMatch(t *testing.T) {
	c := NewCatalog()
	_ = c.Register("Export Visible Rows", "export", "tsv", "csv")
	_ = c.Register("Quit", "quit")
	rs := Rank("tsv", c.enabled(), 10)
	if len(rs) != 1 || rs[0].Entry.ActionID != "export" || rs[0].Keyword != "tsv" || rs[0].Positions != nil {
		t.Fatalf("unexpected %+v", rs)
	}
}

func TestEmptyQueryKeepsRegistrationOrderAndBound(t *testing.T) {
	c := NewCatalog()
	for i := 0; i < 120; i++ {
		_ = c.Register(fmt.Sprintf("Action %03d", 119-i), fmt.Sprintf("a%d", i))
	}
	p := New(c, 0, nil)
	p.Open()
	rs := p.Results()
	if len(rs) != DefaultMaxResults {
		t.Fatalf("len %d", len(rs))
	}
	for i, r := range rs {
		if r.Entry.ActionID != fmt.Sprintf("a%d", i) {
			t.Fatalf("result %d is %s", i, r.Entry.ActionID)
		}
	}
	for _, q := range []string{"a", "action", "0", "1 9", "zzz"} {
		_ = p.UpdateQuery(q)
		if p.Len() > DefaultMaxResults {
			t.Fatalf("query %q gave %d results", q, p.Len())
		}
	}
}

func TestDeterministic(t *testing.T) {
	c := NewCatalog()
	for i := 0; i < 80; i++ {
		_ = c.Register(fmt.Sprintf("Command %d with files", i%7), fmt.Sprintf("c%d", i), "file")
	}
	p := New(c, 25, nil)
	p.Open()
	_ = p.UpdateQuery("fi")
	first := p.Results()
	_ = p.UpdateQuery("zz")
	_ = p.UpdateQuery("fi")
	if !reflect.DeepEqual(first, p.Results()) {
		t.Fatalf("results differ between identical queries")
	}
}

func TestDuplicateAction(t *testing.T) {
	c := scenarioCatalog(t)
	if err := c.Register("Open Again", "open"); !errors.Is(err, ErrDuplicateAction) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if c.Len() != 3 {
		t.Fatalf("catalog grew to %d", c.Len())
	}
}

func TestMnemonicStripped(t *testing.T) {
	c := NewCatalog()
	_ = c.Register("&Save && Close", "save")
	e, _ := c.Lookup("save")
	if e.Label != "Save & Close" {
		t.Fatalf("label %q", e.Label)
	}
}

func TestSelectDispatchesOnce(t *testing.T) {
	var got []string
	p := New(scenarioCatalog(t), 0, func(id string) { got = append(got, id) })
	if _, err := p.Select(0); !errors.Is(err, ErrNotOpen) {
		t.Fatalf("select while closed: %v", err)
	}
	p.Open()
	_ = p.UpdateQuery("save")
	if _, err := p.Select(1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected out of range, got %v", err)
	}
	if p.State() != Open {
		t.Fatalf("failed select changed state to %v", p.State())
	}
	id, err := p.Select(0)
	if err != nil || id != "saveas" {
		t.Fatalf("select: %q %v", id, err)
	}
	if p.State() != Closed || p.Query() != "" || p.Len() != 0 {
		t.Fatalf("not closed after dispatch")
	}
	if !reflect.DeepEqual(got, []string{"saveas"}) {
		t.Fatalf("dispatched %v", got)
	}
}

func TestCloseDoesNotDispatch(t *testing.T) {
	n := 0
	p := New(scenarioCatalog(t), 0, func(string) { n++ })
	p.Open()
	_ = p.UpdateQuery("open")
	p.Close()
	if n != 0 || p.State() != Closed {
		t.Fatalf("close dispatched or stayed open")
	}
	if err := p.UpdateQuery("x"); !errors.Is(err, ErrNotOpen) {
		t.Fatalf("update while closed: %v", err)
	}
}

func TestStaleRecomputeDiscarded(t *testing.T) {
	p := New(scenarioCatalog(t), 0, nil)
	p.Open()
	old, _ := p.Begin("open")
	newer, _ := p.Begin("find")
	if !p.Apply(newer.Run()) {
		t.Fatalf("latest result rejected")
	}
	if p.Apply(old.Run()) {
		t.Fatalf("stale result applied")
	}
	if got := labels(p.Results()); !reflect.DeepEqual(got, []string{"Find in Files"}) {
		t.Fatalf("got %v", got)
	}
	// results computed before a close are dropped too
	j, _ := p.Begin("save")
	p.Close()
	p.Open()
	if p.Apply(j.Run()) {
		t.Fatalf("pre-close result applied")
	}
}

func TestFlushAppliesPendingQuery(t *testing.T) {
	p := New(scenarioCatalog(t), 0, nil)
	p.Open()
	if p.Pending() {
		t.Fatalf("open left a pending job")
	}
	if _, err := p.Begin("find"); err != nil {
		t.Fatal(err)
	}
	if !p.Pending() {
		t.Fatalf("begin not pending")
	}
	p.Flush()
	if p.Pending() {
		t.Fatalf("flush left a pending job")
	}
	if got := labels(p.Results()); !reflect.DeepEqual(got, []string{"Find in Files"}) {
		t.Fatalf("got %v", got)
	}
}

func TestRankNonPositiveLimit(t *testing.T) {
	entries := make([]Entry, 60)
	for i := range entries {
		entries[i] = Entry{Label: fmt.Sprintf("Action %02d", i), ActionID: fmt.Sprintf("a%d", i)}
	}
	for _, limit := range []int{-1, 0} {
		if got := Rank("a", entries, limit); len(got) != DefaultMaxResults {
			t.Fatalf("limit %d: %d results", limit, len(got))
		}
	}
}

func TestDisabledEntriesDropOnNextRecompute(t *testing.T) {
	c := scenarioCatalog(t)
	p := New(c, 0, nil)
	p.Open()
	_ = c.SetEnabled("saveas", false)
	if p.Len() != 3 {
		t.Fatalf("visible list changed without a recompute")
	}
	_ = p.UpdateQuery("")
	if got := labels(p.Results()); !reflect.DeepEqual(got, []string{"Open File", "Find in Files"}) {
		t.Fatalf("got %v", got)
	}
}
