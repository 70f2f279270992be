package palette

import (
	"strings"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"
)

// Tier is the kind of match, best last.
type Tier int

const (
	TierNone Tier = iota
	TierFuzzy
	TierSubstring
	TierPrefix
)

func (t Tier) String() string {
	switch t {
	case TierFuzzy:
		return "fuzzy"
	case TierSubstring:
		return "substring"
	case TierPrefix:
		return "prefix"
	}
	return "none"
}

// Result is one ranked entry for the current query.
type Result struct {
	Entry Entry
	Score int
	Tier  Tier
	// Positions are rune indexes of the matched label characters. They are
	// empty when the match came from a keyword.
	Positions []int
	Keyword   string
	order     int
}

const tierWeight = 1 << 20

// score combines tier and label length; higher is better.
func score(t Tier, label string) int {
	if t == TierNone {
		return 0
	}
	return int(t)*tierWeight - min(utf8.RuneCountInString(label), tierWeight-1)
}

// Match scores e against query by the best of its label and keywords.
func Match(query string, e Entry) (Result, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	r := Result{Entry: e}
	if q == "" {
		return r, true
	}
	r.Tier, r.Positions = matchText(q, e.Label)
	for _, kw := range e.Keywords {
		if t, _ := matchText(q, kw); t > r.Tier {
			r.Tier, r.Positions, r.Keyword = t, nil, kw
		}
	}
	r.Score = score(r.Tier, e.Label)
	return r, r.Tier != TierNone
}

func matchText(q, text string) (Tier, []int) {
	lower := strings.ToLower(text)
	if strings.HasPrefix(lower, q) {
		return TierPrefix, span(0, utf8.RuneCountInString(q))
	}
	if i := strings.Index(lower, q); i >= 0 {
		return TierSubstring, span(utf8.RuneCountInString(lower[:i]), utf8.RuneCountInString(q))
	}
	ms := fuzzy.Find(q, []string{text})
	if len(ms) == 0 {
		return TierNone, nil
	}
	pos := make([]int, 0, len(ms[0].MatchedIndexes))
	for _, b := range ms[0].MatchedIndexes {
		pos = append(pos, utf8.RuneCountInString(text[:b]))
	}
	return TierFuzzy, pos
}

func span(start, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = start + i
	}
	return out
}
