package filter

import (
	"fmt"
	"strings"

	"packgrid/internal/model"
)

// ParseQuery turns a filter line into criteria.
//
//	tent stove          both words, any column (ANDed)
//	item:tent | qty:2   either term (groups are ORed)
//	!packed:true        invert
//	notes:/^spare/      regex
//	item:"sleeping bag" quoted value
//	= qty > 1 && packed expression; runs to the end of the line
//
// An unknown column prefix is treated as part of the value.
func ParseQuery(s string, cols []model.Column) ([]Criteria, error) {
	var out []Criteria
	groups, expr, err := splitGroups(s)
	if err != nil {
		return nil, err
	}
	for g, terms := range groups {
		for _, t := range terms {
			c := parseTerm(t, cols)
			c.Group = g
			out = append(out, c)
		}
	}
	if expr != "" {
		out = append(out, Criteria{Expr: expr, Group: len(groups)})
	}
	return out, nil
}

// splitGroups splits on | and whitespace outside quotes and /regex/.
func splitGroups(s string) (groups [][]string, expr string, err error) {
	var (
		cur     []string
		tok     strings.Builder
		quote   bool
		regex   bool
		started bool // tok has content, even an empty quoted value
	)
	flush := func() {
		if started {
			cur = append(cur, tok.String())
		}
		tok.Reset()
		started = false
	}
	endGroup := func() {
		flush()
		if len(cur) > 0 {
			groups = append(groups, cur)
		}
		cur = nil
	}
	rs := []rune(s)
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		switch {
		case quote:
			tok.WriteRune(r)
			if r == '"' {
				quote = false
			}
		case regex:
			tok.WriteRune(r)
			if r == '\\' && i+1 < len(rs) {
				i++
				tok.WriteRune(rs[i])
			} else if r == '/' {
				regex = false
			}
		case r == '"':
			tok.WriteRune(r)
			quote, started = true, true
		case r == '/' && atValueStart(tok.String()):
			tok.WriteRune(r)
			regex, started = true, true
		case r == '=' && !started && len(cur) == 0:
			endGroup()
			return groups, strings.TrimSpace(string(rs[i+1:])), nil
		case r == '|':
			endGroup()
		case r == ' ' || r == '\t':
			flush()
		default:
			tok.WriteRune(r)
			started = true
		}
	}
	if quote {
		return nil, "", fmt.Errorf("unterminated quote")
	}
	if regex {
		return nil, "", fmt.Errorf("unterminated regex")
	}
	endGroup()
	return groups, "", nil
}

// atValueStart reports whether a / here opens a regex: at the start of a
// term, after a ! or after a column prefix.
func atValueStart(tok string) bool {
	return tok == "" || tok == "!" || strings.HasSuffix(tok, ":")
}

func parseTerm(t string, cols []model.Column) Criteria {
	var c Criteria
	if strings.HasPrefix(t, "!") {
		c.Invert = true
		t = t[1:]
	}
	if i := strings.IndexByte(t, ':'); i > 0 && !strings.ContainsAny(t[:i], `/"`) {
		if col, ok := columnByName(cols, t[:i]); ok {
			c.Columns = []int{col}
			t = t[i+1:]
		}
	}
	switch {
	case len(t) >= 2 && strings.HasPrefix(t, "/") && strings.HasSuffix(t, "/"):
		c.UseRegex = true
		c.Query = strings.ReplaceAll(t[1:len(t)-1], `\/`, "/")
	case len(t) >= 2 && strings.HasPrefix(t, `"`) && strings.HasSuffix(t, `"`):
		c.Query = t[1 : len(t)-1]
	default:
		c.Query = t
	}
	return c
}

func columnByName(cols []model.Column, name string) (int, bool) {
	for i, c := range cols {
		if strings.EqualFold(c.Name, name) {
			return i, true
		}
	}
	return -1, false
}
