package filter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Knetic/govaluate"

	"packgrid/internal/model"
)

// Predicate decides whether a row stays visible.
type Predicate interface {
	Match(r model.Row) bool
}

// PredicateFunc adapts a plain function to Predicate.
type PredicateFunc func(r model.Row) bool

func (f PredicateFunc) Match(r model.Row) bool { return f(r) }

// emptier is implemented by predicates that can be "match all".
type emptier interface {
	Empty() bool
}

// IsEmpty reports whether p accepts every row without looking at it.
func IsEmpty(p Predicate) bool {
	if p == nil {
		return true
	}
	if e, ok := p.(emptier); ok {
		return e.Empty()
	}
	return false
}

// Criteria is one filter line.
type Criteria struct {
	Query         string // substring, or a regex when UseRegex is set
	UseRegex      bool
	CaseSensitive bool
	Invert        bool  // keep rows that do NOT match
	ShowBlank     bool  // blank cells pass this criterion
	Columns       []int // columns searched; empty means any column
	Group         int   // criteria in one group are ANDed, groups are ORed
	Expr          string
}

func (c Criteria) empty() bool {
	return c.Query == "" && strings.TrimSpace(c.Expr) == ""
}

// Evaluator is a compiled Criteria.
type Evaluator struct {
	c     Criteria
	query string
	re    *regexp.Regexp
	expr  *govaluate.EvaluableExpression
}

func NewEvaluator(c Criteria, cols []model.Column) (*Evaluator, error) {
	e := &Evaluator{c: c, query: c.Query}
	for _, col := range c.Columns {
		if col < 0 || col >= len(cols) {
			return nil, fmt.Errorf("%w: filter column %d", model.ErrOutOfRange, col)
		}
	}
	if c.UseRegex && c.Query != "" {
		pattern := c.Query
		if !c.CaseSensitive {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, err
		}
		e.re = re
	} else if !c.CaseSensitive {
		e.query = strings.ToLower(c.Query)
	}
	if strings.TrimSpace(c.Expr) != "" {
		expr, err := govaluate.NewEvaluableExpression(c.Expr)
		if err != nil {
			return nil, err
		}
		e.expr = expr
	}
	return e, nil
}

// Match evaluates the criterion against a row whose columns are cols.
func (e *Evaluator) Match(r model.Row, cols []model.Column) bool {
	if e.expr != nil && !e.matchExpr(r, cols) {
		return false
	}
	if e.c.Query == "" {
		return true
	}
	if len(e.c.Columns) == 0 {
		return e.matchColumns(r, cols, nil)
	}
	return e.matchColumns(r, cols, e.c.Columns)
}

// matchColumns: without Invert any searched cell may match; with Invert every
// searched cell has to pass the inverted test. Cells the query cannot apply to
// (a bool column searched for "foo") are skipped; when nothing applies the
// criterion passes.
func (e *Evaluator) matchColumns(r model.Row, cols []model.Column, which []int) bool {
	n := len(which)
	if which == nil {
		n = len(r.Cells)
	}
	seen := false
	for i := 0; i < n; i++ {
		col := i
		if which != nil {
			col = which[i]
		}
		pass, applies := e.matchCell(r.Cells[col].Value, cols[col])
		if !applies {
			continue
		}
		seen = true
		if pass && !e.c.Invert {
			return true
		}
		if !pass && e.c.Invert {
			return false
		}
	}
	return !seen || e.c.Invert
}

// matchCell reports whether one cell passes the criterion, Invert included.
func (e *Evaluator) matchCell(v model.Value, col model.Column) (pass, applies bool) {
	if col.Kind == model.KindBool {
		var hit bool
		switch strings.ToLower(e.c.Query) {
		case "true", "1":
			hit = v.Bool
		case "false", "0":
			hit = !v.Bool
		default:
			return false, false
		}
		return hit != e.c.Invert, true
	}
	if e.c.ShowBlank && v.Blank() {
		return true, true
	}
	text := v.String()
	var hit bool
	if e.re != nil {
		hit = e.re.MatchString(text)
	} else if e.c.CaseSensitive {
		hit = strings.Contains(text, e.query)
	} else {
		hit = strings.Contains(strings.ToLower(text), e.query)
	}
	return hit != e.c.Invert, true
}

func (e *Evaluator) matchExpr(r model.Row, cols []model.Column) bool {
	params := make(map[string]any, len(cols))
	for i, c := range cols {
		params[c.Name] = r.Cells[i].Value.Param()
	}
	result, err := e.expr.Evaluate(params)
	if err != nil {
		return false
	}
	b, ok := result.(bool)
	return ok && b
}

// Set is the compiled form of every filter line of a view.
type Set struct {
	cols       []model.Column
	groups     [][]*Evaluator
	editedOnly bool
}

// Compile builds a Set. Empty criteria are ignored; a Set without any
// criterion and without EditedOnly matches every row.
func Compile(cols []model.Column, criteria []Criteria, editedOnly bool) (*Set, error) {
	s := &Set{cols: cols, editedOnly: editedOnly}
	byGroup := map[int]int{}
	for _, c := range criteria {
		if c.empty() {
			continue
		}
		ev, err := NewEvaluator(c, cols)
		if err != nil {
			return nil, err
		}
		gi, ok := byGroup[c.Group]
		if !ok {
			gi = len(s.groups)
			byGroup[c.Group] = gi
			s.groups = append(s.groups, nil)
		}
		s.groups[gi] = append(s.groups[gi], ev)
	}
	return s, nil
}

// Empty reports a match-all set.
func (s *Set) Empty() bool {
	return s == nil || (len(s.groups) == 0 && !s.editedOnly)
}

func (s *Set) Match(r model.Row) bool {
	if s.Empty() {
		return true
	}
	if s.editedOnly && !r.Edited() {
		return false
	}
	if len(s.groups) == 0 {
		return true
	}
	for _, g := range s.groups {
		ok := true
		for _, ev := range g {
			if !ev.Match(r, s.cols) {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}
