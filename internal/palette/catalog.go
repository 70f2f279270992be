package palette

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrDuplicateAction is returned when an action id is registered twice.
var ErrDuplicateAction = errors.New("duplicate action")

// Entry is one catalog item. Entries are immutable once registered.
type Entry struct {
	Label    string
	ActionID string
	Keywords []string
}

// Catalog is the explicitly owned set of actions a palette searches.
type Catalog struct {
	entries  []Entry
	byID     map[string]int
	disabled map[string]bool
}

func NewCatalog() *Catalog {
	return &Catalog{byID: map[string]int{}, disabled: map[string]bool{}}
}

// Register adds an action. Mnemonic markers ("&Save" -> "Save", "&&" -> "&")
// are stripped from the label.
func (c *Catalog) Register(label, actionID string, keywords ...string) error {
	if strings.TrimSpace(actionID) == "" {
		return errors.New("empty action id")
	}
	if _, ok := c.byID[actionID]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateAction, actionID)
	}
	c.byID[actionID] = len(c.entries)
	c.entries = append(c.entries, Entry{
		Label:    stripMnemonic(label),
		ActionID: actionID,
		Keywords: slices.Clone(keywords),
	})
	return nil
}

func (c *Catalog) Len() int { return len(c.entries) }

// Lookup finds an entry by action id.
func (c *Catalog) Lookup(actionID string) (Entry, bool) {
	i, ok := c.byID[actionID]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// SetEnabled hides or shows an action from the next recompute on.
func (c *Catalog) SetEnabled(actionID string, enabled bool) error {
	if _, ok := c.byID[actionID]; !ok {
		return fmt.Errorf("unknown action %q", actionID)
	}
	if enabled {
		delete(c.disabled, actionID)
	} else {
		c.disabled[actionID] = true
	}
	return nil
}

// enabled returns the enabled entries in registration order.
func (c *Catalog) enabled() []Entry {
	out := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		if !c.disabled[e.ActionID] {
			out = append(out, e)
		}
	}
	return out
}

func stripMnemonic(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '&' {
			if i+1 < len(s) && s[i+1] == '&' {
				b.WriteByte('&')
				i++
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
