// Package state persists per-file view state (frozen columns, widths, column
// order, filters and sort) as YAML, keyed by the table file's absolute path.
package state

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"packgrid/internal/util/logx"
)

// View is the saved state of one table file. Columns are stored by name so
// the state survives added or reordered columns.
type View struct {
	Query      string         `yaml:"query,omitempty"` // filter line as typed
	Frozen     []string       `yaml:"frozen,omitempty"`
	Order      []string       `yaml:"order,omitempty"`
	Widths     map[string]int `yaml:"widths,omitempty"`
	Filters    []Filter       `yaml:"filters,omitempty"`
	EditedOnly bool           `yaml:"edited_only,omitempty"`
	Sort       *Sort          `yaml:"sort,omitempty"`
	Options    Options        `yaml:"options,omitempty"`
}

// Options are the filter-line toggles applied on top of every parsed term.
type Options struct {
	CaseSensitive bool `yaml:"case_sensitive,omitempty"`
	ShowBlank     bool `yaml:"show_blank,omitempty"`
	Invert        bool `yaml:"invert,omitempty"`
}

type Filter struct {
	Query         string   `yaml:"query,omitempty"`
	Expr          string   `yaml:"expr,omitempty"`
	Columns       []string `yaml:"columns,omitempty"`
	Group         int      `yaml:"group,omitempty"`
	Regex         bool     `yaml:"regex,omitempty"`
	CaseSensitive bool     `yaml:"case_sensitive,omitempty"`
	Invert        bool     `yaml:"invert,omitempty"`
	ShowBlank     bool     `yaml:"show_blank,omitempty"`
}

type Sort struct {
	Column string `yaml:"column"`
	Desc   bool   `yaml:"desc,omitempty"`
}

// Store reads and writes view files under Dir.
type Store struct {
	Dir string
}

// DefaultStore keeps view files under the OS temp dir.
func DefaultStore() Store {
	return Store{Dir: filepath.Join(os.TempDir(), "packgrid-view-cache")}
}

// key derives a stable key from the absolute file path.
func key(filePath string) (string, error) {
	if strings.TrimSpace(filePath) == "" {
		return "", errors.New("empty path")
	}
	abs, err := filepath.Abs(filePath)
	if err != nil {
		return "", err
	}
	h := sha1.Sum([]byte(abs))
	return hex.EncodeToString(h[:]), nil
}

func (s Store) path(filePath string) (string, error) {
	k, err := key(filePath)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.Dir, fmt.Sprintf("view_%s.yaml", k)), nil
}

// Load returns the saved view for filePath, if any.
func (s Store) Load(filePath string) (View, bool) {
	p, err := s.path(filePath)
	if err != nil {
		return View{}, false
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return View{}, false
	}
	var v View
	if err := yaml.Unmarshal(b, &v); err != nil {
		logx.Warnf("state: ignoring unreadable %s: %v", p, err)
		return View{}, false
	}
	return v, true
}

// Save writes the view for filePath atomically.
func (s Store) Save(filePath string, v View) error {
	p, err := s.path(filePath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(&v)
	if err != nil {
		return err
	}
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, p); err != nil {
		return err
	}
	logx.Infof("state: view saved to %s", p)
	return nil
}
