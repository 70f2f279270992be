package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"packgrid/internal/config"
	"packgrid/internal/edit"
	"packgrid/internal/filter"
	"packgrid/internal/frozen"
	"packgrid/internal/ingest"
	"packgrid/internal/model"
	"packgrid/internal/palette"
	"packgrid/internal/parse"
	"packgrid/internal/state"
)

type modalKind int

const (
	modalNone modalKind = iota
	modalHelp
	modalLogs
	modalPalette
	modalEditor
)

type inlineMode int

const (
	inlineNone inlineMode = iota
	inlineFilter
	inlineEdit
)

type Model struct {
	ctx context.Context
	cfg *config.Config
	// cancel function for the running ingest stream
	ingestCancel context.CancelFunc

	// Pipeline
	feed    *ingest.Feed
	lines   <-chan ingest.Line
	errs    <-chan error
	decoder *parse.Decoder

	// Data
	table   *model.Table
	rows    *filter.RowFilter
	split   *frozen.Split
	catalog *palette.Catalog
	pal     *palette.Palette
	store   state.Store

	// Filter line and its options
	filterText    string
	criteria      []filter.Criteria
	caseSensitive bool
	showBlank     bool
	invert        bool
	editedOnly    bool
	// restored when an inline filter edit is cancelled
	prevFilter string

	// UI
	styles     Styles
	keymap     KeyMap
	frozenTbl  table.Model
	scrollTbl  table.Model
	input      textinput.Model // filter line
	cellInput  textinput.Model // inline cell editor
	palInput   textinput.Model
	palSel     int
	area       textarea.Model // long text editor
	session    *edit.Session
	termWidth  int
	termHeight int

	// status
	source   string
	follow   bool
	lastMsg  string
	appended int
	rejected int

	// Modal popup
	modalActive bool
	modalKind   modalKind
	modalVP     viewport.Model
	modalTitle  string
	modalBody   string

	// Help menu state
	helpItems []helpItem
	helpSel   int

	inlineMode inlineMode

	// command produced by a palette dispatch, returned from Update
	pending tea.Cmd
}

type tickMsg struct{}

type paletteResultMsg struct{ res palette.Computed }

type helpItem struct {
	group string
	text  string
	key   tea.Key
}

func keyCmd(k tea.Key) tea.Cmd {
	return func() tea.Msg {
		if k.Type == tea.KeyRunes {
			return tea.KeyMsg{Type: k.Type, Runes: k.Runes}
		}
		return tea.KeyMsg{Type: k.Type}
	}
}

func keyLabel(k tea.Key) string {
	switch k.Type {
	case tea.KeyRunes:
		if len(k.Runes) == 1 {
			r := k.Runes[0]
			if r == ' ' {
				return "space"
			}
			return string(r)
		}
		return strings.ToLower(string(k.Runes))
	case tea.KeyEnter:
		return "enter"
	case tea.KeyEsc:
		return "esc"
	case tea.KeyLeft:
		return "left"
	case tea.KeyRight:
		return "right"
	case tea.KeyUp:
		return "up"
	case tea.KeyDown:
		return "down"
	case tea.KeyPgUp:
		return "pgup"
	case tea.KeyPgDown:
		return "pgdown"
	default:
		return strings.ToLower(k.String())
	}
}
