package ui

import tea "github.com/charmbracelet/bubbletea"

type KeyMap struct {
	Filter       tea.Key
	FilterColumn tea.Key
	ClearFilter  tea.Key
	EditedOnly   tea.Key
	Palette      tea.Key
	PaletteAlt   tea.Key
	Edit         tea.Key
	Toggle       tea.Key
	Freeze       tea.Key
	Sort         tea.Key
	IncColWidth  tea.Key
	DecColWidth  tea.Key
	MoveColLeft  tea.Key
	MoveColRight tea.Key
	ScrollLeft   tea.Key
	ScrollRight  tea.Key
	Copy         tea.Key
	Export       tea.Key
	Save         tea.Key
	Top          tea.Key
	Bottom       tea.Key
	AppLogs      tea.Key
	Help         tea.Key
	Quit         tea.Key
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Filter:       tea.Key{Type: tea.KeyRunes, Runes: []rune{'/'}},
		FilterColumn: tea.Key{Type: tea.KeyRunes, Runes: []rune{'f'}},
		ClearFilter:  tea.Key{Type: tea.KeyRunes, Runes: []rune{'F'}},
		EditedOnly:   tea.Key{Type: tea.KeyRunes, Runes: []rune{'E'}},
		Palette:      tea.Key{Type: tea.KeyRunes, Runes: []rune{':'}},
		PaletteAlt:   tea.Key{Type: tea.KeyCtrlP},
		Edit:         tea.Key{Type: tea.KeyEnter},
		Toggle:       tea.Key{Type: tea.KeyRunes, Runes: []rune{' '}},
		Freeze:       tea.Key{Type: tea.KeyRunes, Runes: []rune{'z'}},
		Sort:         tea.Key{Type: tea.KeyRunes, Runes: []rune{'s'}},
		IncColWidth:  tea.Key{Type: tea.KeyRunes, Runes: []rune{']'}},
		DecColWidth:  tea.Key{Type: tea.KeyRunes, Runes: []rune{'['}},
		MoveColLeft:  tea.Key{Type: tea.KeyRunes, Runes: []rune{'<'}},
		MoveColRight: tea.Key{Type: tea.KeyRunes, Runes: []rune{'>'}},
		ScrollLeft:   tea.Key{Type: tea.KeyRunes, Runes: []rune{'{'}},
		ScrollRight:  tea.Key{Type: tea.KeyRunes, Runes: []rune{'}'}},
		Copy:         tea.Key{Type: tea.KeyRunes, Runes: []rune{'c'}},
		Export:       tea.Key{Type: tea.KeyRunes, Runes: []rune{'e'}},
		Save:         tea.Key{Type: tea.KeyCtrlS},
		Top:          tea.Key{Type: tea.KeyRunes, Runes: []rune{'g'}},
		Bottom:       tea.Key{Type: tea.KeyRunes, Runes: []rune{'G'}},
		AppLogs:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'L'}},
		Help:         tea.Key{Type: tea.KeyRunes, Runes: []rune{'?'}},
		Quit:         tea.Key{Type: tea.KeyRunes, Runes: []rune{'q'}},
	}
}

func keyMatches(msg tea.KeyMsg, k tea.Key) bool {
	if k.Type != tea.KeyRunes {
		return msg.Type == k.Type
	}
	if len(k.Runes) > 0 {
		return msg.String() == string(k.Runes)
	}
	return false
}
