package ui

import "github.com/charmbracelet/lipgloss"

type Styles struct {
	Base        lipgloss.Style
	Status      lipgloss.Style
	Help        lipgloss.Style
	Error       lipgloss.Style
	PopupBox    lipgloss.Style
	PopupTitle  lipgloss.Style
	Match       lipgloss.Style // matched characters in palette labels
	PaletteSel  lipgloss.Style
	Divider     lipgloss.Style // frozen pane header
	TableStyles TableStyles
}

type TableStyles struct {
	Header   lipgloss.Style
	Cell     lipgloss.Style
	Selected lipgloss.Style
}

func NewStyles(dark bool) Styles {
	s := Styles{}
	if dark {
		s.Base = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
		s.Status = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
		s.Help = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
		s.Error = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
		s.PopupBox = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("60")).Padding(1, 2)
		s.PopupTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
		s.Match = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
		s.PaletteSel = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("81"))
		s.Divider = lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	} else {
		s.Base = lipgloss.NewStyle()
		s.Status = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.Help = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.Error = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
		s.PopupBox = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("12")).Padding(1, 2)
		s.PopupTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("27"))
		s.Match = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("27"))
		s.PaletteSel = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("27"))
		s.Divider = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	}
	s.TableStyles = TableStyles{
		Header:   lipgloss.NewStyle().Bold(true).PaddingRight(1),
		Cell:     lipgloss.NewStyle().PaddingRight(1),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("220")),
	}
	return s
}
