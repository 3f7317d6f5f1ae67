package theme

import "github.com/charmbracelet/lipgloss/v2"

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Header  HeaderTheme
	Tabs    TabTheme
	Section SectionTheme
	Row     RowTheme
	Footer  FooterTheme
	Modal   ModalTheme
}

// HeaderTheme styles the title block and stats bar.
type HeaderTheme struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Stat     lipgloss.Style
	StatNum  lipgloss.Style
}

// TabTheme styles the tab strip.
type TabTheme struct {
	Active   lipgloss.Style
	Inactive lipgloss.Style
}

// SectionTheme styles section headings and empty states.
type SectionTheme struct {
	Title lipgloss.Style
	Empty lipgloss.Style
}

// RowTheme styles list rows.
type RowTheme struct {
	Selected  lipgloss.Style
	Normal    lipgloss.Style
	Done      lipgloss.Style
	Meta      lipgloss.Style
	Badge     lipgloss.Style
	Auto      lipgloss.Style
	DayHeader lipgloss.Style
}

// FooterTheme groups styles used by the bottom status bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
}

// ModalTheme styles centered overlays (forms and confirmations).
type ModalTheme struct {
	Frame   lipgloss.Style
	Title   lipgloss.Style
	Label   lipgloss.Style
	Focused lipgloss.Style
	Error   lipgloss.Style
	Help    lipgloss.Style
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	accent := lipgloss.Color("212")
	muted := lipgloss.Color("244")

	return Theme{
		Header: HeaderTheme{
			Title:    lipgloss.NewStyle().Foreground(accent).Bold(true),
			Subtitle: lipgloss.NewStyle().Foreground(muted),
			Stat:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			StatNum:  lipgloss.NewStyle().Bold(true),
		},
		Tabs: TabTheme{
			Active: lipgloss.NewStyle().
				Foreground(accent).
				Bold(true).
				Underline(true).
				Padding(0, 1),
			Inactive: lipgloss.NewStyle().
				Foreground(muted).
				Padding(0, 1),
		},
		Section: SectionTheme{
			Title: lipgloss.NewStyle().Bold(true),
			Empty: lipgloss.NewStyle().Foreground(muted).Italic(true),
		},
		Row: RowTheme{
			Selected:  lipgloss.NewStyle().Foreground(accent).Bold(true),
			Normal:    lipgloss.NewStyle(),
			Done:      lipgloss.NewStyle().Foreground(muted).Strikethrough(true),
			Meta:      lipgloss.NewStyle().Foreground(muted),
			Badge:     lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
			Auto:      lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Italic(true),
			DayHeader: lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true),
		},
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
			Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		},
		Modal: ModalTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(accent).
				Padding(1, 2),
			Title:   lipgloss.NewStyle().Bold(true),
			Label:   lipgloss.NewStyle().Foreground(muted),
			Focused: lipgloss.NewStyle().Foreground(accent).Bold(true),
			Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
			Help:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		},
	}
}
