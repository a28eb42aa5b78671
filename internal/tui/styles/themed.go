package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/kanban/internal/task"
)

// ThemedStyles contains all the lipgloss styles built from a color palette.
// A new value is built whenever the theme changes.
type ThemedStyles struct {
	Name    ThemeName
	Palette *ColorPalette

	// Convenience styles for colors
	Primary lipgloss.Style
	Muted   lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Text    lipgloss.Style

	// Board chrome
	Title  lipgloss.Style
	Header lipgloss.Style

	// Columns
	Column        lipgloss.Style
	ColumnFocused lipgloss.Style
	ColumnTitle   lipgloss.Style
	ColumnCount   lipgloss.Style
	Empty         lipgloss.Style

	// Cards
	Card            lipgloss.Style
	CardSelected    lipgloss.Style
	CardDescription lipgloss.Style

	// Banners and overlays
	ErrorBanner lipgloss.Style
	Busy        lipgloss.Style
	Dialog      lipgloss.Style

	// Form
	FormLabel        lipgloss.Style
	FormLabelFocused lipgloss.Style
	StageOption      lipgloss.Style
	StageSelected    lipgloss.Style

	// Help bar
	HelpBar lipgloss.Style
	HelpKey lipgloss.Style
}

// NewThemedStyles builds every style from palette p.
func NewThemedStyles(name ThemeName, p *ColorPalette) *ThemedStyles {
	return &ThemedStyles{
		Name:    name,
		Palette: p,

		Primary: lipgloss.NewStyle().Foreground(p.Primary),
		Muted:   lipgloss.NewStyle().Foreground(p.Muted),
		Error:   lipgloss.NewStyle().Foreground(p.Error),
		Warning: lipgloss.NewStyle().Foreground(p.Warning),
		Text:    lipgloss.NewStyle().Foreground(p.Text),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Primary),

		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Primary).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(p.Border).
			MarginBottom(1),

		Column: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 1),

		ColumnFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Primary).
			Padding(0, 1),

		ColumnTitle: lipgloss.NewStyle().
			Bold(true),

		ColumnCount: lipgloss.NewStyle().
			Foreground(p.Muted),

		Empty: lipgloss.NewStyle().
			Foreground(p.Muted).
			Italic(true),

		Card: lipgloss.NewStyle().
			Foreground(p.Text).
			PaddingLeft(1).
			MarginBottom(1),

		CardSelected: lipgloss.NewStyle().
			Foreground(p.Text).
			Background(p.Surface).
			Bold(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderLeft(true).
			BorderForeground(p.Primary).
			MarginBottom(1),

		CardDescription: lipgloss.NewStyle().
			Foreground(p.Muted),

		ErrorBanner: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Error).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(p.Error).
			PaddingLeft(1),

		Busy: lipgloss.NewStyle().
			Foreground(p.Secondary),

		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Warning).
			Padding(1, 2),

		FormLabel: lipgloss.NewStyle().
			Foreground(p.Muted),

		FormLabelFocused: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Primary),

		StageOption: lipgloss.NewStyle().
			Foreground(p.Muted).
			Padding(0, 1),

		StageSelected: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Surface).
			Background(p.Primary).
			Padding(0, 1),

		HelpBar: lipgloss.NewStyle().
			Foreground(p.Muted).
			MarginTop(1),

		HelpKey: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Secondary),
	}
}

// ForTheme builds the styles for a named theme.
func ForTheme(name string) *ThemedStyles {
	n := ThemeName(name)
	if !IsValidTheme(name) {
		n = ThemeDefault
	}
	return NewThemedStyles(n, GetPalette(n))
}

// StageColor returns the accent color of a column.
func (s *ThemedStyles) StageColor(stage task.Stage) lipgloss.Color {
	switch stage {
	case task.StageTodo:
		return s.Palette.StageTodo
	case task.StageInProgress:
		return s.Palette.StageInProgress
	case task.StageDone:
		return s.Palette.StageDone
	default:
		return s.Palette.Muted
	}
}
