package styles

import (
	"slices"

	"github.com/charmbracelet/lipgloss"
)

// ThemeName represents a named color theme.
type ThemeName string

// Available theme names.
const (
	ThemeDefault ThemeName = "default" // Purple/green dark theme
	ThemeNord    ThemeName = "nord"    // Nord theme - cool blue-gray
	ThemeDracula ThemeName = "dracula" // Dracula theme colors
	ThemeMono    ThemeName = "mono"    // Grayscale, for terminals with poor color support
)

// AvailableThemes returns all theme names.
func AvailableThemes() []string {
	return []string{
		string(ThemeDefault),
		string(ThemeNord),
		string(ThemeDracula),
		string(ThemeMono),
	}
}

// IsValidTheme checks if a theme name is known.
func IsValidTheme(name string) bool {
	return slices.Contains(AvailableThemes(), name)
}

// ColorPalette defines the color scheme for a theme.
type ColorPalette struct {
	// Primary accent color (focused column, titles)
	Primary lipgloss.Color
	// Secondary accent color (help keys, success)
	Secondary lipgloss.Color
	// Warning color (confirmation dialogs)
	Warning lipgloss.Color
	// Error color (error banner)
	Error lipgloss.Color
	// Muted color (descriptions, placeholders)
	Muted lipgloss.Color
	// Surface color (selected card background)
	Surface lipgloss.Color
	// Text color (primary text)
	Text lipgloss.Color
	// Border color (unfocused columns)
	Border lipgloss.Color

	// Per-stage accents for column headers
	StageTodo       lipgloss.Color
	StageInProgress lipgloss.Color
	StageDone       lipgloss.Color
}

// DefaultPalette returns the default purple/green dark theme palette.
func DefaultPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#A78BFA"), // Purple (violet-400)
		Secondary: lipgloss.Color("#10B981"), // Green
		Warning:   lipgloss.Color("#F59E0B"), // Amber
		Error:     lipgloss.Color("#F87171"), // Red (red-400)
		Muted:     lipgloss.Color("#9CA3AF"), // Gray
		Surface:   lipgloss.Color("#1F2937"), // Dark surface
		Text:      lipgloss.Color("#F9FAFB"), // Light text
		Border:    lipgloss.Color("#6B7280"), // Gray-500

		StageTodo:       lipgloss.Color("#60A5FA"), // Blue
		StageInProgress: lipgloss.Color("#F59E0B"), // Amber
		StageDone:       lipgloss.Color("#10B981"), // Green
	}
}

// NordPalette returns the Nord theme palette.
func NordPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#88C0D0"), // Nord frost (cyan)
		Secondary: lipgloss.Color("#A3BE8C"), // Nord aurora green
		Warning:   lipgloss.Color("#EBCB8B"), // Nord aurora yellow
		Error:     lipgloss.Color("#BF616A"), // Nord aurora red
		Muted:     lipgloss.Color("#4C566A"), // Nord polar night 3
		Surface:   lipgloss.Color("#2E3440"), // Nord polar night 0
		Text:      lipgloss.Color("#ECEFF4"), // Nord snow storm 2
		Border:    lipgloss.Color("#3B4252"), // Nord polar night 1

		StageTodo:       lipgloss.Color("#81A1C1"), // Frost blue
		StageInProgress: lipgloss.Color("#D08770"), // Aurora orange
		StageDone:       lipgloss.Color("#A3BE8C"), // Aurora green
	}
}

// DraculaPalette returns the Dracula theme palette.
func DraculaPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#BD93F9"), // Dracula purple
		Secondary: lipgloss.Color("#50FA7B"), // Dracula green
		Warning:   lipgloss.Color("#F1FA8C"), // Dracula yellow
		Error:     lipgloss.Color("#FF5555"), // Dracula red
		Muted:     lipgloss.Color("#6272A4"), // Dracula comment
		Surface:   lipgloss.Color("#282A36"), // Dracula background
		Text:      lipgloss.Color("#F8F8F2"), // Dracula foreground
		Border:    lipgloss.Color("#44475A"), // Dracula selection

		StageTodo:       lipgloss.Color("#8BE9FD"), // Cyan
		StageInProgress: lipgloss.Color("#FFB86C"), // Orange
		StageDone:       lipgloss.Color("#50FA7B"), // Green
	}
}

// MonoPalette returns a grayscale palette.
func MonoPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#FFFFFF"),
		Secondary: lipgloss.Color("#D4D4D4"),
		Warning:   lipgloss.Color("#E5E5E5"),
		Error:     lipgloss.Color("#FFFFFF"),
		Muted:     lipgloss.Color("#8A8A8A"),
		Surface:   lipgloss.Color("#303030"),
		Text:      lipgloss.Color("#F5F5F5"),
		Border:    lipgloss.Color("#6E6E6E"),

		StageTodo:       lipgloss.Color("#BDBDBD"),
		StageInProgress: lipgloss.Color("#E0E0E0"),
		StageDone:       lipgloss.Color("#FFFFFF"),
	}
}

// GetPalette returns the color palette for the given theme name.
// Returns the default palette for unknown theme names.
func GetPalette(name ThemeName) *ColorPalette {
	switch name {
	case ThemeNord:
		return NordPalette()
	case ThemeDracula:
		return DraculaPalette()
	case ThemeMono:
		return MonoPalette()
	default:
		return DefaultPalette()
	}
}
