package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the colour scheme for terminal output
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Low     lipgloss.Color
	Mid     lipgloss.Color
	High    lipgloss.Color
	Error   lipgloss.Color
}

var (
	// ThemeViridis follows the figure colour map
	ThemeViridis = Theme{
		Name:    "viridis",
		Primary: lipgloss.Color("#35b779"),
		Accent:  lipgloss.Color("#fde725"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#666688"),
		Low:     lipgloss.Color("#3e4989"),
		Mid:     lipgloss.Color("#1f9e89"),
		High:    lipgloss.Color("#b5de2b"),
		Error:   lipgloss.Color("#ff4444"),
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Primary: lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#0088ff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Low:     lipgloss.Color("#888888"),
		Mid:     lipgloss.Color("#cccccc"),
		High:    lipgloss.Color("#ffffff"),
		Error:   lipgloss.Color("#ff0000"),
	}

	CurrentTheme = ThemeViridis

	Themes = []Theme{ThemeViridis, ThemeMinimal}
)

// GetTheme returns a theme by name, falling back to viridis
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeViridis
}

// SetTheme changes the current theme and rebuilds the shared styles
func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
	applyTheme(CurrentTheme)
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
