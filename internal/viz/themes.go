package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the colors of the live view.
type Theme struct {
	Name   string
	Bodies lipgloss.Color
	Accent lipgloss.Color
	Text   lipgloss.Color
	Muted  lipgloss.Color
	Good   lipgloss.Color
	Warn   lipgloss.Color
	Bad    lipgloss.Color
}

var (
	ThemeDeepSpace = Theme{
		Name:   "deepspace",
		Bodies: lipgloss.Color("#e0f0ff"),
		Accent: lipgloss.Color("#00ffff"),
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#666688"),
		Good:   lipgloss.Color("#00ff88"),
		Warn:   lipgloss.Color("#ffaa00"),
		Bad:    lipgloss.Color("#ff4444"),
	}

	ThemeRetroGreen = Theme{
		Name:   "retro",
		Bodies: lipgloss.Color("#00ff00"),
		Accent: lipgloss.Color("#88ff88"),
		Text:   lipgloss.Color("#00ff00"),
		Muted:  lipgloss.Color("#005500"),
		Good:   lipgloss.Color("#88ff88"),
		Warn:   lipgloss.Color("#ffff00"),
		Bad:    lipgloss.Color("#ff0000"),
	}

	ThemeSunset = Theme{
		Name:   "sunset",
		Bodies: lipgloss.Color("#feca57"),
		Accent: lipgloss.Color("#ff9ff3"),
		Text:   lipgloss.Color("#fff5f5"),
		Muted:  lipgloss.Color("#8b6b8c"),
		Good:   lipgloss.Color("#5fd068"),
		Warn:   lipgloss.Color("#ffc048"),
		Bad:    lipgloss.Color("#ff4757"),
	}

	Themes = []Theme{ThemeDeepSpace, ThemeRetroGreen, ThemeSunset}
)

// GetTheme returns a theme by name, falling back to the first one.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

func nextTheme(current Theme) Theme {
	for i, t := range Themes {
		if t.Name == current.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}
