package viz

import "github.com/charmbracelet/lipgloss"

// Theme colours the TUI chrome. Match and Diff tint panel borders.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Match   lipgloss.Color
	Diff    lipgloss.Color
	Rows    [3]lipgloss.Color
}

var (
	ThemeDefault = Theme{
		Name:    "default",
		Primary: lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#00aaff"),
		Text:    lipgloss.Color("#dddddd"),
		Muted:   lipgloss.Color("#777777"),
		Match:   lipgloss.Color("#00ff00"),
		Diff:    lipgloss.Color("#ffff00"),
		Rows:    [3]lipgloss.Color{"#ff0000", "#00ff00", "#0000ff"},
	}

	ThemeRetro = Theme{
		Name:    "retro",
		Primary: lipgloss.Color("#00ff00"), // green phosphor
		Accent:  lipgloss.Color("#88ff88"),
		Text:    lipgloss.Color("#00dd00"),
		Muted:   lipgloss.Color("#005500"),
		Match:   lipgloss.Color("#88ff88"),
		Diff:    lipgloss.Color("#ffff00"),
		Rows:    [3]lipgloss.Color{"#00ff00", "#00cc00", "#009900"},
	}

	ThemeOcean = Theme{
		Name:    "ocean",
		Primary: lipgloss.Color("#e0f0ff"),
		Accent:  lipgloss.Color("#00a8cc"),
		Text:    lipgloss.Color("#c0e0ff"),
		Muted:   lipgloss.Color("#4488aa"),
		Match:   lipgloss.Color("#00ff88"),
		Diff:    lipgloss.Color("#ffcc00"),
		Rows:    [3]lipgloss.Color{"#ff6b6b", "#00ff88", "#0077be"},
	}

	ThemeSunset = Theme{
		Name:    "sunset",
		Primary: lipgloss.Color("#fff5f5"),
		Accent:  lipgloss.Color("#ff9ff3"),
		Text:    lipgloss.Color("#ffe0e0"),
		Muted:   lipgloss.Color("#8b6b8c"),
		Match:   lipgloss.Color("#5fd068"),
		Diff:    lipgloss.Color("#ffc048"),
		Rows:    [3]lipgloss.Color{"#ff4757", "#5fd068", "#6b9bff"},
	}

	Themes = []Theme{
		ThemeDefault,
		ThemeRetro,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns the named theme, or the default one.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeDefault
}

func themeIndex(name string) int {
	for i, t := range Themes {
		if t.Name == name {
			return i
		}
	}
	return 0
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
