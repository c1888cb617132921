package practice

import "github.com/charmbracelet/lipgloss"

// Theme defines all colors used by the practice TUI.
// Use DarkTheme() or LightTheme() to get a pre-built theme,
// or construct a custom Theme.
type Theme struct {
	Primary   lipgloss.Color // title, current question number
	Secondary lipgloss.Color // question text
	Accent    lipgloss.Color // panel borders
	Error     lipgloss.Color // failures, "Needs Work"
	Warning   lipgloss.Color // "Average", busy indicator
	Success   lipgloss.Color // "Excellent"
	Info      lipgloss.Color // "Good", key points
	Text      lipgloss.Color // primary text
	TextMuted lipgloss.Color // hints, secondary text
	Border    lipgloss.Color // separators
}

// DarkTheme returns the default dark theme.
func DarkTheme() Theme {
	return Theme{
		Primary:   lipgloss.Color("#fab283"),
		Secondary: lipgloss.Color("#5c9cf5"),
		Accent:    lipgloss.Color("#9d7cd8"),
		Error:     lipgloss.Color("#e06c75"),
		Warning:   lipgloss.Color("#f5a742"),
		Success:   lipgloss.Color("#7fd88f"),
		Info:      lipgloss.Color("#56b6c2"),
		Text:      lipgloss.Color("#eeeeee"),
		TextMuted: lipgloss.Color("#808080"),
		Border:    lipgloss.Color("#484848"),
	}
}

// LightTheme returns a light theme for bright terminal backgrounds.
func LightTheme() Theme {
	return Theme{
		Primary:   lipgloss.Color("#b35c00"),
		Secondary: lipgloss.Color("#0550ae"),
		Accent:    lipgloss.Color("#6639ba"),
		Error:     lipgloss.Color("#cf222e"),
		Warning:   lipgloss.Color("#bf8700"),
		Success:   lipgloss.Color("#116329"),
		Info:      lipgloss.Color("#0969da"),
		Text:      lipgloss.Color("#1f2328"),
		TextMuted: lipgloss.Color("#656d76"),
		Border:    lipgloss.Color("#d0d7de"),
	}
}

// ThemeByName returns a theme by name. Defaults to dark.
func ThemeByName(name string) Theme {
	switch name {
	case "light":
		return LightTheme()
	default:
		return DarkTheme()
	}
}

// styles holds all lipgloss styles derived from a Theme.
type styles struct {
	title    lipgloss.Style
	header   lipgloss.Style
	question lipgloss.Style
	panel    lipgloss.Style
	err      lipgloss.Style
	busy     lipgloss.Style
	dim      lipgloss.Style
	text     lipgloss.Style
	point    lipgloss.Style

	// Score bands
	excellent lipgloss.Style
	good      lipgloss.Style
	average   lipgloss.Style
	poor      lipgloss.Style

	// Hints
	hintKey  lipgloss.Style
	hintDesc lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		header:   lipgloss.NewStyle().Foreground(t.Border),
		question: lipgloss.NewStyle().Bold(true).Foreground(t.Secondary),
		panel:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(t.Accent).Padding(0, 1),
		err:      lipgloss.NewStyle().Foreground(t.Error),
		busy:     lipgloss.NewStyle().Foreground(t.Warning),
		dim:      lipgloss.NewStyle().Foreground(t.TextMuted),
		text:     lipgloss.NewStyle().Foreground(t.Text),
		point:    lipgloss.NewStyle().Foreground(t.Info),

		excellent: lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		good:      lipgloss.NewStyle().Bold(true).Foreground(t.Info),
		average:   lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		poor:      lipgloss.NewStyle().Bold(true).Foreground(t.Error),

		hintKey:  lipgloss.NewStyle().Foreground(t.Text),
		hintDesc: lipgloss.NewStyle().Foreground(t.TextMuted),
	}
}

// scoreStyle picks the style for a score's band.
func (s styles) scoreStyle(score int) lipgloss.Style {
	switch {
	case score >= 85:
		return s.excellent
	case score >= 70:
		return s.good
	case score >= 50:
		return s.average
	default:
		return s.poor
	}
}
