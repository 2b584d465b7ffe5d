package tui

import "github.com/charmbracelet/lipgloss"

const (
	colorError    = "203"
	colorWarn     = "220"
	colorInfo     = "117"
	colorDebug    = "244"
	colorAccent   = "33"
	colorSubtle   = "244"
	colorSelBG    = "25"
	colorSelFG    = "230"
	colorStatusBG = "236"
)

// Styles holds the lipgloss styles for the explorer view.
type Styles struct {
	Header     lipgloss.Style
	FileName   lipgloss.Style
	FilterTag  lipgloss.Style
	Focused    lipgloss.Style
	Timestamp  lipgloss.Style
	Category   lipgloss.Style
	Expanded   lipgloss.Style
	StatusBar  lipgloss.Style
	ErrorText  lipgloss.Style
	EmptyText  lipgloss.Style
	LevelBadge map[string]lipgloss.Style
}

// NewStyles builds the default style set.
func NewStyles() Styles {
	badge := func(color string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
	}
	return Styles{
		Header:    lipgloss.NewStyle().Foreground(lipgloss.Color(colorAccent)).Bold(true),
		FileName:  lipgloss.NewStyle().Foreground(lipgloss.Color(colorSelFG)),
		FilterTag: lipgloss.NewStyle().Foreground(lipgloss.Color(colorWarn)),
		Focused:   lipgloss.NewStyle().Background(lipgloss.Color(colorSelBG)).Foreground(lipgloss.Color(colorSelFG)),
		Timestamp: lipgloss.NewStyle().Foreground(lipgloss.Color(colorSubtle)),
		Category:  lipgloss.NewStyle().Foreground(lipgloss.Color(colorInfo)),
		Expanded:  lipgloss.NewStyle().Foreground(lipgloss.Color(colorSubtle)).PaddingLeft(4),
		StatusBar: lipgloss.NewStyle().Background(lipgloss.Color(colorStatusBG)).Foreground(lipgloss.Color(colorSelFG)),
		ErrorText: lipgloss.NewStyle().Foreground(lipgloss.Color(colorError)).Bold(true),
		EmptyText: lipgloss.NewStyle().Foreground(lipgloss.Color(colorSubtle)).Italic(true),
		LevelBadge: map[string]lipgloss.Style{
			"ERROR":    badge(colorError),
			"CRITICAL": badge(colorError),
			"WARNING":  badge(colorWarn),
			"WARN":     badge(colorWarn),
			"INFO":     badge(colorInfo),
			"DEBUG":    badge(colorDebug),
		},
	}
}

// Level returns the badge style for a level tag, falling back to debug grey.
func (s Styles) Level(level string) lipgloss.Style {
	if st, ok := s.LevelBadge[level]; ok {
		return st
	}
	return s.LevelBadge["DEBUG"]
}
