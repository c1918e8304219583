package ui

import (
	"github.com/charmbracelet/lipgloss"

	"showcase/internal/render"
)

// Theme colors used throughout the UI
const (
	ColorAccent    = "86"  // Cyan/green - titles, highlights
	ColorHighlight = "205" // Magenta - focused controls, borders
	ColorDanger    = "196" // Red - error banners
	ColorMuted     = "241" // Gray - hints, captions
	ColorText      = "252" // Light gray - normal text
	ColorWarning   = "208" // Orange - warning banners
	ColorSuccess   = "42"  // Green - success banners
	ColorInfo      = "39"  // Blue - info banners
	ColorSeriesA   = "33"  // First chart series
	ColorSeriesB   = "203" // Second chart series
)

// SeriesColors assigns chart series colors in order.
var SeriesColors = []string{ColorSeriesA, ColorSeriesB, ColorAccent, ColorWarning}

// Styles contains shared style definitions used by the page painter and modals.
var Styles = struct {
	Heading   lipgloss.Style // Page heading
	Header    lipgloss.Style // Section header
	Subheader lipgloss.Style // Section subheader
	Normal    lipgloss.Style // Plain text
	Muted     lipgloss.Style // Dimmed text
	Caption   lipgloss.Style // Footer caption
	Hint      lipgloss.Style // Key hints

	TabActive   lipgloss.Style
	TabInactive lipgloss.Style

	Sidebar lipgloss.Style // Sidebar box
	Focused lipgloss.Style // Focused control marker and label
	Value   lipgloss.Style // Current control value
	Status  lipgloss.Style // Status line
	Error   lipgloss.Style // Status line errors

	Box         lipgloss.Style // Modal box
	BoxDanger   lipgloss.Style // Warning modal box
	Title       lipgloss.Style // Modal title
	TitleDanger lipgloss.Style
	Details     lipgloss.Style

	Banners map[render.Severity]lipgloss.Style
}{
	Heading: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent)),
	Header: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorText)).
		MarginTop(1),
	Subheader: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorText)),
	Muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Caption: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)).
		Italic(true),
	Hint: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	TabActive: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorHighlight)).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color(ColorHighlight)).
		Padding(0, 1),
	TabInactive: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)).
		Border(lipgloss.HiddenBorder(), false, false, true, false).
		Padding(0, 1),
	Sidebar: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder(), false, true, false, false).
		BorderForeground(lipgloss.Color(ColorMuted)).
		Padding(0, 1),
	Focused: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorHighlight)),
	Value: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccent)),
	Status: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccent)),
	Error: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorDanger)),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorHighlight)).
		Padding(1, 2).
		Margin(1),
	BoxDanger: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorDanger)).
		Padding(1, 2).
		Margin(1),
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent)),
	TitleDanger: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorDanger)),
	Details: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorWarning)),
	Banners: map[render.Severity]lipgloss.Style{
		render.SeverityInfo:    bannerStyle(ColorInfo),
		render.SeveritySuccess: bannerStyle(ColorSuccess),
		render.SeverityWarning: bannerStyle(ColorWarning),
		render.SeverityError:   bannerStyle(ColorDanger),
	},
}

func bannerStyle(color string) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(color)).
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(lipgloss.Color(color)).
		Padding(0, 1)
}

// bannerIcons prefix banner text so severity survives without color.
var bannerIcons = map[render.Severity]string{
	render.SeverityInfo:    "ℹ",
	render.SeveritySuccess: "✔",
	render.SeverityWarning: "⚠",
	render.SeverityError:   "✖",
}
