package tui

import (
	"github.com/charmbracelet/lipgloss"

	"loandash/internal/models"
)

var (
	accent = lipgloss.AdaptiveColor{Light: "#005577", Dark: "#00aadd"}
	muted  = lipgloss.AdaptiveColor{Light: "#626262", Dark: "#a8a8a8"}

	menuItemStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.AdaptiveColor{Light: "#262626", Dark: "#d9d9d9"})

	selectedMenuItemStyle = menuItemStyle.Copy().
				Foreground(lipgloss.AdaptiveColor{Light: "#ffffff", Dark: "#000000"}).
				Background(accent).
				Bold(true)

	mutedStyle = lipgloss.NewStyle().Foreground(muted)

	formStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1)

	dropdownStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(accent)

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#262626", Dark: "#d9d9d9"})

	focusedInputStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#d33682", Dark: "#ff79c6"}).
				Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#859900", Dark: "#50fa7b"}).
			Bold(true)

	progressStyle = lipgloss.NewStyle().
			Margin(1, 0, 0, 0)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#b58900", Dark: "#f1fa8c"}).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#dc322f", Dark: "#ff5555"}).
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(accent).
			Bold(true).
			Underline(true)

	rowStyle    = lipgloss.NewStyle()
	altRowStyle = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#f0f0f0", Dark: "#262626"})

	scrollTrackStyle = lipgloss.NewStyle().Foreground(muted)
	scrollThumbStyle = lipgloss.NewStyle().Foreground(accent)

	statusStyles = map[models.Status]lipgloss.Style{
		models.StatusPending:   lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#b58900", Dark: "#f1fa8c"}),
		models.StatusApproved:  lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#859900", Dark: "#50fa7b"}),
		models.StatusRejected:  lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#dc322f", Dark: "#ff5555"}),
		models.StatusDefaulted: lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6c71c4", Dark: "#bd93f9"}),
		models.StatusPaid:      lipgloss.NewStyle().Foreground(accent),
	}
)

// GetAdaptiveStyles returns styles that adapt to terminal width
func GetAdaptiveStyles(width, height int) (titleStyle, formStyle, helpStyle lipgloss.Style) {
	maxWidth := width - 4 // Leave some margin
	if maxWidth < 20 {
		maxWidth = 0
	}

	adaptiveTitleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#1a1a1a", Dark: "#dddddd"}).
		Bold(true).
		Margin(1, 0, 1, 0).
		Width(maxWidth)

	adaptiveFormStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1).
		Width(maxWidth)

	adaptiveHelpStyle := lipgloss.NewStyle().
		Foreground(muted).
		Margin(1, 0, 0, 0).
		Width(maxWidth)

	return adaptiveTitleStyle, adaptiveFormStyle, adaptiveHelpStyle
}

func statusStyle(s models.Status) lipgloss.Style {
	if st, ok := statusStyles[s]; ok {
		return st
	}
	return rowStyle
}
