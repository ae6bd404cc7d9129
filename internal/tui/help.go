package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type action int

const (
	actionBack action = iota
	actionRefresh
	actionClear
	actionQuit
)

// ActionMsg asks the dashboard to perform an action picked on the help screen.
type ActionMsg struct {
	Action action
}

type HelpModel struct {
	choices []string
	cursor  int
	keys    keyMap
	help    help.Model
	width   int
	height  int
}

func NewHelpModel() *HelpModel {
	h := help.New()
	h.ShowAll = true
	return &HelpModel{
		choices: []string{
			"📋 Back to loans",
			"🔄 Reload current page",
			"🧹 Clear all filters",
			"🚪 Exit",
		},
		keys: defaultKeyMap(),
		help: h,
	}
}

func (m *HelpModel) Init() tea.Cmd {
	return nil
}

func (m *HelpModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width
}

func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.choices)-1 {
				m.cursor++
			}
		case "enter", " ":
			return m, m.handleSelection()
		}
	}
	return m, nil
}

func (m *HelpModel) handleSelection() tea.Cmd {
	switch action(m.cursor) {
	case actionBack:
		return ChangeScreen(DashboardScreen)
	case actionRefresh, actionClear:
		a := action(m.cursor)
		return tea.Sequence(ChangeScreen(DashboardScreen), func() tea.Msg { return ActionMsg{Action: a} })
	case actionQuit:
		return tea.Quit
	}
	return nil
}

func (m *HelpModel) View() string {
	adaptiveTitleStyle, _, adaptiveHelpStyle := GetAdaptiveStyles(m.width, m.height)

	title := adaptiveTitleStyle.Render("❓ Loan Dashboard Help")

	var menu string
	for i, choice := range m.choices {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
			choice = selectedMenuItemStyle.Render(choice)
		} else {
			choice = menuItemStyle.Render(choice)
		}
		menu += fmt.Sprintf("%s %s\n", cursor, choice)
	}

	keys := formStyle.Render(m.help.View(m.keys))
	nav := adaptiveHelpStyle.Render("Use ↑/↓ (or j/k) to navigate • Enter to select • Esc to go back")

	content := lipgloss.JoinVertical(lipgloss.Left, title, menu, keys, nav)

	if m.width > 0 {
		content = lipgloss.Place(
			m.width, m.height,
			lipgloss.Center, lipgloss.Center,
			content,
		)
	}

	return content
}
