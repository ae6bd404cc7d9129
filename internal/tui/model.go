package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"loandash/internal/dashboard"
	"loandash/internal/models"
	"loandash/internal/viewport"
)

type Screen int

const (
	DashboardScreen Screen = iota
	HelpScreen
)

type Model struct {
	currentScreen  Screen
	dashboardModel *DashboardModel
	helpModel      *HelpModel
	err            error
	quitting       bool
	width          int
	height         int
}

func NewModel(ctrl *dashboard.Controller, list *viewport.Virtualizer[models.Loan], wheelStep float64) Model {
	return Model{
		currentScreen:  DashboardScreen,
		dashboardModel: NewDashboardModel(ctrl, list, wheelStep),
		helpModel:      NewHelpModel(),
	}
}

func (m Model) Init() tea.Cmd {
	return m.dashboardModel.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.dashboardModel.SetSize(msg.Width, msg.Height)
		m.helpModel.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "q":
			if m.currentScreen != DashboardScreen || !m.dashboardModel.Typing() {
				m.quitting = true
				return m, tea.Quit
			}
		case "?":
			if m.currentScreen == DashboardScreen && !m.dashboardModel.Typing() {
				m.currentScreen = HelpScreen
				return m, nil
			}
		case "esc":
			if m.currentScreen != DashboardScreen {
				m.currentScreen = DashboardScreen
				return m, nil
			}
		}

	case ScreenChangeMsg:
		m.currentScreen = msg.Screen
		return m, nil

	case ErrorMsg:
		m.err = msg.Err
		return m, nil
	}

	// Controller traffic always reaches the dashboard, whichever screen is shown.
	switch msg.(type) {
	case tea.KeyMsg, tea.MouseMsg:
	default:
		_, cmd := m.dashboardModel.Update(msg)
		return m, cmd
	}

	switch m.currentScreen {
	case DashboardScreen:
		newDashboardModel, cmd := m.dashboardModel.Update(msg)
		m.dashboardModel = newDashboardModel.(*DashboardModel)
		return m, cmd
	case HelpScreen:
		newHelpModel, cmd := m.helpModel.Update(msg)
		m.helpModel = newHelpModel.(*HelpModel)
		return m, cmd
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return "Thanks for using the loan dashboard! 👋\n"
	}

	var content string
	switch m.currentScreen {
	case DashboardScreen:
		content = m.dashboardModel.View()
	case HelpScreen:
		content = m.helpModel.View()
	}

	if m.err != nil {
		errorStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true).
			Margin(1, 0)
		content += errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}

	return content
}

type ScreenChangeMsg struct {
	Screen Screen
}

// ErrorMsg reports a failure from outside the event loop, such as the
// embedded server stopping.
type ErrorMsg struct {
	Err error
}

func ChangeScreen(screen Screen) tea.Cmd {
	return func() tea.Msg {
		return ScreenChangeMsg{Screen: screen}
	}
}
