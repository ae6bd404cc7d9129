package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"loandash/internal/dashboard"
	"loandash/internal/models"
	"loandash/internal/query"
	"loandash/internal/viewport"
)

const (
	focusTable = iota
	focusStatus
	focusMin
	focusMax
	focusName
	focusCount
)

// chromeLines is everything on the dashboard screen that is not a table row.
const chromeLines = 14

type DashboardModel struct {
	ctrl *dashboard.Controller
	list *viewport.Virtualizer[models.Loan]
	snap dashboard.Snapshot

	statusDropdown *Dropdown[models.Status]
	minInput       textinput.Model
	maxInput       textinput.Model
	nameInput      textinput.Model
	focusedInput   int

	spinner   spinner.Model
	spinning  bool
	progress  progress.Model
	keys      keyMap
	help      help.Model
	wheelStep float64
	maxRows   int
	shownSeq  uint64
	width     int
	height    int
}

// NewDashboardModel renders ctrl's state. list must be the sink ctrl feeds
// loaded pages into.
func NewDashboardModel(ctrl *dashboard.Controller, list *viewport.Virtualizer[models.Loan], wheelStep float64) *DashboardModel {
	options := []Option[models.Status]{{Value: "", Label: "All statuses"}}
	for _, s := range models.Statuses {
		options = append(options, Option[models.Status]{Value: s, Label: s.Label()})
	}

	minInput := textinput.New()
	minInput.Placeholder = "min amount"
	minInput.CharLimit = 9
	minInput.Width = 12

	maxInput := textinput.New()
	maxInput.Placeholder = "max amount"
	maxInput.CharLimit = 9
	maxInput.Width = 12

	nameInput := textinput.New()
	nameInput.Placeholder = "applicant name"
	nameInput.CharLimit = 64
	nameInput.Width = 20

	progressBar := progress.New(
		progress.WithSolidFill("#00aadd"),
		progress.WithoutPercentage(),
	)
	progressBar.Width = 30

	m := &DashboardModel{
		ctrl:           ctrl,
		list:           list,
		statusDropdown: NewDropdown("Status", options),
		minInput:       minInput,
		maxInput:       maxInput,
		nameInput:      nameInput,
		focusedInput:   focusTable,
		spinner:        spinner.New(spinner.WithSpinner(spinner.Dot)),
		progress:       progressBar,
		keys:           defaultKeyMap(),
		help:           help.New(),
		wheelStep:      wheelStep,
		maxRows:        list.VisibleRows(),
	}
	m.snap = ctrl.Snapshot()
	ctrl.Subscribe(m.onChange)
	return m
}

func (m *DashboardModel) onChange(s dashboard.Snapshot) {
	// A freshly loaded page starts at its first row.
	if s.Status == dashboard.StatusSuccess && s.Seq != m.shownSeq {
		m.shownSeq = s.Seq
		m.list.Home()
	}
	m.snap = s
}

func (m *DashboardModel) Init() tea.Cmd {
	return m.withSpinner(m.ctrl.Init())
}

func (m *DashboardModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width

	rows := height - chromeLines
	if rows > m.maxRows {
		rows = m.maxRows
	}
	m.list.SetVisibleRows(rows)
	m.list.ScrollBy(0)
}

// Typing reports whether keys currently go to a text field.
func (m *DashboardModel) Typing() bool {
	return m.focusedInput == focusMin || m.focusedInput == focusMax || m.focusedInput == focusName
}

// withSpinner starts the spinner when cmd left the controller loading.
func (m *DashboardModel) withSpinner(cmd tea.Cmd) tea.Cmd {
	if m.snap.Status != dashboard.StatusLoading || m.spinning {
		return cmd
	}
	m.spinning = true
	return tea.Batch(cmd, m.spinner.Tick)
}

func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.snap.Status != dashboard.StatusLoading {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case dashboard.FilterSettledMsg, dashboard.PageLoadedMsg:
		return m, m.withSpinner(m.ctrl.Update(msg))

	case tea.MouseMsg:
		switch msg.Type {
		case tea.MouseWheelUp:
			m.list.ScrollBy(-m.wheelStep)
		case tea.MouseWheelDown:
			m.list.ScrollBy(m.wheelStep)
		}
		return m, nil

	case ActionMsg:
		switch msg.Action {
		case actionRefresh:
			return m, m.withSpinner(m.ctrl.Refresh())
		case actionClear:
			return m, m.withSpinner(m.clearFilters())
		}
		return m, nil

	case tea.KeyMsg:
		return m, m.withSpinner(m.updateKeys(msg))
	}

	// Cursor blinks and the like belong to the focused text field.
	var cmd tea.Cmd
	switch m.focusedInput {
	case focusMin:
		m.minInput, cmd = m.minInput.Update(msg)
	case focusMax:
		m.maxInput, cmd = m.maxInput.Update(msg)
	case focusName:
		m.nameInput, cmd = m.nameInput.Update(msg)
	}
	return m, cmd
}

func (m *DashboardModel) updateKeys(msg tea.KeyMsg) tea.Cmd {
	if m.focusedInput == focusStatus && m.statusDropdown.Open() {
		if m.statusDropdown.Update(msg) {
			return m.ctrl.SetStatus(m.statusDropdown.Value())
		}
		return nil
	}

	switch msg.String() {
	case "tab":
		m.focusedInput = (m.focusedInput + 1) % focusCount
		return m.updateInputFocus()
	case "shift+tab":
		m.focusedInput = (m.focusedInput - 1 + focusCount) % focusCount
		return m.updateInputFocus()
	case "esc":
		m.focusedInput = focusTable
		return m.updateInputFocus()
	}

	switch m.focusedInput {
	case focusTable:
		return m.updateTable(msg)
	case focusStatus:
		if m.statusDropdown.Update(msg) {
			return m.ctrl.SetStatus(m.statusDropdown.Value())
		}
		return nil
	}

	var cmd tea.Cmd
	switch m.focusedInput {
	case focusMin:
		m.minInput, cmd = m.minInput.Update(msg)
		return tea.Batch(cmd, m.ctrl.SetMinAmount(query.ParseAmount(m.minInput.Value())))
	case focusMax:
		m.maxInput, cmd = m.maxInput.Update(msg)
		return tea.Batch(cmd, m.ctrl.SetMaxAmount(query.ParseAmount(m.maxInput.Value())))
	case focusName:
		m.nameInput, cmd = m.nameInput.Update(msg)
		return tea.Batch(cmd, m.ctrl.SetApplicantName(m.nameInput.Value()))
	}
	return nil
}

func (m *DashboardModel) updateTable(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.list.LineUp()
	case key.Matches(msg, m.keys.Down):
		m.list.LineDown()
	case key.Matches(msg, m.keys.PageUp):
		m.list.PageUp()
	case key.Matches(msg, m.keys.PageDown):
		m.list.PageDown()
	case key.Matches(msg, m.keys.Home):
		m.list.Home()
	case key.Matches(msg, m.keys.End):
		m.list.End()
	case key.Matches(msg, m.keys.Next):
		return m.ctrl.NextPage()
	case key.Matches(msg, m.keys.Prev):
		return m.ctrl.PrevPage()
	case key.Matches(msg, m.keys.Refresh):
		return m.ctrl.Refresh()
	case key.Matches(msg, m.keys.Clear):
		return m.clearFilters()
	}
	return nil
}

func (m *DashboardModel) clearFilters() tea.Cmd {
	m.statusDropdown.Select("")
	m.minInput.SetValue("")
	m.maxInput.SetValue("")
	m.nameInput.SetValue("")
	return m.ctrl.ClearFilters()
}

func (m *DashboardModel) updateInputFocus() tea.Cmd {
	if m.focusedInput == focusStatus {
		m.statusDropdown.Focus()
	} else {
		m.statusDropdown.Blur()
	}

	var cmd tea.Cmd
	inputs := map[int]*textinput.Model{focusMin: &m.minInput, focusMax: &m.maxInput, focusName: &m.nameInput}
	for i, input := range inputs {
		if i == m.focusedInput {
			cmd = input.Focus()
		} else {
			input.Blur()
		}
	}
	return cmd
}

func (m *DashboardModel) View() string {
	adaptiveTitleStyle, adaptiveFormStyle, _ := GetAdaptiveStyles(m.width, m.height)

	title := adaptiveTitleStyle.Render("💳 Loan Applications")
	form := adaptiveFormStyle.Render(m.renderFilters())

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		form,
		m.renderStatusLine(),
		renderTable(m.list),
		m.renderFooter(),
		m.help.View(m.keys),
	)
}

func (m *DashboardModel) renderFilters() string {
	field := func(label string, in textinput.Model) string {
		return labelStyle.Render(label) + " " + in.View()
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top,
		m.statusDropdown.View(), "  ",
		field("Min", m.minInput), "  ",
		field("Max", m.maxInput), "  ",
		field("Name", m.nameInput),
	)
	if m.snap.FilterPending {
		row += " " + warningStyle.Render("…")
	}
	return row
}

func (m *DashboardModel) renderStatusLine() string {
	switch {
	case m.snap.Status == dashboard.StatusLoading:
		return m.spinner.View() + " Loading loans..."
	case m.snap.Err != "":
		return errorStyle.Render("Error: " + m.snap.Err)
	case m.snap.Status == dashboard.StatusSuccess && len(m.snap.Loans) == 0:
		return warningStyle.Render("No loans match the current filters")
	}
	return ""
}

func (m *DashboardModel) renderFooter() string {
	reach := (m.snap.Page-1)*m.snap.PageSize + len(m.snap.Loans)
	percent := 0.0
	if m.snap.Total > 0 {
		percent = float64(reach) / float64(m.snap.Total)
	}

	prev := "◀ Previous"
	if m.ctrl.CanPrev() {
		prev = labelStyle.Render(prev)
	} else {
		prev = mutedStyle.Render(prev)
	}
	next := "Next ▶"
	if m.ctrl.CanNext() {
		next = labelStyle.Render(next)
	} else {
		next = mutedStyle.Render(next)
	}

	w := m.list.Window()
	rows := "rows 0-0"
	if !w.Empty {
		rows = fmt.Sprintf("rows %d-%d", w.Start+1, w.End+1)
	}

	summary := fmt.Sprintf("Showing %d of %d loans", len(m.snap.Loans), m.snap.Total)
	pager := fmt.Sprintf("%s  Page %d of %d  %s", prev, m.snap.Page, m.ctrl.PageCount(), next)

	return progressStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		summary+"  "+mutedStyle.Render(rows),
		m.progress.ViewAs(percent),
		pager,
	))
}
