package tui

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loandash/internal/dashboard"
	"loandash/internal/database"
	"loandash/internal/generator"
	"loandash/internal/models"
	"loandash/internal/query"
	"loandash/internal/viewport"
)

type memoryFetcher struct {
	store *database.Memory

	mu    sync.Mutex
	calls []query.Descriptor
}

func (f *memoryFetcher) FetchPage(ctx context.Context, d query.Descriptor) (models.Page, error) {
	f.mu.Lock()
	f.calls = append(f.calls, d)
	f.mu.Unlock()
	return f.store.Query(ctx, d.Filter(), d.Cursor())
}

func instantTick(_ time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	return func() tea.Msg { return fn(time.Time{}) }
}

func newTestModel(t *testing.T) (tea.Model, *memoryFetcher) {
	t.Helper()
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	fetcher := &memoryFetcher{store: database.NewMemory(generator.GenerateSeeded(250, 3, now))}
	list := viewport.New[models.Loan](60, 10)
	log, _ := test.NewNullLogger()

	ctrl := dashboard.New(fetcher,
		dashboard.WithPageSize(100),
		dashboard.WithTick(instantTick),
		dashboard.WithSink(list),
		dashboard.WithLogger(log),
	)
	m := NewModel(ctrl, list, 20)
	return drive(m, m.Init()), fetcher
}

// drive runs cmd and feeds the resulting messages back into m until no work
// is left. Spinner ticks and cursor blinks repeat forever, so they are dropped.
func drive(m tea.Model, cmd tea.Cmd) tea.Model {
	if cmd == nil {
		return m
	}
	msg := cmd()
	switch msg := msg.(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			m = drive(m, c)
		}
		return m
	case spinner.TickMsg, cursor.BlinkMsg, nil:
		return m
	}
	m, next := m.Update(msg)
	return drive(m, next)
}

func press(m tea.Model, keys ...string) (tea.Model, []tea.Cmd) {
	var cmds []tea.Cmd
	for _, k := range keys {
		var cmd tea.Cmd
		m, cmd = m.Update(keyPress(k))
		cmds = append(cmds, cmd)
	}
	return m, cmds
}

func dashboardOf(m tea.Model) *DashboardModel {
	return m.(Model).dashboardModel
}

func TestDashboardRendersFirstPage(t *testing.T) {
	m, fetcher := newTestModel(t)

	require.Len(t, fetcher.calls, 1)
	assert.Equal(t, "page=1&pageSize=100", fetcher.calls[0].Encode())

	view := m.View()
	assert.Contains(t, view, "Showing 100 of 250 loans")
	assert.Contains(t, view, "Page 1 of 3")
	assert.Contains(t, view, "loan-10000")
	assert.Contains(t, view, "loan-10009")
	assert.NotContains(t, view, "loan-10010")
}

func TestDashboardKeysScrollTheTable(t *testing.T) {
	m, _ := newTestModel(t)
	list := dashboardOf(m).list

	m, _ = press(m, "j", "j")
	assert.Equal(t, 2, list.Window().Start)

	m, _ = press(m, "end")
	assert.Equal(t, 90, list.Window().Start)
	assert.Equal(t, 99, list.Window().End)
	assert.Contains(t, m.View(), "loan-10099")

	m, _ = press(m, "g")
	assert.Equal(t, 0, list.Window().Start)
}

func TestDashboardMouseWheelScrollsInSteps(t *testing.T) {
	m, _ := newTestModel(t)
	list := dashboardOf(m).list

	wheel := tea.MouseMsg{Type: tea.MouseWheelDown}
	m, _ = m.Update(wheel)
	m, _ = m.Update(wheel)
	assert.Equal(t, 0, list.Window().Start, "40 units is still inside the first row")

	m.Update(wheel)
	assert.Equal(t, 1, list.Window().Start)
}

func TestDashboardPaging(t *testing.T) {
	m, fetcher := newTestModel(t)

	m, cmds := press(m, "n")
	m = drive(m, cmds[0])
	assert.Equal(t, 2, dashboardOf(m).snap.Page)
	assert.Contains(t, m.View(), "loan-10100")

	m, cmds = press(m, "n")
	m = drive(m, cmds[0])
	assert.Contains(t, m.View(), "Showing 50 of 250 loans")

	_, cmds = press(m, "n")
	assert.Nil(t, cmds[0], "no page after the last")
	assert.Len(t, fetcher.calls, 3)
}

func TestDashboardNameFilterFetchesOnceSettled(t *testing.T) {
	m, fetcher := newTestModel(t)

	m, _ = press(m, "tab", "tab", "tab", "tab")
	require.True(t, dashboardOf(m).Typing())

	m, cmds := press(m, "m", "a", "r")
	assert.Equal(t, "mar", dashboardOf(m).nameInput.Value())
	for _, cmd := range cmds {
		m = drive(m, cmd)
	}

	require.Len(t, fetcher.calls, 2)
	assert.Equal(t, "mar", fetcher.calls[1].Filter().ApplicantName)
	for _, l := range dashboardOf(m).snap.Loans {
		assert.Equal(t, "Maria Garcia", l.ApplicantName)
	}
}

func TestDashboardStatusDropdownFilters(t *testing.T) {
	m, fetcher := newTestModel(t)

	m, _ = press(m, "tab", "enter", "down", "down")
	m, cmds := press(m, "enter")
	m = drive(m, cmds[0])

	require.Len(t, fetcher.calls, 2)
	st := fetcher.calls[1].Filter().Status
	require.NotNil(t, st)
	assert.Equal(t, models.StatusApproved, *st)
	for _, l := range dashboardOf(m).snap.Loans {
		assert.Equal(t, models.StatusApproved, l.Status)
	}
}

func TestQuitKeyTypesWhileEditing(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = press(m, "tab", "tab", "tab", "tab", "q")
	assert.False(t, m.(Model).quitting)
	assert.Equal(t, "q", dashboardOf(m).nameInput.Value())

	m, _ = press(m, "esc", "q")
	assert.True(t, m.(Model).quitting)
}

func TestHelpScreen(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = press(m, "?")
	assert.Equal(t, HelpScreen, m.(Model).currentScreen)
	assert.Contains(t, m.View(), "next page")

	m, _ = press(m, "esc")
	assert.Equal(t, DashboardScreen, m.(Model).currentScreen)
}

func TestWindowSizeShrinksTable(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: chromeLines + 4})
	assert.Equal(t, 4, dashboardOf(m).list.VisibleRows())

	m.Update(tea.WindowSizeMsg{Width: 120, Height: 200})
	assert.Equal(t, 10, dashboardOf(m).list.VisibleRows(), "never more than configured")
}
