package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"loandash/internal/models"
	"loandash/internal/viewport"
)

type column struct {
	title string
	width int
	right bool
	cell  func(models.Loan) string
}

var loanColumns = []column{
	{title: "ID", width: 11, cell: func(l models.Loan) string { return l.ID }},
	{title: "Applicant", width: 16, cell: func(l models.Loan) string { return l.ApplicantName }},
	{title: "Email", width: 22, cell: func(l models.Loan) string { return l.ApplicantEmail }},
	{title: "Amount", width: 10, right: true, cell: func(l models.Loan) string { return formatAmount(l.Amount) }},
	{title: "Status", width: 10, cell: func(l models.Loan) string { return l.Status.Label() }},
	{title: "Date", width: 10, cell: func(l models.Loan) string { return l.ApplicationDate.Format("2006-01-02") }},
	{title: "Purpose", width: 10, cell: func(l models.Loan) string { return l.Purpose }},
	{title: "Score", width: 5, right: true, cell: func(l models.Loan) string { return strconv.Itoa(l.CreditScore) }},
	{title: "Term", width: 4, right: true, cell: func(l models.Loan) string { return strconv.Itoa(l.LoanTerm) }},
}

// formatAmount renders whole dollars with thousands separators, e.g. "$12,500".
func formatAmount(n int) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	s := strconv.Itoa(n)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + "$" + b.String()
}

// truncate shortens s to fit width cells so that no cell wraps onto a
// second line.
func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	if len(r) > width-1 {
		r = r[:width-1]
	}
	return string(r) + "…"
}

func cellStyle(c column) lipgloss.Style {
	st := lipgloss.NewStyle().Width(c.width).MarginRight(1)
	if c.right {
		st = st.Align(lipgloss.Right)
	}
	return st
}

func renderHeader() string {
	cells := make([]string, len(loanColumns))
	for i, c := range loanColumns {
		cells[i] = cellStyle(c).Inherit(headerStyle).Render(c.title)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func renderRow(l models.Loan, index int) string {
	base := rowStyle
	if index%2 == 1 {
		base = altRowStyle
	}
	cells := make([]string, len(loanColumns))
	for i, c := range loanColumns {
		st := cellStyle(c).Inherit(base)
		if c.title == "Status" {
			st = st.Inherit(statusStyle(l.Status))
		}
		cells[i] = st.Render(truncate(c.cell(l), c.width))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

// renderTable draws the rows inside the virtualizer's window followed by a
// scrollbar whose thumb tracks the block offset. Rows outside the window are
// never rendered.
func renderTable(v *viewport.Virtualizer[models.Loan]) string {
	track := v.VisibleRows()
	pos, size := v.Scrollbar(track)

	rows := v.Rows()
	lines := make([]string, 0, track+1)
	lines = append(lines, renderHeader())
	for i := 0; i < track; i++ {
		line := ""
		if i < len(rows) {
			line = renderRow(rows[i].Item, rows[i].Index)
		}
		bar := scrollTrackStyle.Render("│")
		if i >= pos && i < pos+size {
			bar = scrollThumbStyle.Render("┃")
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, lipgloss.NewStyle().Width(tableWidth()).Render(line), bar))
	}
	return strings.Join(lines, "\n")
}

func tableWidth() int {
	w := 0
	for _, c := range loanColumns {
		w += c.width + 1
	}
	return w
}
