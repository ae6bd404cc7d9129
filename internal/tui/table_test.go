package tui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"loandash/internal/models"
	"loandash/internal/viewport"
)

func TestFormatAmount(t *testing.T) {
	cases := map[int]string{
		0:       "$0",
		999:     "$999",
		1000:    "$1,000",
		12500:   "$12,500",
		1234567: "$1,234,567",
		-4200:   "-$4,200",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatAmount(in), "amount %d", in)
	}
}

func loans(n int) []models.Loan {
	out := make([]models.Loan, n)
	for i := range out {
		out[i] = models.Loan{
			ID:              fmt.Sprintf("row-%03d", i),
			ApplicantName:   "Emily Davis",
			Amount:          15000,
			Status:          models.StatusApproved,
			ApplicationDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		}
	}
	return out
}

func TestRenderTableOnlyDrawsWindow(t *testing.T) {
	v := viewport.New[models.Loan](60, 5)
	v.SetItems(loans(100))
	v.ScrollTo(1200)

	out := renderTable(v)
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 6, "header plus one line per visible row")

	assert.Contains(t, out, "Applicant")
	assert.Contains(t, out, "row-020")
	assert.Contains(t, out, "row-024")
	assert.NotContains(t, out, "row-019")
	assert.NotContains(t, out, "row-025")
	assert.Contains(t, out, "$15,000")
	assert.Contains(t, out, "2024-05-01")
	assert.Contains(t, out, "Approved")
}

func TestRenderTableShortList(t *testing.T) {
	v := viewport.New[models.Loan](60, 5)
	v.SetItems(loans(2))

	out := renderTable(v)
	assert.Len(t, strings.Split(out, "\n"), 6, "blank lines pad the container")
	assert.Equal(t, 5, strings.Count(out, "┃"), "thumb fills the track")
}

func TestRenderTableEmpty(t *testing.T) {
	v := viewport.New[models.Loan](60, 3)
	out := renderTable(v)
	assert.NotContains(t, out, "row-")
	assert.Len(t, strings.Split(out, "\n"), 4)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "averylong…", truncate("averylongemailaddress", 10))
}
