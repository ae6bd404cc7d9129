// Package generator builds synthetic loan applications for demos and tests.
package generator

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"loandash/internal/models"
)

const DefaultCount = 50000

var (
	purposes = []string{"Home", "Car", "Education", "Business", "Personal", "Medical"}
	names    = []string{
		"Alex Johnson",
		"Maria Garcia",
		"James Smith",
		"Sarah Williams",
		"David Brown",
		"Emily Davis",
		"Michael Miller",
	}
)

// Generate returns n loans drawn from rng. Application dates fall on whole days
// within the 30 days before now. The same seed and now give the same loans.
func Generate(n int, rng *rand.Rand, now time.Time) []models.Loan {
	loans := make([]models.Loan, 0, n)

	for i := 0; i < n; i++ {
		status := models.Statuses[rng.Intn(len(models.Statuses))]
		name := names[rng.Intn(len(names))]
		first := strings.ToLower(strings.Fields(name)[0])

		loans = append(loans, models.Loan{
			ID:              fmt.Sprintf("loan-%d", 10000+i),
			ApplicantName:   name,
			ApplicantEmail:  fmt.Sprintf("%s%d@example.com", first, rng.Intn(100)),
			Amount:          rng.Intn(90000) + 1000,
			Status:          status,
			ApplicationDate: now.Add(-time.Duration(rng.Intn(30)) * 24 * time.Hour).UTC(),
			Purpose:         purposes[rng.Intn(len(purposes))],
			CreditScore:     rng.Intn(350) + 300,
			LoanTerm:        rng.Intn(84) + 12,
		})
	}

	return loans
}

// GenerateSeeded is Generate with a rand source seeded by seed.
func GenerateSeeded(n int, seed int64, now time.Time) []models.Loan {
	return Generate(n, rand.New(rand.NewSource(seed)), now)
}
