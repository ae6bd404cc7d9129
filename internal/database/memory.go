package database

import (
	"context"

	"loandash/internal/models"
)

// Memory serves a fixed collection built once at startup. It is read-only,
// so concurrent queries need no locking.
type Memory struct {
	loans []models.Loan
}

func NewMemory(loans []models.Loan) *Memory {
	return &Memory{loans: loans}
}

func (m *Memory) Len() int {
	return len(m.loans)
}

// Query scans the collection in order and returns the requested page.
func (m *Memory) Query(ctx context.Context, filter models.Filter, cursor models.Cursor) (models.Page, error) {
	if err := ctx.Err(); err != nil {
		return models.Page{}, err
	}

	if filter.IsEmpty() {
		return paginate(m.loans, cursor), nil
	}

	matches := make([]models.Loan, 0, len(m.loans)/4)
	for _, l := range m.loans {
		if filter.Match(l) {
			matches = append(matches, l)
		}
	}
	return paginate(matches, cursor), nil
}

func (m *Memory) Close() error {
	return nil
}
