package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"loandash/internal/logger"
	"loandash/internal/models"
)

const loanColumns = "id,applicant_name,applicant_email,amount,status,application_date,purpose,credit_score,loan_term"

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS loans (
	id               TEXT PRIMARY KEY,
	applicant_name   TEXT NOT NULL,
	applicant_email  TEXT NOT NULL,
	amount           INTEGER NOT NULL,
	status           TEXT NOT NULL,
	application_date DATETIME NOT NULL,
	purpose          TEXT NOT NULL,
	credit_score     INTEGER NOT NULL,
	loan_term        INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_loans_status ON loans(status);
CREATE INDEX IF NOT EXISTS idx_loans_amount ON loans(amount);
`

// sqliteBatchSize keeps every multi-row insert under SQLite's variable limit.
const sqliteBatchSize = 500

type SQLite struct {
	DB *sqlx.DB
}

func NewSQLite(ctx context.Context, path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sqlx.ConnectContext(ctx, "sqlite3", "file:"+path+"?_fk=1&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	db.SetMaxIdleConns(5)
	db.SetMaxOpenConns(5)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create loans table: %w", err)
	}

	logger.Log.WithField("path", path).Info("Opened SQLite loan store")
	return &SQLite{DB: db}, nil
}

// sqlQuery is a WHERE clause with its positional arguments.
type sqlQuery struct {
	Where     string
	WhereArgs []interface{}
}

func buildSQLQuery(filter models.Filter) sqlQuery {
	var (
		clauses []string
		args    []interface{}
	)
	if filter.Status != nil {
		clauses = append(clauses, "status = ?")
		args = append(args, string(*filter.Status))
	}
	if filter.MinAmount != nil {
		clauses = append(clauses, "amount >= ?")
		args = append(args, *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		clauses = append(clauses, "amount <= ?")
		args = append(args, *filter.MaxAmount)
	}
	if filter.ApplicantName != "" {
		clauses = append(clauses, `LOWER(applicant_name) LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(strings.ToLower(filter.ApplicantName))+"%")
	}

	q := sqlQuery{WhereArgs: args}
	if len(clauses) > 0 {
		q.Where = " WHERE " + strings.Join(clauses, " AND ")
	}
	return q
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (s *SQLite) Query(ctx context.Context, filter models.Filter, cursor models.Cursor) (models.Page, error) {
	cursor = cursor.Normalize()
	q := buildSQLQuery(filter)

	var total int
	if err := s.DB.GetContext(ctx, &total, "SELECT COUNT(*) FROM loans"+q.Where, q.WhereArgs...); err != nil {
		return models.Page{}, fmt.Errorf("failed to count loans: %w", err)
	}

	page := models.Page{Loans: []models.Loan{}, Total: total}
	offset := cursor.Offset()
	if total == 0 || offset < 0 || offset >= total {
		return page, nil
	}

	stmt := "SELECT " + loanColumns + " FROM loans" + q.Where + " ORDER BY id LIMIT ? OFFSET ?"
	args := append(q.WhereArgs, cursor.PageSize, offset)
	logger.Log.WithField("query", stmt).Debug("SQLite query")

	if err := s.DB.SelectContext(ctx, &page.Loans, stmt, args...); err != nil {
		return models.Page{}, fmt.Errorf("failed to query loans: %w", err)
	}
	return page, nil
}

// InsertLoans upserts loans by id inside a single transaction.
func (s *SQLite) InsertLoans(ctx context.Context, loans []models.Loan) (int, error) {
	if len(loans) == 0 {
		return 0, nil
	}

	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt := "INSERT OR REPLACE INTO loans (" + loanColumns + ") VALUES " +
		"(:id,:applicant_name,:applicant_email,:amount,:status,:application_date,:purpose,:credit_score,:loan_term)"

	inserted := 0
	for start := 0; start < len(loans); start += sqliteBatchSize {
		end := start + sqliteBatchSize
		if end > len(loans) {
			end = len(loans)
		}
		if _, err := tx.NamedExecContext(ctx, stmt, loans[start:end]); err != nil {
			return inserted, fmt.Errorf("failed to insert batch: %w", err)
		}
		inserted += end - start
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit loans: %w", err)
	}
	logger.Log.WithField("count", inserted).Info("Inserted loans into SQLite")
	return inserted, nil
}

func (s *SQLite) Drop(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, "DELETE FROM loans"); err != nil {
		return fmt.Errorf("failed to clear loans: %w", err)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.DB.Close()
}
