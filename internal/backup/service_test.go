package backup

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loandash/internal/database"
	"loandash/internal/generator"
	"loandash/internal/models"
)

var fixedNow = time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)

func newSQLite(t *testing.T) *database.SQLite {
	t.Helper()
	db, err := database.NewSQLite(context.Background(), filepath.Join(t.TempDir(), "loans.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func total(t *testing.T, s database.Store) int {
	t.Helper()
	page, err := s.Query(context.Background(), models.Filter{}, models.Cursor{Page: 1, PageSize: 1})
	require.NoError(t, err)
	return page.Total
}

func TestBackupRestoreRoundTrip(t *testing.T) {
	loans := generator.GenerateSeeded(1234, 7, fixedNow)

	for _, format := range []string{FormatJSON, FormatCSV} {
		t.Run(format, func(t *testing.T) {
			svc := NewService(database.NewMemory(loans))
			svc.now = func() time.Time { return fixedNow }

			path, n, err := svc.BackupCollection(context.Background(), t.TempDir(), format)
			require.NoError(t, err)
			assert.Equal(t, 1234, n)
			assert.Equal(t, "backup_loans_20240601_123000."+format, filepath.Base(path))
			require.NoError(t, ValidateBackupFile(path, format))

			target := newSQLite(t)
			restored, err := RestoreCollection(context.Background(), target, path, format, true)
			require.NoError(t, err)
			assert.Equal(t, 1234, restored)
			assert.Equal(t, 1234, total(t, target))

			page, err := target.Query(context.Background(), models.Filter{}, models.Cursor{Page: 1, PageSize: 1})
			require.NoError(t, err)
			assert.Equal(t, loans[0].ID, page.Loans[0].ID)
			assert.Equal(t, loans[0].ApplicantName, page.Loans[0].ApplicantName)
			assert.True(t, loans[0].ApplicationDate.Equal(page.Loans[0].ApplicationDate))
		})
	}
}

func TestRestoreDropsExisting(t *testing.T) {
	target := newSQLite(t)
	_, err := target.InsertLoans(context.Background(), []models.Loan{{ID: "old", Status: models.StatusPaid}})
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = NewService(database.NewMemory(generator.GenerateSeeded(3, 1, fixedNow))).Backup(context.Background(), &buf, FormatJSON)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "loans.json")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	_, err = RestoreCollection(context.Background(), target, path, FormatJSON, true)
	require.NoError(t, err)
	assert.Equal(t, 3, total(t, target))
}

func TestRestoreRejectsGarbage(t *testing.T) {
	_, err := Restore(context.Background(), newSQLite(t), bytes.NewBufferString("{not json"), FormatJSON)
	assert.Error(t, err)
}

func TestInvalidFormat(t *testing.T) {
	_, _, err := NewService(database.NewMemory(nil)).BackupCollection(context.Background(), t.TempDir(), "xml")
	assert.ErrorContains(t, err, "invalid format")
}

func TestValidateBackupFile(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	assert.ErrorContains(t, ValidateBackupFile(empty, FormatJSON), "empty")

	csvFile := filepath.Join(dir, "loans.csv")
	require.NoError(t, os.WriteFile(csvFile, []byte("id\n"), 0o644))
	assert.Error(t, ValidateBackupFile(csvFile, FormatJSON))
	assert.NoError(t, ValidateBackupFile(csvFile, FormatCSV))

	assert.Error(t, ValidateBackupFile(filepath.Join(dir, "missing.csv"), FormatCSV))
}

func TestDetectFormat(t *testing.T) {
	f, err := DetectFormat("x.jsonl")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = DetectFormat("x.txt")
	assert.Error(t, err)
}
