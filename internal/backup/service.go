package backup

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"loandash/internal/csv"
	"loandash/internal/database"
	"loandash/internal/logger"
	"loandash/internal/models"
)

const (
	FormatJSON = "json"
	FormatCSV  = "csv"

	batchSize = 1000
)

type Service struct {
	store database.Store
	now   func() time.Time
}

func NewService(store database.Store) *Service {
	return &Service{store: store, now: time.Now}
}

// DetectFormat infers the backup format from the file extension.
func DetectFormat(filename string) (string, error) {
	switch filepath.Ext(filename) {
	case ".json", ".jsonl":
		return FormatJSON, nil
	case ".csv":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("cannot auto-detect format from extension '%s'", filepath.Ext(filename))
}

func validFormat(format string) error {
	if format != FormatJSON && format != FormatCSV {
		return fmt.Errorf("invalid format: %s. Use 'json' or 'csv'", format)
	}
	return nil
}

// BackupCollection writes every loan to a timestamped file in outputDir and
// returns its path and the number of loans written.
func (s *Service) BackupCollection(ctx context.Context, outputDir, format string) (string, int, error) {
	if err := validFormat(format); err != nil {
		return "", 0, err
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create output directory: %w", err)
	}

	timestamp := s.now().Format("20060102_150405")
	filename := fmt.Sprintf("backup_loans_%s.%s", timestamp, format)
	path := filepath.Join(outputDir, filename)

	file, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create backup file: %w", err)
	}
	defer file.Close()

	count, err := s.Backup(ctx, file, format)
	if err != nil {
		file.Close()
		os.Remove(path)
		return "", 0, fmt.Errorf("backup failed: %w", err)
	}

	return path, count, nil
}

// Backup streams the whole collection to w.
func (s *Service) Backup(ctx context.Context, w io.Writer, format string) (int, error) {
	if err := validFormat(format); err != nil {
		return 0, err
	}

	bw := bufio.NewWriter(w)
	count := 0

	var write func([]models.Loan) error
	var flush func() error
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(bw)
		write = func(loans []models.Loan) error {
			for _, l := range loans {
				if err := enc.Encode(l); err != nil {
					return fmt.Errorf("failed to marshal to JSON: %w", err)
				}
			}
			return nil
		}
		flush = func() error { return nil }
	case FormatCSV:
		cw := csv.NewWriter(bw)
		write = cw.Write
		flush = cw.Flush
	}

	err := database.Iterate(ctx, s.store, batchSize, func(loans []models.Loan) error {
		if err := write(loans); err != nil {
			return err
		}
		count += len(loans)
		if count%10000 == 0 {
			logger.Log.Infof("Backed up %d loans...", count)
		}
		return nil
	})
	if err != nil {
		return count, err
	}
	if err := flush(); err != nil {
		return count, fmt.Errorf("failed to write backup data: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return count, fmt.Errorf("failed to write backup data: %w", err)
	}

	logger.Log.Infof("Backup completed: %d loans", count)
	return count, nil
}

// RestoreCollection loads inputFile into target, optionally clearing it first.
func RestoreCollection(ctx context.Context, target database.Writer, inputFile, format string, dropExisting bool) (int, error) {
	file, err := os.Open(inputFile)
	if err != nil {
		return 0, fmt.Errorf("failed to open backup file: %w", err)
	}
	defer file.Close()

	if dropExisting {
		if err := target.Drop(ctx); err != nil {
			logger.Log.Warnf("Warning: failed to drop existing loans: %v", err)
		}
	}

	count, err := Restore(ctx, target, file, format)
	if err != nil {
		return count, fmt.Errorf("restore failed: %w", err)
	}
	return count, nil
}

// Restore reads loans in format from r and inserts them into target.
func Restore(ctx context.Context, target database.Writer, r io.Reader, format string) (int, error) {
	if err := validFormat(format); err != nil {
		return 0, err
	}

	if format == FormatCSV {
		loans, err := csv.DecodeLoans(r)
		if err != nil {
			return 0, err
		}
		return target.InsertLoans(ctx, loans)
	}

	decoder := json.NewDecoder(bufio.NewReader(r))
	batch := make([]models.Loan, 0, batchSize)
	total := 0
	for {
		var l models.Loan
		if err := decoder.Decode(&l); errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return total, fmt.Errorf("failed to decode JSON: %w", err)
		}
		batch = append(batch, l)

		if len(batch) >= batchSize {
			n, err := target.InsertLoans(ctx, batch)
			total += n
			if err != nil {
				return total, err
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		n, err := target.InsertLoans(ctx, batch)
		total += n
		if err != nil {
			return total, err
		}
	}

	logger.Log.Infof("Restore completed: %d loans", total)
	return total, nil
}

func ValidateBackupFile(filename, expectedFormat string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("cannot open backup file: %w", err)
	}
	defer file.Close()

	fileInfo, err := file.Stat()
	if err != nil {
		return fmt.Errorf("cannot get file info: %w", err)
	}

	if fileInfo.Size() == 0 {
		return fmt.Errorf("backup file is empty")
	}

	format, err := DetectFormat(filename)
	if err != nil {
		return err
	}
	if format != expectedFormat {
		return fmt.Errorf("expected %s file but got %s", expectedFormat, filepath.Ext(filename))
	}

	return nil
}
