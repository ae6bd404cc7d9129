package database

import (
	"context"
	"errors"
	"fmt"

	"loandash/internal/config"
	"loandash/internal/models"
)

var (
	ErrUnknownStore = errors.New("unknown store driver")
	ErrReadOnly     = errors.New("store is read-only")
)

// Store answers filtered, paginated loan queries.
type Store interface {
	Query(ctx context.Context, filter models.Filter, cursor models.Cursor) (models.Page, error)
	Close() error
}

// Writer is a Store that can be loaded with loans.
type Writer interface {
	Store
	InsertLoans(ctx context.Context, loans []models.Loan) (int, error)
	Drop(ctx context.Context) error
}

// Open connects the store selected by cfg.Driver. The memory store is filled
// from generate, which is only called for that driver.
func Open(ctx context.Context, cfg config.StoreConfig, generate func() []models.Loan) (Store, error) {
	switch cfg.Driver {
	case "memory", "":
		return NewMemory(generate()), nil
	case "sqlite", "mongo":
		return OpenWriter(ctx, cfg)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownStore, cfg.Driver)
}

// OpenWriter connects a store that accepts inserts.
func OpenWriter(ctx context.Context, cfg config.StoreConfig) (Writer, error) {
	switch cfg.Driver {
	case "sqlite":
		return NewSQLite(ctx, cfg.SQLitePath)
	case "mongo":
		return NewMongoDB(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
	case "memory", "":
		return nil, fmt.Errorf("%w: memory store is generated at startup", ErrReadOnly)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownStore, cfg.Driver)
}

// Iterate walks the whole collection in pages of batch loans.
func Iterate(ctx context.Context, s Store, batch int, fn func([]models.Loan) error) error {
	cursor := models.Cursor{Page: 1, PageSize: batch}.Normalize()
	for {
		page, err := s.Query(ctx, models.Filter{}, cursor)
		if err != nil {
			return fmt.Errorf("failed to read page %d: %w", cursor.Page, err)
		}
		if len(page.Loans) == 0 {
			return nil
		}
		if err := fn(page.Loans); err != nil {
			return err
		}
		if cursor.Offset()+len(page.Loans) >= page.Total {
			return nil
		}
		cursor.Page++
	}
}

// paginate cuts the page for cursor out of matches, which holds every match.
func paginate(matches []models.Loan, cursor models.Cursor) models.Page {
	cursor = cursor.Normalize()
	page := models.Page{Loans: []models.Loan{}, Total: len(matches)}

	start := cursor.Offset()
	if start < 0 || start >= len(matches) {
		return page
	}
	end := start + cursor.PageSize
	if end < start || end > len(matches) {
		end = len(matches)
	}
	page.Loans = append(page.Loans, matches[start:end]...)
	return page
}
