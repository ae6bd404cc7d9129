package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jszwec/csvutil"

	"loandash/internal/models"
)

type Parser struct {
	filename string
}

func NewParser(filename string) *Parser {
	return &Parser{filename: filename}
}

// ParseLoans decodes every row of the file. Header names follow the csv tags
// on models.Loan ("id", "applicant name", ...).
func (p *Parser) ParseLoans() ([]models.Loan, error) {
	file, err := os.Open(p.filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	return DecodeLoans(file)
}

func DecodeLoans(r io.Reader) ([]models.Loan, error) {
	var loans []models.Loan
	decoder, err := csvutil.NewDecoder(csv.NewReader(r))
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to create CSV decoder: %w", err)
	}

	if err := decoder.Decode(&loans); err != nil {
		return nil, fmt.Errorf("failed to decode CSV: %w", err)
	}

	for i := range loans {
		if st, ok := models.ParseStatus(string(loans[i].Status)); ok {
			loans[i].Status = st
		}
	}
	return loans, nil
}

// Validate reports why a decoded loan cannot be stored, or nil.
func Validate(l models.Loan) error {
	if l.ID == "" {
		return errors.New("empty id")
	}
	if _, ok := models.ParseStatus(string(l.Status)); !ok {
		return fmt.Errorf("unknown status %q", l.Status)
	}
	if l.Amount < 0 {
		return fmt.Errorf("negative amount %d", l.Amount)
	}
	return nil
}

// Writer streams loans as CSV, writing the header before the first row.
type Writer struct {
	w   *csv.Writer
	enc *csvutil.Encoder
}

func NewWriter(w io.Writer) *Writer {
	cw := csv.NewWriter(w)
	return &Writer{w: cw, enc: csvutil.NewEncoder(cw)}
}

func (w *Writer) Write(loans []models.Loan) error {
	for _, l := range loans {
		if err := w.enc.Encode(l); err != nil {
			return fmt.Errorf("failed to encode loan %s: %w", l.ID, err)
		}
	}
	return nil
}

func (w *Writer) Flush() error {
	w.w.Flush()
	return w.w.Error()
}
