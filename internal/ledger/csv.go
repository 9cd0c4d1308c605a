package ledger

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/kmorten/price-tracker/internal/models"
)

// Column layout of the persisted ledger file.
var csvHeader = []string{"Date", "Product Name", "Price (USD)", "URL"}

// CSVStore persists the ledger as a single CSV file with a header row.
// Save rewrites the whole file from the in-memory snapshot.
type CSVStore struct {
	path string
}

// NewCSVStore creates a store backed by the file at path. The file
// does not have to exist yet; Load treats a missing file as an empty
// ledger.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// Load reads the full ledger from disk.
func (s *CSVStore) Load(_ context.Context) (*Ledger, error) {
	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger file %s: %w", s.path, err)
	}
	if len(rows) == 0 {
		return New(), nil
	}
	if err := checkHeader(rows[0]); err != nil {
		return nil, fmt.Errorf("ledger file %s: %w", s.path, err)
	}

	l := New()
	for i, row := range rows[1:] {
		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("ledger file %s row %d: %w", s.path, i+2, err)
		}
		l.Append(rec)
	}
	return l, nil
}

// Save rewrites the ledger file from the snapshot.
func (s *CSVStore) Save(_ context.Context, l *Ledger) error {
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("failed to create ledger file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write ledger header: %w", err)
	}
	for _, rec := range l.Snapshot() {
		row := []string{
			rec.Date.Format(models.DateLayout),
			rec.ProductName,
			rec.Price,
			rec.URL,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write ledger row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush ledger file: %w", err)
	}
	return nil
}

func checkHeader(row []string) error {
	if len(row) != len(csvHeader) {
		return fmt.Errorf("unexpected header with %d columns", len(row))
	}
	for i, col := range csvHeader {
		if row[i] != col {
			return fmt.Errorf("unexpected header column %q, want %q", row[i], col)
		}
	}
	return nil
}

func parseRow(row []string) (models.Record, error) {
	if len(row) != len(csvHeader) {
		return models.Record{}, fmt.Errorf("malformed row with %d columns", len(row))
	}
	date, err := time.ParseInLocation(models.DateLayout, row[0], time.UTC)
	if err != nil {
		return models.Record{}, fmt.Errorf("malformed date %q: %w", row[0], err)
	}
	return models.Record{
		Date:        date,
		ProductName: row[1],
		Price:       row[2],
		URL:         row[3],
	}, nil
}
