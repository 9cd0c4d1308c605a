package ledger

import (
	"context"

	"github.com/kmorten/price-tracker/internal/models"
)

// Store is the durable representation of a ledger. Load returns the
// full ordered history; Save replaces it with the given ledger's
// snapshot. Implementations may use a full rewrite or an equivalent
// transactional form, as long as the durable row sequence matches the
// snapshot.
type Store interface {
	Load(ctx context.Context) (*Ledger, error)
	Save(ctx context.Context, l *Ledger) error
}

// Ledger is the in-memory price history for all tracked products.
// It is a pure container: rows keep their insertion order, and the
// per-URL history is that same order filtered to one URL.
type Ledger struct {
	rows []models.Record
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{}
}

// FromRecords builds a ledger from rows already in persisted order.
func FromRecords(rows []models.Record) *Ledger {
	l := &Ledger{rows: make([]models.Record, len(rows))}
	copy(l.rows, rows)
	return l
}

// Append adds a record at the end of the history.
func (l *Ledger) Append(rec models.Record) {
	l.rows = append(l.rows, rec)
}

// Snapshot returns a copy of all rows in insertion order.
func (l *Ledger) Snapshot() []models.Record {
	out := make([]models.Record, len(l.rows))
	copy(out, l.rows)
	return out
}

// Len returns the total number of rows.
func (l *Ledger) Len() int {
	return len(l.rows)
}

// History returns the rows for one URL, preserving ledger order.
func (l *Ledger) History(url string) []models.Record {
	var out []models.Record
	for _, rec := range l.rows {
		if rec.URL == url {
			out = append(out, rec)
		}
	}
	return out
}

// RemoveIf deletes every row matching the predicate, keeping the order
// of the remaining rows. It returns the number of rows removed.
func (l *Ledger) RemoveIf(match func(models.Record) bool) int {
	kept := l.rows[:0]
	removed := 0
	for _, rec := range l.rows {
		if match(rec) {
			removed++
			continue
		}
		kept = append(kept, rec)
	}
	l.rows = kept
	return removed
}
