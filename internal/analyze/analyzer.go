// Package analyze derives per-product metrics from the ledger: the
// previous-day price and the all-time low with its date.
package analyze

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kmorten/price-tracker/internal/ledger"
	"github.com/kmorten/price-tracker/internal/models"
)

// Analyze scans one URL's full history, including a record appended
// for today, and returns the derived metrics.
//
// PreviousPrice is the price of the record dated exactly yesterday,
// absent when no such record exists or it carries no numeric price.
// LowestPrice is the minimum numeric price across the history; ties
// resolve to the earliest date in ledger order. Non-numeric prices are
// silently excluded.
func Analyze(l *ledger.Ledger, url string, today, yesterday time.Time) models.Analysis {
	today = models.Day(today)
	yesterday = models.Day(yesterday)

	var a models.Analysis
	for _, rec := range l.History(url) {
		if rec.Date.After(today) {
			continue
		}
		p, ok := rec.NumericPrice()
		if !ok {
			continue
		}
		if rec.Date.Equal(yesterday) {
			prev := p
			a.PreviousPrice = &prev
		}
		if a.LowestPrice == nil || p.LessThan(*a.LowestPrice) {
			low := p
			a.LowestPrice = &low
			a.LowestPriceDate = rec.Date
		}
	}
	return a
}

// DroppedBelow reports whether today's price is strictly lower than
// the previous-day price. Either price being absent means no drop.
func DroppedBelow(today *decimal.Decimal, previous *decimal.Decimal) bool {
	if today == nil || previous == nil {
		return false
	}
	return today.LessThan(*previous)
}
