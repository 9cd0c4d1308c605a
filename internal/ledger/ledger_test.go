package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmorten/price-tracker/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func rec(date time.Time, name, price, url string) models.Record {
	return models.Record{Date: date, ProductName: name, Price: price, URL: url}
}

func TestLedger(t *testing.T) {
	t.Run("Snapshot preserves insertion order", func(t *testing.T) {
		l := New()
		l.Append(rec(day(2024, 1, 1), "Widget", "10.00", "http://a"))
		l.Append(rec(day(2024, 1, 1), "Gadget", "20.00", "http://b"))
		l.Append(rec(day(2024, 1, 2), "Widget", "9.50", "http://a"))

		snap := l.Snapshot()
		require.Len(t, snap, 3)
		assert.Equal(t, "http://a", snap[0].URL)
		assert.Equal(t, "http://b", snap[1].URL)
		assert.Equal(t, "9.50", snap[2].Price)
	})

	t.Run("History filters by URL in ledger order", func(t *testing.T) {
		l := FromRecords([]models.Record{
			rec(day(2024, 1, 1), "Widget", "10.00", "http://a"),
			rec(day(2024, 1, 1), "Gadget", "20.00", "http://b"),
			rec(day(2024, 1, 2), "Widget", "9.50", "http://a"),
		})

		history := l.History("http://a")
		require.Len(t, history, 2)
		assert.Equal(t, "10.00", history[0].Price)
		assert.Equal(t, "9.50", history[1].Price)
		assert.Empty(t, l.History("http://missing"))
	})

	t.Run("RemoveIf keeps remaining order", func(t *testing.T) {
		l := FromRecords([]models.Record{
			rec(day(2024, 1, 1), "Widget", "10.00", "http://a"),
			rec(day(2024, 1, 2), "Widget", "N/A", "http://a"),
			rec(day(2024, 1, 2), "Gadget", "20.00", "http://b"),
		})

		removed := l.RemoveIf(func(r models.Record) bool { return r.PriceAbsent() })
		assert.Equal(t, 1, removed)

		snap := l.Snapshot()
		require.Len(t, snap, 2)
		assert.Equal(t, "10.00", snap[0].Price)
		assert.Equal(t, "20.00", snap[1].Price)
	})

	t.Run("Snapshot returns a copy", func(t *testing.T) {
		l := FromRecords([]models.Record{rec(day(2024, 1, 1), "Widget", "10.00", "http://a")})
		snap := l.Snapshot()
		snap[0].Price = "0.01"
		assert.Equal(t, "10.00", l.Snapshot()[0].Price)
	})
}
