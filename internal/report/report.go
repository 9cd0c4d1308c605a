// Package report renders the daily summary email body and the
// price-drop alert payload.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kmorten/price-tracker/internal/analyze"
	"github.com/kmorten/price-tracker/internal/models"
)

// Names in alert lines are cut to this length.
const alertNameLen = 40

// Entry is one product's analyzed result for the daily report.
type Entry struct {
	Name            string
	URL             string
	TodayPrice      *decimal.Decimal
	PreviousPrice   *decimal.Decimal
	LowestPrice     *decimal.Decimal
	LowestPriceDate time.Time
}

// FromOutcome builds a report entry from a reconciliation outcome and
// its analysis. Skipped URLs produce no entry.
func FromOutcome(o models.Outcome, a models.Analysis) (Entry, bool) {
	if o.Status == models.OutcomeSkipped || o.Record == nil {
		return Entry{}, false
	}
	e := Entry{
		Name:            o.Record.ProductName,
		URL:             o.URL,
		PreviousPrice:   a.PreviousPrice,
		LowestPrice:     a.LowestPrice,
		LowestPriceDate: a.LowestPriceDate,
	}
	if p, ok := o.Record.NumericPrice(); ok {
		e.TodayPrice = &p
	}
	return e, true
}

// Build renders the report body for the given day. ok is false when
// there are no entries at all, in which case the notifier must not be
// invoked.
func Build(today time.Time, entries []Entry) (body string, ok bool) {
	if len(entries) == 0 {
		return "", false
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Date: %s\n\n", today.Format(models.DateLayout))
	b.WriteString("Daily Price Tracker Summary:\n\n")

	for _, e := range entries {
		fmt.Fprintf(&b, "%s\n", e.Name)
		fmt.Fprintf(&b, "%s\n", e.URL)
		fmt.Fprintf(&b, "Today: $%s\n", priceText(e.TodayPrice))
		fmt.Fprintf(&b, "Yesterday: $%s\n", priceText(e.PreviousPrice))
		if e.LowestPrice != nil {
			fmt.Fprintf(&b, "All-Time Low: $%s on %s\n\n", models.FormatPrice(*e.LowestPrice), e.LowestPriceDate.Format(models.DateLayout))
		} else {
			fmt.Fprintf(&b, "All-Time Low: $%s\n\n", models.ValueAbsent)
		}
	}
	return b.String(), true
}

// BuildAlert renders the price-drop payload. A product qualifies only
// when both today's and yesterday's prices are numeric and today's is
// strictly lower. ok is false when nothing qualifies.
func BuildAlert(entries []Entry) (body string, ok bool) {
	var lines []string
	for _, e := range entries {
		if !analyze.DroppedBelow(e.TodayPrice, e.PreviousPrice) {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: $%s (was $%s)",
			truncateName(e.Name), models.FormatPrice(*e.TodayPrice), models.FormatPrice(*e.PreviousPrice)))
	}
	if len(lines) == 0 {
		return "", false
	}
	return "Price drop detected:\n" + strings.Join(lines, "\n") + "\n", true
}

func priceText(p *decimal.Decimal) string {
	if p == nil {
		return models.ValueAbsent
	}
	return models.FormatPrice(*p)
}

func truncateName(name string) string {
	if len(name) <= alertNameLen {
		return name
	}
	return strings.TrimSpace(name[:alertNameLen]) + "..."
}
