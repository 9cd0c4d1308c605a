package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sentinel values used in the persisted ledger
const (
	ValueAbsent = "N/A"
	NameError   = "ERROR"
)

// Reconciliation outcome constants
const (
	OutcomeRecorded   = "recorded"
	OutcomeSkipped    = "skipped"
	OutcomeFetchError = "fetch-error"
)

// DateLayout is the calendar-day format used throughout the ledger.
const DateLayout = "2006-01-02"

// Record is one dated price observation for one product URL.
// Price is either a two-decimal string or the literal "N/A"; it is
// never empty in persisted form.
type Record struct {
	Date        time.Time `json:"date"`
	ProductName string    `json:"product_name"`
	Price       string    `json:"price"`
	URL         string    `json:"url"`
}

// PriceAbsent reports whether the record carries no valid price.
func (r Record) PriceAbsent() bool {
	return r.Price == ValueAbsent || r.Price == ""
}

// NumericPrice returns the record's price as a decimal when it parses.
// Non-numeric price text is not an error, it is simply excluded from
// numeric aggregation.
func (r Record) NumericPrice() (decimal.Decimal, bool) {
	if r.PriceAbsent() {
		return decimal.Decimal{}, false
	}
	p, err := decimal.NewFromString(r.Price)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return p, true
}

// Observation is the raw fetch result for one URL: name and price text
// exactly as scraped, either of which may be empty.
type Observation struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

// Outcome tags the result of reconciling one URL.
type Outcome struct {
	URL    string  `json:"url"`
	Status string  `json:"status"`
	Record *Record `json:"record,omitempty"`
}

// Analysis holds the derived metrics for one product relative to a
// reference date. Nil pointers mean "absent".
type Analysis struct {
	PreviousPrice   *decimal.Decimal `json:"previous_price,omitempty"`
	LowestPrice     *decimal.Decimal `json:"lowest_price,omitempty"`
	LowestPriceDate time.Time        `json:"lowest_price_date,omitempty"`
}

// Day truncates t to a calendar day in UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FormatPrice renders a decimal as the two-fraction-digit string used
// in the ledger and reports.
func FormatPrice(p decimal.Decimal) string {
	return p.StringFixed(2)
}
