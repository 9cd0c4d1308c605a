package models

import "time"

// Price event type constants
const (
	EventPriceRecorded = "PRICE_RECORDED"
	EventPriceDrop     = "PRICE_DROP"
	EventFetchFailed   = "FETCH_FAILED"
)

// PriceEvent represents a Kafka event emitted during a tracking run.
type PriceEvent struct {
	EventType     string    `json:"event_type"`
	URL           string    `json:"url"`
	ProductName   string    `json:"product_name,omitempty"`
	Date          string    `json:"date"`
	Price         string    `json:"price,omitempty"`
	PreviousPrice string    `json:"previous_price,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// RunSummary captures the result of one tracking run for the API and
// the run-summary cache.
type RunSummary struct {
	Date        string    `json:"date"`
	Outcomes    []Outcome `json:"outcomes"`
	ReportBody  string    `json:"report_body,omitempty"`
	AlertBody   string    `json:"alert_body,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}
