package reconcile

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/kmorten/price-tracker/internal/ledger"
	"github.com/kmorten/price-tracker/internal/models"
)

// Fetcher returns the raw name and price text for a product URL.
// A returned error means the whole fetch failed; partial results
// (name without price, or the reverse) come back with a nil error.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (models.Observation, error)
}

// Reconciler merges freshly fetched observations for one day into the
// ledger. Historical rows are never touched; only rows dated today are
// subject to rewrite.
type Reconciler struct {
	fetcher Fetcher
	log     *zap.SugaredLogger
}

// New creates a Reconciler around the given fetcher.
func New(fetcher Fetcher, log *zap.SugaredLogger) *Reconciler {
	return &Reconciler{fetcher: fetcher, log: log}
}

// Reconcile processes the URLs in list order against the ledger for
// the given day. It first drops stale same-day placeholder rows left
// by an earlier failed run, then fetches each URL that does not
// already have a valid price for today. One outcome is returned per
// URL, in input order. A fetch failure is recorded as a sentinel row
// and never aborts the remaining URLs.
func (r *Reconciler) Reconcile(ctx context.Context, l *ledger.Ledger, today time.Time, urls []string) []models.Outcome {
	today = models.Day(today)

	tracked := make(map[string]bool, len(urls))
	for _, u := range urls {
		tracked[u] = true
	}

	// A prior failed run may have left an N/A placeholder for today.
	// It must not block the retry below.
	removed := l.RemoveIf(func(rec models.Record) bool {
		return rec.Date.Equal(today) && tracked[rec.URL] && rec.PriceAbsent()
	})
	if removed > 0 {
		r.log.Infow("removed stale same-day placeholders", "count", removed)
	}

	outcomes := make([]models.Outcome, 0, len(urls))
	for _, url := range urls {
		if hasValidRecord(l, url, today) {
			r.log.Infow("already recorded valid price today", "url", url)
			outcomes = append(outcomes, models.Outcome{URL: url, Status: models.OutcomeSkipped})
			continue
		}

		obs, err := r.fetcher.Fetch(ctx, url)
		if err != nil {
			r.log.Errorw("fetch failed", "url", url, "error", err)
			rec := models.Record{
				Date:        today,
				ProductName: models.NameError,
				Price:       models.ValueAbsent,
				URL:         url,
			}
			l.Append(rec)
			outcomes = append(outcomes, models.Outcome{URL: url, Status: models.OutcomeFetchError, Record: &rec})
			continue
		}

		rec := recordFromObservation(today, url, obs)
		l.Append(rec)
		r.log.Infow("recorded observation", "url", url, "name", truncate(rec.ProductName, 60), "price", rec.Price)
		outcomes = append(outcomes, models.Outcome{URL: url, Status: models.OutcomeRecorded, Record: &rec})
	}
	return outcomes
}

func hasValidRecord(l *ledger.Ledger, url string, day time.Time) bool {
	for _, rec := range l.History(url) {
		if rec.Date.Equal(day) && !rec.PriceAbsent() {
			return true
		}
	}
	return false
}

func recordFromObservation(day time.Time, url string, obs models.Observation) models.Record {
	name := strings.TrimSpace(obs.Name)
	if name == "" {
		name = models.ValueAbsent
	}

	price := models.ValueAbsent
	if raw := strings.TrimSpace(obs.Price); raw != "" {
		if p, err := decimal.NewFromString(raw); err == nil {
			price = models.FormatPrice(p)
		}
	}

	return models.Record{
		Date:        day,
		ProductName: name,
		Price:       price,
		URL:         url,
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
