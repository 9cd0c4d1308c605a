// Package tracker runs one full tracking pass: load the ledger,
// reconcile today's observations, persist, derive analytics, and hand
// the rendered payloads to the notifiers.
package tracker

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kmorten/price-tracker/internal/analyze"
	"github.com/kmorten/price-tracker/internal/cache"
	"github.com/kmorten/price-tracker/internal/ledger"
	"github.com/kmorten/price-tracker/internal/models"
	"github.com/kmorten/price-tracker/internal/notify"
	"github.com/kmorten/price-tracker/internal/reconcile"
	"github.com/kmorten/price-tracker/internal/report"
)

// Params collects the tracker's collaborators. Store, Fetcher, and
// URLs are required; the rest are optional.
type Params struct {
	Store     ledger.Store
	Fetcher   reconcile.Fetcher
	URLs      []string
	Subject   string
	Notifiers []notify.Notifier
	Producer  *notify.Producer
	Cache     *cache.Cache
	Log       *zap.SugaredLogger
}

// Tracker orchestrates a daily run.
type Tracker struct {
	store     ledger.Store
	rec       *reconcile.Reconciler
	urls      []string
	subject   string
	notifiers []notify.Notifier
	producer  *notify.Producer
	cache     *cache.Cache
	log       *zap.SugaredLogger
}

// New creates a Tracker from its collaborators.
func New(p Params) *Tracker {
	return &Tracker{
		store:     p.Store,
		rec:       reconcile.New(p.Fetcher, p.Log),
		urls:      p.URLs,
		subject:   p.Subject,
		notifiers: p.Notifiers,
		producer:  p.Producer,
		cache:     p.Cache,
		log:       p.Log,
	}
}

// Run executes one tracking pass for the calendar day of now. The
// ledger is saved before any notification is attempted, so delivery
// failures never roll back recorded prices. Ledger I/O errors abort
// the run.
func (t *Tracker) Run(ctx context.Context, now time.Time) (*models.RunSummary, error) {
	today := models.Day(now)
	yesterday := today.AddDate(0, 0, -1)

	l, err := t.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	t.log.Infow("ledger loaded", "rows", l.Len(), "urls", len(t.urls))

	outcomes := t.rec.Reconcile(ctx, l, today, t.urls)

	if err := t.store.Save(ctx, l); err != nil {
		return nil, fmt.Errorf("failed to save ledger: %w", err)
	}

	entries := make([]report.Entry, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Status == models.OutcomeSkipped {
			continue
		}
		// fetch-error products report every value as N/A
		var a models.Analysis
		if o.Status == models.OutcomeRecorded {
			a = analyze.Analyze(l, o.URL, today, yesterday)
		}
		if e, ok := report.FromOutcome(o, a); ok {
			entries = append(entries, e)
		}
	}

	body, hasReport := report.Build(today, entries)
	alert, hasAlert := report.BuildAlert(entries)

	t.publishEvents(ctx, today, outcomes, entries)

	summary := &models.RunSummary{
		Date:        today.Format(models.DateLayout),
		Outcomes:    outcomes,
		GeneratedAt: time.Now(),
	}
	if hasReport {
		summary.ReportBody = body
	}
	if hasAlert {
		summary.AlertBody = alert
	}

	if t.cache != nil {
		if err := t.cache.StoreSummary(ctx, summary); err != nil {
			t.log.Errorw("failed to cache run summary", "error", err)
		}
	}

	t.deliver(ctx, summary)
	return summary, nil
}

func (t *Tracker) publishEvents(ctx context.Context, today time.Time, outcomes []models.Outcome, entries []report.Entry) {
	if t.producer == nil {
		return
	}
	for _, o := range outcomes {
		var err error
		switch o.Status {
		case models.OutcomeRecorded:
			err = t.producer.PublishPriceRecorded(ctx, *o.Record)
		case models.OutcomeFetchError:
			err = t.producer.PublishFetchFailed(ctx, o.URL, today)
		}
		if err != nil {
			t.log.Errorw("failed to publish price event", "url", o.URL, "error", err)
		}
	}
	for _, e := range entries {
		if !analyze.DroppedBelow(e.TodayPrice, e.PreviousPrice) {
			continue
		}
		if err := t.producer.PublishPriceDrop(ctx, e.URL, e.Name, today, *e.TodayPrice, *e.PreviousPrice); err != nil {
			t.log.Errorw("failed to publish price drop event", "url", e.URL, "error", err)
		}
	}
}

func (t *Tracker) deliver(ctx context.Context, summary *models.RunSummary) {
	if summary.ReportBody == "" {
		t.log.Info("no new entries to report today")
		return
	}
	for _, n := range t.notifiers {
		if err := n.SendReport(ctx, t.subject, summary.ReportBody); err != nil {
			t.log.Errorw("failed to send report", "error", err)
		}
		if summary.AlertBody == "" {
			continue
		}
		if err := n.SendAlert(ctx, summary.AlertBody); err != nil {
			t.log.Errorw("failed to send alert", "error", err)
		}
	}
}
