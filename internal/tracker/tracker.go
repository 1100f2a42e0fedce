// Package tracker orchestrates one run of the price digest pipeline:
// catalog → price fetch → history merge → performance → report → delivery.
package tracker

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/codyseavey/tcg-price-digest/internal/catalog"
	"github.com/codyseavey/tcg-price-digest/internal/discord"
	"github.com/codyseavey/tcg-price-digest/internal/metrics"
	"github.com/codyseavey/tcg-price-digest/internal/models"
	"github.com/codyseavey/tcg-price-digest/internal/performance"
	"github.com/codyseavey/tcg-price-digest/internal/report"
	"github.com/codyseavey/tcg-price-digest/internal/snapshot"
	"github.com/codyseavey/tcg-price-digest/internal/store"
)

// PriceSource supplies one market price per product id. A nil price with a
// nil error means the product has no usable quote; an error degrades to the
// same "absent" outcome after logging.
type PriceSource interface {
	BeginRun()
	FetchPrice(ctx context.Context, productID string) (*float64, error)
}

// ReportSink delivers the rendered report.
type ReportSink interface {
	Enabled() bool
	Send(ctx context.Context, msg discord.Message) error
}

// Tracker runs the pipeline. All collaborators are injected, including the
// clock, so tests can fix "now".
type Tracker struct {
	catalogPath string
	store       *store.FileStore
	source      PriceSource
	sink        ReportSink
	snapshots   *snapshot.Service // nil disables the archive
	now         func() time.Time
}

// Option tweaks a Tracker at construction.
type Option func(*Tracker)

// WithSnapshots enables the owner value snapshot archive.
func WithSnapshots(s *snapshot.Service) Option {
	return func(t *Tracker) { t.snapshots = s }
}

// WithClock fixes the tracker's notion of current time.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// New creates a tracker over the given collaborators.
func New(catalogPath string, st *store.FileStore, source PriceSource, sink ReportSink, opts ...Option) *Tracker {
	t := &Tracker{
		catalogPath: catalogPath,
		store:       st,
		source:      source,
		sink:        sink,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Run executes one full pipeline pass. Per-item fetch failures, store
// corruption, and delivery failures degrade and never abort the run; only a
// missing catalog or a failed state write is fatal.
func (t *Tracker) Run(ctx context.Context) (*report.Report, error) {
	start := t.now()
	runID := uuid.New().String()[:8]
	log.Printf("Tracker: run %s starting", runID)

	cat, err := catalog.ParseFile(t.catalogPath)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	records := t.store.Load()
	lastRun, hasLastRun := t.store.LoadLastRun()
	today := start.Format(models.DateFormat)

	// Fetch once per unique product id, in catalog order. Prior stored
	// prices are captured before any merge so line deltas compare against
	// the previous run, not this one.
	t.source.BeginRun()
	ids := cat.ProductIDs()
	metrics.ItemsTracked.Set(float64(len(ids)))

	current := make(map[string]*float64, len(ids))
	previous := make(map[string]*float64, len(ids))

	for _, id := range ids {
		if rec, ok := records[id]; ok {
			price := rec.Price
			previous[id] = &price
		}

		price, err := t.source.FetchPrice(ctx, id)
		if err != nil {
			log.Printf("Tracker: price fetch failed for product %s: %v", id, err)
			metrics.FetchesTotal.WithLabelValues("error").Inc()
		} else if price == nil {
			log.Printf("Tracker: no price found for product %s", id)
			metrics.FetchesTotal.WithLabelValues("absent").Inc()
		} else {
			metrics.FetchesTotal.WithLabelValues("ok").Inc()
		}
		current[id] = price

		if price != nil {
			records[id] = store.RecordObservation(records[id], today, *price)
		}
	}

	rep := t.buildReport(cat, records, current, previous, runID, start, lastRun, hasLastRun)

	// Persist before delivery: a webhook failure must never cost us the
	// fetched data.
	if err := t.store.Save(records); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	if err := t.store.SaveLastRun(start); err != nil {
		log.Printf("Tracker: failed to record run timestamp: %v", err)
	}

	if t.snapshots != nil {
		if err := t.snapshots.RecordReport(rep); err != nil {
			log.Printf("Tracker: failed to archive value snapshots: %v", err)
		}
	}

	t.deliver(ctx, rep)

	metrics.RunsTotal.Inc()
	metrics.RunDuration.Observe(time.Since(start).Seconds())
	metrics.LastRunTimestamp.Set(float64(start.Unix()))
	for _, s := range rep.Sections {
		metrics.OwnerValueUSD.WithLabelValues(s.Owner).Set(s.Total)
	}

	log.Printf("Tracker: run %s finished: %d owners, %d products, took %v",
		runID, len(rep.Sections), len(ids), time.Since(start).Round(time.Millisecond))
	return rep, nil
}

// buildReport assembles one section per owner from the merged records.
func (t *Tracker) buildReport(
	cat *catalog.Catalog,
	records map[string]models.ItemRecord,
	current, previous map[string]*float64,
	runID string,
	start time.Time,
	lastRun time.Time,
	hasLastRun bool,
) *report.Report {
	rep := &report.Report{
		RunID:       runID,
		GeneratedAt: start,
	}
	if hasLastRun {
		rep.LastRun = &lastRun
	}

	for _, owner := range cat.Owners {
		section := report.Section{Owner: owner.Name}

		var histories [][]models.PriceObservation
		for _, id := range owner.Products {
			price := current[id]
			section.Lines = append(section.Lines, report.NewItemLine(id, cat.DisplayName(id), previous[id], price))
			if price != nil {
				section.Total += *price
			}
			if rec, ok := records[id]; ok {
				histories = append(histories, rec.History)
			}
		}
		section.Total = performance.Round2(section.Total)
		section.Deltas = performance.OwnerDeltas(histories, section.Total, start)
		report.SortLines(section.Lines)

		rep.Sections = append(rep.Sections, section)
	}

	return rep
}

// deliver posts the report to the webhook. Absent configuration and failed
// deliveries are logged conditions, nothing more; the data is already saved.
func (t *Tracker) deliver(ctx context.Context, rep *report.Report) {
	if t.sink == nil || !t.sink.Enabled() {
		log.Printf("Tracker: webhook not configured, skipping delivery")
		metrics.WebhookDeliveriesTotal.WithLabelValues("skipped").Inc()
		return
	}

	if err := t.sink.Send(ctx, report.ToWebhook(rep)); err != nil {
		log.Printf("Tracker: report delivery failed: %v", err)
		metrics.WebhookDeliveriesTotal.WithLabelValues("failed").Inc()
		return
	}
	metrics.WebhookDeliveriesTotal.WithLabelValues("ok").Inc()
}
