// Package service contains the business logic for the fleet journey backend.
// Services validate inputs, enforce business rules, and orchestrate source,
// cleaning and repo calls. No SQL lives here — services depend on repo
// interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prestanaute/backend/internal/cleaning"
	"github.com/prestanaute/backend/internal/domain"
	"github.com/prestanaute/backend/internal/masternaut"
	"github.com/prestanaute/backend/internal/metrics"
	"github.com/prestanaute/backend/internal/repo"
)

// defaultLookback is the ingestion window for a vehicle with no stored
// history: three days back from now.
const defaultLookback = 72 * time.Hour

// RawJourneySource yields raw journey events for a vehicle within a time
// window. Defining the interface here (in the consumer package) lets ingest
// tests inject a fake source instead of the HTTP client.
type RawJourneySource interface {
	VehicleJourneys(ctx context.Context, vehicleID string, start, end time.Time) ([]masternaut.RawJourney, error)
}

// IngestReport summarizes one ingestion run for one vehicle.
type IngestReport struct {
	VehicleID   string    `json:"vehicle_id"`
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`

	Fetched    int `json:"fetched"`    // raw events received from the API
	Normalized int `json:"normalized"` // events surviving validation/reshaping
	Merged     int `json:"merged"`     // journeys after short-stop merging

	Stored    int `json:"stored"`    // journeys persisted this run
	Conflicts int `json:"conflicts"` // duplicate inserts absorbed as no-ops
	Failed    int `json:"failed"`    // journeys skipped on storage errors

	// Reconciled is true when a previously held-back journey's idle time was
	// filled in from this batch's first journey.
	Reconciled bool `json:"reconciled"`
}

// IngestService drives the end-to-end pipeline per vehicle:
// determine window → fetch → normalize → recalculate → merge →
// reconcile-with-history → persist (holding back the last journey).
//
// One invocation processes one vehicle's window to completion. Callers must
// serialize ingestion per vehicle; nothing here locks.
type IngestService struct {
	source   RawJourneySource
	journeys repo.JourneyRepo
	metrics  *metrics.Collector
	log      *slog.Logger
	now      func() time.Time
}

// IngestOption customizes an IngestService.
type IngestOption func(*IngestService)

// WithClock overrides the service's notion of "now". Tests use it to pin the
// ingestion window.
func WithClock(now func() time.Time) IngestOption {
	return func(s *IngestService) { s.now = now }
}

// WithMetrics attaches a metrics collector; without it the service runs
// unobserved.
func WithMetrics(c *metrics.Collector) IngestOption {
	return func(s *IngestService) { s.metrics = c }
}

// NewIngestService constructs an IngestService over the given source and store.
func NewIngestService(source RawJourneySource, journeys repo.JourneyRepo, log *slog.Logger, opts ...IngestOption) *IngestService {
	s := &IngestService{
		source:   source,
		journeys: journeys,
		log:      log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IngestVehicle runs the full pipeline for one vehicle. Fetch failures abort
// the run; per-journey storage failures are logged and skipped so the rest of
// the batch still lands. The returned report is valid even on error, up to the
// stage that failed.
func (s *IngestService) IngestVehicle(ctx context.Context, vehicleID string) (IngestReport, error) {
	started := s.now()
	windowEnd := started.In(domain.Location)

	windowStart, err := s.journeys.LastEndTime(ctx, vehicleID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		// First-ever ingestion for this vehicle.
		windowStart = windowEnd.Add(-defaultLookback)
	case err != nil:
		return IngestReport{VehicleID: vehicleID}, fmt.Errorf("service.IngestService.IngestVehicle: %w", err)
	}

	report := IngestReport{
		VehicleID:   vehicleID,
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
	}

	raw, err := s.source.VehicleJourneys(ctx, vehicleID, windowStart, windowEnd)
	if err != nil {
		if s.metrics != nil {
			s.metrics.FetchErrors.Inc()
		}
		return report, fmt.Errorf("service.IngestService.IngestVehicle: %w", err)
	}
	report.Fetched = len(raw)
	if s.metrics != nil {
		s.metrics.JourneysFetched.Add(float64(len(raw)))
	}

	// A single journey has no boundary to recalculate against.
	if len(raw) < 2 {
		s.log.Info("nothing to ingest", "vehicle_id", vehicleID, "fetched", len(raw))
		return report, nil
	}

	journeys := cleaning.Normalize(raw)
	report.Normalized = len(journeys)
	if s.metrics != nil {
		s.metrics.JourneysDropped.Add(float64(len(raw) - len(journeys)))
	}

	journeys = cleaning.MergeShortStops(cleaning.RecalculateIdleTime(journeys))
	report.Merged = len(journeys)

	if len(journeys) < 2 {
		s.log.Info("too few journeys after cleaning", "vehicle_id", vehicleID, "merged", len(journeys))
		return report, nil
	}

	report.Reconciled = s.reconcile(ctx, vehicleID, journeys[0])

	// Hold back the last journey: its trailing idle time stays unknown until
	// the next run observes what follows it.
	for _, j := range journeys[:len(journeys)-1] {
		_, err := s.journeys.Insert(ctx, domain.StoredJourney{VehicleID: vehicleID, Journey: j})
		switch {
		case errors.Is(err, domain.ErrConflict):
			// Re-fetched journey already stored on a previous run.
			report.Conflicts++
			if s.metrics != nil {
				s.metrics.StoreConflicts.Inc()
			}
		case err != nil:
			report.Failed++
			if s.metrics != nil {
				s.metrics.StoreErrors.Inc()
			}
			s.log.Error("store journey failed",
				"vehicle_id", vehicleID,
				"start_time", j.StartTime,
				"error", err,
			)
		default:
			report.Stored++
			if s.metrics != nil {
				s.metrics.JourneysStored.Inc()
			}
		}
	}

	if s.metrics != nil {
		s.metrics.RunDuration.Observe(time.Since(started).Seconds())
	}
	s.log.Info("ingestion run finished",
		"vehicle_id", vehicleID,
		"fetched", report.Fetched,
		"merged", report.Merged,
		"stored", report.Stored,
		"conflicts", report.Conflicts,
		"failed", report.Failed,
		"reconciled", report.Reconciled,
	)

	return report, nil
}

// reconcile fills in the idle time of the most recently stored journey whose
// trailing idle is still unknown, now that firstNew tells us when the vehicle
// moved again. Missing tail means first-ever ingestion and is not an error;
// storage failures are logged and the run continues.
func (s *IngestService) reconcile(ctx context.Context, vehicleID string, firstNew domain.Journey) bool {
	tail, err := s.journeys.ZeroIdleTail(ctx, vehicleID)
	if errors.Is(err, domain.ErrNotFound) {
		return false
	}
	if err != nil {
		s.log.Error("reconciliation lookup failed", "vehicle_id", vehicleID, "error", err)
		return false
	}

	gap := int(firstNew.StartTime.Sub(tail.EndTime).Seconds())
	if err := s.journeys.UpdateIdleSeconds(ctx, tail.ID, gap); err != nil {
		s.log.Error("reconciliation update failed", "vehicle_id", vehicleID, "journey_id", tail.ID, "error", err)
		return false
	}
	return true
}
