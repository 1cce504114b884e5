// Package domain contains the core data types for the fleet journey backend.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (cleaning, repo, service, handler).
package domain

import (
	"time"
	_ "time/tzdata" // journey times must resolve even on hosts without zoneinfo

	"github.com/google/uuid"
)

// Location is the fixed civil time zone all journey timestamps are expressed in.
// Raw events arrive from the tracking API in UTC and are converted exactly once,
// by the normalizer.
var Location = func() *time.Location {
	loc, err := time.LoadLocation("Europe/Brussels")
	if err != nil {
		panic("domain: load Europe/Brussels: " + err.Error())
	}
	return loc
}()

// Journey is a single continuous vehicle movement after normalization.
// It is the unit flowing through the cleaning pipeline: created by Normalize,
// idle time filled in by RecalculateIdleTime, possibly folded into a merged
// replacement by MergeShortStops.
type Journey struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	StartAddress string `json:"start_address"`
	EndAddress   string `json:"end_address"`

	StartLongitude float64 `json:"start_longitude"`
	StartLatitude  float64 `json:"start_latitude"`
	EndLongitude   float64 `json:"end_longitude"`
	EndLatitude    float64 `json:"end_latitude"`

	// IdleSecondsAfter is the gap before the next journey in the same ordered
	// sequence. Always 0 for the chronologically last journey of a batch: the
	// trailing idle time is unknown until the next batch arrives and is filled
	// in by reconciliation.
	IdleSecondsAfter int `json:"idle_seconds_after"`
}

// StoredJourney is a persisted Journey. NeedsValidation is true on insert and
// flips to false exactly once, when an operator validates the journey.
type StoredJourney struct {
	ID        uuid.UUID `json:"id"`
	VehicleID string    `json:"vehicle_id"`
	Journey
	NeedsValidation bool      `json:"needs_validation"`
	CreatedAt       time.Time `json:"created_at"`
}
