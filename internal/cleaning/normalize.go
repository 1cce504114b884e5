// Package cleaning turns raw journey events from the tracking API into
// canonical journeys: validation and reshaping (Normalize), idle-time
// recomputation (RecalculateIdleTime) and short-stop merging
// (MergeShortStops). Everything here is a pure in-memory transform; no I/O.
package cleaning

import (
	"regexp"
	"time"

	"github.com/prestanaute/backend/internal/domain"
	"github.com/prestanaute/backend/internal/masternaut"
)

// Sentinel addresses stored when the source omitted them. Kept verbatim from
// the billing side, which matches on these strings.
const (
	DefaultStartAddress = "adresse depart non disponible"
	DefaultEndAddress   = "adresse arrive non disponible"
)

// rawTimeFormat is the layout of timestamps in accepted raw events (UTC).
const rawTimeFormat = "2006-01-02T15:04:05"

// rawTimePattern is the contract for a usable raw timestamp: a "2xxx" year,
// month 01-12, day 01-31, time 00:00:00-23:59:59. Purely syntactic — day
// bounds are not checked against the month.
var rawTimePattern = regexp.MustCompile(`^2\d{3}-(0[1-9]|1[0-2])-(0[1-9]|[12]\d|3[01])T([01]\d|2[0-3]):([0-5]\d):([0-5]\d)$`)

// Normalize converts raw events into canonical journeys, silently dropping
// any event whose start or end timestamp is missing, malformed, or names a
// day the calendar does not have (Feb 30 passes the pattern but not the
// parse). Accepted timestamps are converted from UTC to the fixed local zone;
// missing addresses and coordinates get their defaults. Input order is
// preserved; an empty result is valid and no error is ever raised.
func Normalize(events []masternaut.RawJourney) []domain.Journey {
	journeys := make([]domain.Journey, 0, len(events))

	for _, ev := range events {
		start, ok := parseRawTime(ev.StartDate)
		if !ok {
			continue
		}
		end, ok := parseRawTime(ev.EndDate)
		if !ok {
			continue
		}

		j := domain.Journey{
			StartTime:    start,
			EndTime:      end,
			StartAddress: DefaultStartAddress,
			EndAddress:   DefaultEndAddress,
		}
		if ev.StartAddress != nil {
			j.StartAddress = *ev.StartAddress
		}
		if ev.EndAddress != nil {
			j.EndAddress = *ev.EndAddress
		}
		if ev.StartCoordinate != nil {
			j.StartLongitude = ev.StartCoordinate.Longitude
			j.StartLatitude = ev.StartCoordinate.Latitude
		}
		if ev.EndCoordinate != nil {
			j.EndLongitude = ev.EndCoordinate.Longitude
			j.EndLatitude = ev.EndCoordinate.Latitude
		}

		journeys = append(journeys, j)
	}

	return journeys
}

// parseRawTime validates a raw timestamp against the contract pattern and
// converts it to the local zone.
func parseRawTime(s string) (time.Time, bool) {
	if !rawTimePattern.MatchString(s) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(rawTimeFormat, s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t.In(domain.Location), true
}
