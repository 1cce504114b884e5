package cleaning

import "github.com/prestanaute/backend/internal/domain"

// RecalculateIdleTime sets each journey's IdleSecondsAfter to the whole-second
// gap between its end and the next journey's start. The last journey is forced
// to 0 regardless of any prior value: its trailing idle time is unknown until
// the next batch arrives, and reconciliation fills it in then.
//
// Precondition: journeys are in chronological ascending order by start time —
// the caller guarantees this, nothing here sorts. Gaps are not clamped; the
// source only ever yields non-overlapping journeys.
//
// The slice is modified in place and returned for chaining.
func RecalculateIdleTime(journeys []domain.Journey) []domain.Journey {
	if len(journeys) == 0 {
		return journeys
	}

	for i := 0; i < len(journeys)-1; i++ {
		gap := journeys[i+1].StartTime.Sub(journeys[i].EndTime)
		journeys[i].IdleSecondsAfter = int(gap.Seconds())
	}
	journeys[len(journeys)-1].IdleSecondsAfter = 0

	return journeys
}
