package cleaning

import "github.com/prestanaute/backend/internal/domain"

// MaximalStopTime is the merge threshold in seconds: a stop strictly shorter
// than this (and longer than zero) does not split a journey in two.
const MaximalStopTime = 180

// MergeShortStops collapses runs of journeys separated by short stops into
// single logical journeys. A journey is a merge candidate when
// 0 < IdleSecondsAfter < MaximalStopTime; a maximal run of consecutive
// candidates plus the journey terminating the run becomes one journey taking
// start fields from the run's first element and end fields (including the
// idle time after the block) from the terminator. Scanning is greedy left to
// right and resumes after each merged block.
//
// A journey with IdleSecondsAfter == 0 is never a candidate: zero means
// "unknown, pending reconciliation", not "no stop". If a candidate run
// reaches the end of the slice, it is terminated by the last element.
//
// Same ordering precondition as RecalculateIdleTime. Output order is
// preserved and output length never exceeds input length.
func MergeShortStops(journeys []domain.Journey) []domain.Journey {
	merged := make([]domain.Journey, 0, len(journeys))

	i := 0
	for i < len(journeys) {
		if !isShortStop(journeys[i]) {
			merged = append(merged, journeys[i])
			i++
			continue
		}

		// Walk the run of candidates; j lands on the terminator — the first
		// non-candidate, or the last element when the run never ends.
		j := i + 1
		for j < len(journeys)-1 && isShortStop(journeys[j]) {
			j++
		}

		merged = append(merged, mergeRun(journeys[i], journeys[j]))
		i = j + 1
	}

	return merged
}

// isShortStop reports whether the journey's trailing stop is short enough to
// fold into the next journey.
func isShortStop(j domain.Journey) bool {
	return j.IdleSecondsAfter > 0 && j.IdleSecondsAfter < MaximalStopTime
}

// mergeRun builds the replacement journey for a merged block: start boundary
// from the first journey of the run, end boundary and trailing idle time from
// the terminator.
func mergeRun(first, last domain.Journey) domain.Journey {
	return domain.Journey{
		StartTime:        first.StartTime,
		EndTime:          last.EndTime,
		StartAddress:     first.StartAddress,
		EndAddress:       last.EndAddress,
		StartLongitude:   first.StartLongitude,
		StartLatitude:    first.StartLatitude,
		EndLongitude:     last.EndLongitude,
		EndLatitude:      last.EndLatitude,
		IdleSecondsAfter: last.IdleSecondsAfter,
	}
}
