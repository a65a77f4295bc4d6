package app

import (
	"sort"
	"time"
)

// UpcomingAt filters a category list down to the public agenda as of the
// given instant: only active events, only events whose datum is not in
// the past (the boundary itself counts as upcoming), sorted ascending by
// datum. The sort is stable so events sharing a datum keep their stored
// order. Events with an unparseable datum cannot be compared to now and
// are left out.
func UpcomingAt(events []Event, now time.Time) []Event {
	upcoming := make([]Event, 0, len(events))
	times := make(map[string]time.Time, len(events))

	for _, e := range events {
		if !e.Actief {
			continue
		}
		t, err := time.Parse(time.RFC3339, e.Datum)
		if err != nil {
			continue
		}
		if t.Before(now) {
			continue
		}
		upcoming = append(upcoming, e)
		times[e.ID] = t
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return times[upcoming[i].ID].Before(times[upcoming[j].ID])
	})
	return upcoming
}
