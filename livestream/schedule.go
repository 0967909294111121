package livestream

import "time"

// ServiceTime is a weekly recurring livestream slot.
type ServiceTime struct {
	Weekday time.Weekday
	Hour    int
	Minute  int
}

// Poll interval tiers. Checking a status endpoint every 30 seconds all week
// is wasteful; the schedule tells us when a stream could plausibly be live,
// so the interval tightens as a service time approaches.
const (
	IntervalLive     = 30 * time.Second
	IntervalNear     = 2 * time.Minute
	IntervalApproach = 5 * time.Minute
	IntervalIdle     = 30 * time.Minute
)

// LiveWindow is how long after its scheduled start a service is assumed to
// possibly still be streaming.
const LiveWindow = 90 * time.Minute

// occurrence returns the occurrence of slot closest to now within the
// surrounding week, searching direction days at a time.
func occurrence(now time.Time, slot ServiceTime, direction int) time.Time {
	day := time.Date(now.Year(), now.Month(), now.Day(), slot.Hour, slot.Minute, 0, 0, now.Location())
	for i := 0; i < 8; i++ {
		if day.Weekday() == slot.Weekday {
			if direction > 0 && !day.Before(now) {
				return day
			}
			if direction < 0 && day.Before(now) {
				return day
			}
		}
		day = day.AddDate(0, 0, direction)
	}
	return time.Time{}
}

// NextStart returns the earliest scheduled start at or after now.
func NextStart(now time.Time, schedule []ServiceTime) (time.Time, bool) {
	var best time.Time
	for _, slot := range schedule {
		t := occurrence(now, slot, 1)
		if t.IsZero() {
			continue
		}
		if best.IsZero() || t.Before(best) {
			best = t
		}
	}
	return best, !best.IsZero()
}

// PrevStart returns the latest scheduled start strictly before now.
func PrevStart(now time.Time, schedule []ServiceTime) (time.Time, bool) {
	var best time.Time
	for _, slot := range schedule {
		t := occurrence(now, slot, -1)
		if t.IsZero() {
			continue
		}
		if best.IsZero() || t.After(best) {
			best = t
		}
	}
	return best, !best.IsZero()
}

// NextPollInterval picks the poll interval for the current moment:
//
//	inside a service's live window (start-5m .. start+90m)  -> 30s
//	within 30 minutes of the next start                     -> 2m
//	within 2 hours of the next start                        -> 5m
//	otherwise                                               -> 30m
//
// An empty schedule always polls at the idle interval.
func NextPollInterval(now time.Time, schedule []ServiceTime) time.Duration {
	if prev, ok := PrevStart(now, schedule); ok {
		if now.Sub(prev) <= LiveWindow {
			return IntervalLive
		}
	}

	next, ok := NextStart(now, schedule)
	if !ok {
		return IntervalIdle
	}

	until := next.Sub(now)
	switch {
	case until <= 5*time.Minute:
		return IntervalLive
	case until <= 30*time.Minute:
		return IntervalNear
	case until <= 2*time.Hour:
		return IntervalApproach
	}
	return IntervalIdle
}
