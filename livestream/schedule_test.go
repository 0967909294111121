package livestream_test

import (
	"testing"
	"time"

	"waveline/livestream"
)

// Sunday services at 9:00 and 11:00, midweek Wednesday 19:00.
var schedule = []livestream.ServiceTime{
	{Weekday: time.Sunday, Hour: 9, Minute: 0},
	{Weekday: time.Sunday, Hour: 11, Minute: 0},
	{Weekday: time.Wednesday, Hour: 19, Minute: 0},
}

// at builds a local time on a known week: 2026-08-23 is a Sunday.
func at(day time.Weekday, hour, minute int) time.Time {
	base := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)
	offset := (int(day) - int(base.Weekday()) + 7) % 7
	return time.Date(2026, 8, 23+offset, hour, minute, 0, 0, time.UTC)
}

func TestNextStart(t *testing.T) {
	now := at(time.Sunday, 10, 0)

	next, ok := livestream.NextStart(now, schedule)
	if !ok {
		t.Fatal("expected a next start")
	}
	expected := at(time.Sunday, 11, 0)
	if !next.Equal(expected) {
		t.Errorf("expected %v, got %v", expected, next)
	}
}

func TestNextStart_WrapsToNextWeek(t *testing.T) {
	//Wednesday evening after the midweek service: next is Sunday 9:00
	now := at(time.Wednesday, 22, 0)

	next, ok := livestream.NextStart(now, schedule)
	if !ok {
		t.Fatal("expected a next start")
	}
	if next.Weekday() != time.Sunday || next.Hour() != 9 {
		t.Errorf("expected next Sunday 9:00, got %v", next)
	}
	if !next.After(now) {
		t.Errorf("next start %v is not after now %v", next, now)
	}
}

func TestNextPollInterval_Tiers(t *testing.T) {
	tests := []struct {
		name     string
		now      time.Time
		expected time.Duration
	}{
		{"mid service", at(time.Sunday, 9, 30), livestream.IntervalLive},
		{"minutes before start", at(time.Sunday, 8, 57), livestream.IntervalLive},
		{"shortly before start", at(time.Sunday, 8, 35), livestream.IntervalNear},
		{"between services", at(time.Sunday, 10, 45), livestream.IntervalNear},
		{"sunday early morning", at(time.Sunday, 7, 30), livestream.IntervalApproach},
		{"saturday night", at(time.Saturday, 23, 45), livestream.IntervalIdle},
		{"tuesday afternoon", at(time.Tuesday, 14, 0), livestream.IntervalIdle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := livestream.NextPollInterval(tt.now, schedule); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestNextPollInterval_EmptySchedule(t *testing.T) {
	if got := livestream.NextPollInterval(time.Now(), nil); got != livestream.IntervalIdle {
		t.Errorf("expected idle interval for empty schedule, got %v", got)
	}
}

func TestNextPollInterval_LiveWindowEnds(t *testing.T) {
	//two hours after the last Sunday service the stream is assumed over
	now := at(time.Sunday, 13, 1)
	got := livestream.NextPollInterval(now, schedule)
	if got == livestream.IntervalLive {
		t.Errorf("expected live window to have closed, got %v", got)
	}
}
