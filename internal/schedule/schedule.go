package schedule

import (
	"time"

	"dealercrm/internal/domain"
)

// Schedule binds a company's weekly business hours to its reference
// timezone. The zero value behaves as always-open wall-clock time.
// All methods are pure and safe for concurrent use.
type Schedule struct {
	Hours *domain.BusinessHours
	Loc   *time.Location
}

// For builds the schedule for a company, resolving its timezone.
func For(c *domain.Company) Schedule {
	return Schedule{Hours: c.BusinessHours, Loc: c.Location()}
}

func (s Schedule) loc() *time.Location {
	if s.Loc == nil {
		return time.UTC
	}
	return s.Loc
}

// IsOpen reports whether the company is open at the given instant.
// The open window is half-open: the start minute counts as open, the
// end minute counts as closed.
func (s Schedule) IsOpen(at time.Time) bool {
	if s.Hours.AlwaysOpen() {
		return true
	}
	t := at.In(s.loc())
	open, close, ok := s.window(t)
	if !ok {
		return false
	}
	return !t.Before(open) && t.Before(close)
}

// Deadline projects an SLA duration forward from start, consuming only
// open business time. Closed days are skipped at day granularity, so the
// scan stays cheap even for durations spanning weeks. A non-positive
// duration returns start unchanged.
func (s Schedule) Deadline(start time.Time, d time.Duration) time.Time {
	if d <= 0 {
		return start
	}
	if s.Hours.AlwaysOpen() || !s.hasOpenDay() {
		return start.Add(d)
	}

	cursor := start.In(s.loc())
	remaining := d
	for remaining > 0 {
		open, close, ok := s.window(cursor)
		switch {
		case !ok:
			cursor = nextMidnight(cursor)
		case cursor.Before(open):
			cursor = open
		case !cursor.Before(close):
			cursor = nextMidnight(cursor)
		default:
			available := close.Sub(cursor)
			if remaining <= available {
				cursor = cursor.Add(remaining)
				remaining = 0
			} else {
				remaining -= available
				cursor = nextMidnight(cursor)
			}
		}
	}
	return cursor
}

// Remaining returns the open business time between now and deadline,
// never negative. Callers polling a countdown re-invoke this; it is a
// pure function of the two instants, not a running timer.
func (s Schedule) Remaining(now, deadline time.Time) time.Duration {
	if s.Hours.AlwaysOpen() {
		if d := deadline.Sub(now); d > 0 {
			return d
		}
		return 0
	}
	if !now.Before(deadline) {
		return 0
	}

	cursor := now.In(s.loc())
	end := deadline.In(s.loc())
	var total time.Duration
	for cursor.Before(end) {
		if open, close, ok := s.window(cursor); ok {
			from := cursor
			if from.Before(open) {
				from = open
			}
			to := end
			if close.Before(to) {
				to = close
			}
			if to.After(from) {
				total += to.Sub(from)
			}
		}
		cursor = nextMidnight(cursor)
	}
	return total
}

// BusinessElapsed is the open business time consumed since createdAt.
// The countdown UI uses this; the sweeper deliberately does not (see
// WallClockElapsed).
func (s Schedule) BusinessElapsed(createdAt, now time.Time) time.Duration {
	return s.Remaining(createdAt, now)
}

// WallClockElapsed is plain elapsed time since createdAt, ignoring
// business hours. The sweeper's overdue check is wall-clock on purpose:
// server enforcement and client display intentionally differ.
func WallClockElapsed(createdAt, now time.Time) time.Duration {
	if d := now.Sub(createdAt); d > 0 {
		return d
	}
	return 0
}

// window resolves the open interval on t's calendar day in the schedule
// timezone. Missing, closed, malformed, or inverted (overnight) entries
// all report a closed day rather than an error.
func (s Schedule) window(t time.Time) (open, close time.Time, ok bool) {
	day, found := s.Hours.Days[t.Weekday()]
	if !found || !day.Open {
		return time.Time{}, time.Time{}, false
	}
	startT, err := time.Parse("15:04", day.Start)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	endT, err := time.Parse("15:04", day.End)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	open = time.Date(t.Year(), t.Month(), t.Day(), startT.Hour(), startT.Minute(), 0, 0, s.loc())
	close = time.Date(t.Year(), t.Month(), t.Day(), endT.Hour(), endT.Minute(), 0, 0, s.loc())
	if !close.After(open) {
		return time.Time{}, time.Time{}, false
	}
	return open, close, true
}

// hasOpenDay guards the forward scan against a schedule where every day
// is closed, which would otherwise never terminate.
func (s Schedule) hasOpenDay() bool {
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		t := time.Date(2000, 1, 2+int(wd), 12, 0, 0, 0, s.loc()) // 2000-01-02 is a Sunday
		if _, _, ok := s.window(t); ok {
			return true
		}
	}
	return false
}

func nextMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()+1, 0, 0, 0, 0, t.Location())
}
