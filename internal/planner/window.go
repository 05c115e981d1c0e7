package planner

import (
	"time"
)

// Granularity is the page size of one calendar request.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// Window is one page request: a contiguous date range at a granularity.
// End is exclusive and equals the cursor position after the window is
// consumed.
type Window struct {
	Start       time.Time
	End         time.Time
	Granularity Granularity
}

// Decision is the tri-state outcome of planning the next window.
type Decision int

const (
	// DecisionReady means the window is safe to fetch now.
	DecisionReady Decision = iota
	// DecisionNotYet means the cursor has caught up to the present and
	// the window has not elapsed; the traversal must stop, not retry.
	DecisionNotYet
	// DecisionExhausted means the cursor has passed the configured
	// horizon; there is nothing left to plan.
	DecisionExhausted
)

// Planner implements the granularity state machine. All "has this
// window elapsed" checks are made against wall-clock time in the venue
// timezone, which is distinct from any record's source timezone.
type Planner struct {
	venue       *time.Location
	horizon     time.Time
	allowFuture bool
	now         func() time.Time
}

// New creates a planner for the given venue timezone and horizon.
// When allowFuture is set, day windows in the future are fetchable
// (they carry scheduled events with no actuals yet).
func New(venue *time.Location, horizon time.Time, allowFuture bool) *Planner {
	return &Planner{
		venue:       venue,
		horizon:     horizon,
		allowFuture: allowFuture,
		now:         time.Now,
	}
}

// Plan evaluates the cursor against venue wall-clock time and picks the
// coarsest granularity whose window has fully elapsed:
//
//   - month, when the cursor sits on a month boundary and the whole
//     month is in the past;
//   - week, when the cursor sits on a week boundary (Sunday) and the
//     week has elapsed — unless a day inside that week begins a month
//     that has independently elapsed, in which case a day window keeps
//     resumption aligned to the month boundary;
//   - day, when the single day has elapsed, is today, or lies in the
//     future with future fetching enabled.
func (p *Planner) Plan(cursor time.Time) (Window, Decision) {
	cursor = Midnight(cursor.In(p.venue))
	now := p.now().In(p.venue)

	if cursor.After(p.horizon) {
		return Window{}, DecisionExhausted
	}

	if cursor.Day() == 1 && p.elapsed(cursor, GranularityMonth, now) {
		return p.window(cursor, GranularityMonth), DecisionReady
	}

	if cursor.Weekday() == time.Sunday && p.elapsed(cursor, GranularityWeek, now) {
		for i := 0; i < 7; i++ {
			d := cursor.AddDate(0, 0, i)
			if d.Day() == 1 && p.elapsed(d, GranularityMonth, now) {
				return p.window(cursor, GranularityDay), DecisionReady
			}
		}
		return p.window(cursor, GranularityWeek), DecisionReady
	}

	if p.elapsed(cursor, GranularityDay, now) || sameDate(cursor, now) ||
		(p.allowFuture && cursor.After(now)) {
		return p.window(cursor, GranularityDay), DecisionReady
	}

	return Window{}, DecisionNotYet
}

func (p *Planner) window(start time.Time, g Granularity) Window {
	return Window{Start: start, End: Advance(start, g), Granularity: g}
}

// elapsed reports whether the window starting at d has fully passed.
func (p *Planner) elapsed(d time.Time, g Granularity, now time.Time) bool {
	return !Advance(d, g).After(now)
}

// Advance moves the cursor past a consumed window: one day, seven days,
// or to the first day of the next calendar month, always normalized to
// midnight.
func Advance(cursor time.Time, g Granularity) time.Time {
	cursor = Midnight(cursor)
	switch g {
	case GranularityMonth:
		return time.Date(cursor.Year(), cursor.Month()+1, 1, 0, 0, 0, 0, cursor.Location())
	case GranularityWeek:
		return cursor.AddDate(0, 0, 7)
	default:
		return cursor.AddDate(0, 0, 1)
	}
}

// Midnight truncates a time to the start of its day, keeping the
// location.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
