package scrape

import (
	"fmt"
	"strings"
	"time"

	"fxcal/internal/calendar"
)

// dayLayouts are the observed formats of a date cell ("Mon Jan 15",
// sometimes rendered without the space after the weekday).
var dayLayouts = []string{"Mon Jan 2", "MonJan 2"}

// rowCursor carries the sparse date/time state down a page. A date cell
// appears only on the first row of a day; a time cell only when the
// time changes. Date cells carry no year, so the year is inferred: the
// first date on a page takes the seed year, every later one takes the
// year of the previous day plus one day, which rolls Dec 31 into the
// next January automatically.
type rowCursor struct {
	venue    *time.Location
	seedYear int

	// fixYearWrap handles the one inference the prev-day rule cannot:
	// widget pages can open on the tail of the previous December when
	// the traversal starts in January.
	fixYearWrap bool
	startMonth  time.Month

	day     time.Time
	haveDay bool

	current time.Time
	kind    calendar.TimeKind

	first time.Time
	last  time.Time
}

func newRowCursor(venue *time.Location, seedYear int) *rowCursor {
	return &rowCursor{venue: venue, seedYear: seedYear}
}

// applyDate parses a date cell and resets the cursor to that day's
// midnight with a valid (if implicit) time.
func (rc *rowCursor) applyDate(text string) error {
	cleaned := strings.TrimSpace(strings.ReplaceAll(text, "\n", ""))

	var (
		parsed time.Time
		err    error
	)
	for _, layout := range dayLayouts {
		parsed, err = time.Parse(layout, cleaned)
		if err == nil {
			break
		}
	}
	if err != nil {
		return fmt.Errorf("unrecognized date cell %q: %w", text, err)
	}

	year := rc.seedYear
	if rc.haveDay {
		year = rc.day.AddDate(0, 0, 1).Year()
	}

	day := time.Date(year, parsed.Month(), parsed.Day(), 0, 0, 0, 0, rc.venue)
	if !rc.haveDay && rc.fixYearWrap &&
		day.Month() == time.December && rc.startMonth == time.January {
		day = day.AddDate(-1, 0, 0)
	}

	rc.day = day
	rc.haveDay = true
	rc.current = day
	rc.kind = calendar.TimeValid

	if rc.first.IsZero() {
		rc.first = day
	}
	rc.last = day
	return nil
}

// applyTime combines the current day with a time cell. Valid, all-day
// and pending states persist for following rows until the next cell
// changes them; a malformed cell affects only its own row and leaves
// the carried state untouched.
func (rc *rowCursor) applyTime(text string) calendar.TimeKind {
	instant, kind := calendar.ApplyRowTime(rc.day, text)
	if kind == calendar.TimeMalformed {
		return kind
	}
	rc.current, rc.kind = instant, kind
	return kind
}
