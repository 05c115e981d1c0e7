package calendar

import (
	"strings"
	"time"
)

// TimeKind classifies the raw time cell of a calendar row. The source
// uses prose markers for rows that have no clock time: "All Day" for
// day-long events and "Data For ..." for periods whose data has not
// been published yet.
type TimeKind int

const (
	// TimeValid means a concrete clock time was parsed.
	TimeValid TimeKind = iota
	// TimeAllDay means the event spans the whole day; the instant is
	// pinned to 23:59:59 local so it sorts after timed events.
	TimeAllDay
	// TimePending means the row announces data for a period that has
	// not elapsed; the row carries no usable release instant.
	TimePending
	// TimeMalformed means the cell could not be interpreted at all.
	TimeMalformed
)

// ApplyRowTime combines a row's date with its raw time cell and returns
// the resulting instant together with an explicit classification. The
// caller branches on the kind instead of inspecting sentinel field
// values.
func ApplyRowTime(date time.Time, raw string) (time.Time, TimeKind) {
	text := strings.TrimSpace(raw)

	switch {
	case strings.Contains(text, "Day"):
		return time.Date(date.Year(), date.Month(), date.Day(), 23, 59, 59, 0, date.Location()), TimeAllDay
	case strings.Contains(text, "Data"):
		return date, TimePending
	}

	clock, err := time.Parse("3:04pm", strings.ToLower(text))
	if err != nil {
		return date, TimeMalformed
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), 0, 0, date.Location()), TimeValid
}
