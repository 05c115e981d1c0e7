package fetch

import (
	"fmt"
	"strings"
	"time"

	"fxcal/internal/planner"
)

// DefaultBaseURL is the calendar site root.
const DefaultBaseURL = "https://www.forexfactory.com"

// WindowURL builds the calendar URL addressing one window. Month pages
// use "month=jan.2024"; week and day pages use the first day of the
// range, "week=jan2.2024" and "day=jan2.2024", with no zero padding.
func WindowURL(base string, w planner.Window) string {
	switch w.Granularity {
	case planner.GranularityMonth:
		return fmt.Sprintf("%s/calendar.php?month=%s", base, monthToken(w.Start))
	case planner.GranularityWeek:
		return fmt.Sprintf("%s/calendar.php?week=%s", base, dayToken(w.Start))
	default:
		return fmt.Sprintf("%s/calendar.php?day=%s", base, dayToken(w.Start))
	}
}

func monthToken(t time.Time) string {
	return strings.ToLower(t.Format("Jan.2006"))
}

func dayToken(t time.Time) string {
	return strings.ToLower(fmt.Sprintf("%s%d.%d", t.Format("Jan"), t.Day(), t.Year()))
}
