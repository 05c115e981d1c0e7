package calendar

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// maxNameLength caps the normalized name inside an event ID. Two
// distinct long names sharing their first 20 normalized characters at
// the same currency and release minute will collide; accepted, since
// real calendars never schedule two such events together.
const maxNameLength = 20

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)
var repeatedUnderscores = regexp.MustCompile(`_+`)

// NormalizeEventName rewrites an event name into the ID-safe form:
// every non-alphanumeric run becomes a single underscore, edges are
// trimmed, and the result is truncated to 20 characters.
func NormalizeEventName(name string) string {
	normalized := nonAlphanumeric.ReplaceAllString(name, "_")
	normalized = repeatedUnderscores.ReplaceAllString(normalized, "_")
	normalized = strings.Trim(normalized, "_")
	if len(normalized) > maxNameLength {
		normalized = normalized[:maxNameLength]
	}
	return normalized
}

// EventID derives the stable dedup key for an event occurrence:
// {normalized_name}_{currency}_{YYYY-MM-DD}_{HH:MM} using the event's
// UTC date and time. Downstream upsert logic depends on this exact
// format staying stable across runs; do not change the separators or
// the truncation.
func EventID(eventName, currency string, t time.Time) string {
	utc := t.UTC()
	return fmt.Sprintf("%s_%s_%s_%s",
		NormalizeEventName(eventName),
		currency,
		utc.Format("2006-01-02"),
		utc.Format("15:04"))
}
