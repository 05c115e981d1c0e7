package calendar

import "time"

// Session labels a forex trading session.
type Session string

const (
	SessionAsian              Session = "asian"
	SessionLondon             Session = "london"
	SessionNewYork            Session = "new_york"
	SessionLondonNYOverlap    Session = "london_ny_overlap"
	SessionAsianLondonOverlap Session = "asian_london_overlap"
	SessionOffHours           Session = "off_hours"
)

// Canonical session ranges in UTC hours. The Asian session wraps
// midnight.
const (
	asianStart  = 21
	asianEnd    = 6
	londonStart = 7
	londonEnd   = 16
	nyStart     = 12
	nyEnd       = 21
)

// ClassifySession maps an instant to its trading session by UTC
// hour-of-day. Overlaps take precedence over single sessions, and
// London/New York is checked before Asian/London: at boundary hours
// where three sessions could theoretically coincide, the busier
// transatlantic overlap wins. This ordering is a deliberate tie-break,
// not an accident.
func ClassifySession(t time.Time) Session {
	hour := t.UTC().Hour()

	inAsian := hour >= asianStart || hour < asianEnd
	inLondon := hour >= londonStart && hour < londonEnd
	inNY := hour >= nyStart && hour < nyEnd

	switch {
	case inLondon && inNY:
		return SessionLondonNYOverlap
	case inAsian && inLondon:
		return SessionAsianLondonOverlap
	case inLondon:
		return SessionLondon
	case inNY:
		return SessionNewYork
	case inAsian:
		return SessionAsian
	default:
		return SessionOffHours
	}
}
