package calendar

import (
	"strings"
	"time"
)

// Event status values. Status is a pure function of whether an actual
// value is present.
const (
	StatusScheduled = "scheduled"
	StatusReleased  = "released"
)

// impactLabels maps the exact raw impact labels used by the source to
// their normalized form. Anything unrecognized, including an empty
// label, is treated as non-economic.
var impactLabels = map[string]string{
	"High Impact Expected":   "high",
	"Medium Impact Expected": "medium",
	"Low Impact Expected":    "low",
	"Non-Economic":           "non_economic",
}

// NormalizeImpact converts a raw impact label into one of
// high/medium/low/non_economic.
func NormalizeImpact(raw string) string {
	if impact, ok := impactLabels[raw]; ok {
		return impact
	}
	return "non_economic"
}

// EventRecord is one normalized economic-calendar event occurrence.
// Records are immutable once built; nullable fields are pointers so the
// JSONL output carries explicit nulls rather than omitting keys.
type EventRecord struct {
	EventID         string   `json:"event_id"`
	Status          string   `json:"status"`
	TimestampUTC    int64    `json:"timestamp_utc"`
	ScrapedAt       int64    `json:"scraped_at"`
	DatetimeUTC     string   `json:"datetime_utc"`
	DatetimeNewYork string   `json:"datetime_new_york"`
	DatetimeLondon  string   `json:"datetime_london"`
	DayOfWeek       string   `json:"day_of_week"`
	TradingSession  Session  `json:"trading_session"`
	Currency        string   `json:"currency"`
	SourceTZ        string   `json:"source_tz"`
	Impact          string   `json:"impact"`
	Event           string   `json:"event"`
	Actual          *string  `json:"actual"`
	Forecast        *string  `json:"forecast"`
	Previous        *string  `json:"previous"`
	Deviation       *float64 `json:"deviation"`
	DeviationPct    *float64 `json:"deviation_pct"`
	Outcome         *string  `json:"outcome"`
}

// RawFields holds the raw strings extracted from one calendar table
// row, before any normalization.
type RawFields struct {
	Currency string
	Impact   string
	Event    string
	Actual   string
	Forecast string
	Previous string
}

const displayTimeFormat = "2006-01-02 15:04:05"

// nowFunc stamps scraped_at; overridable in tests.
var nowFunc = time.Now

// BuildRecord composes the normalization pipeline into one immutable
// EventRecord: identity, status, timestamps, timezone projections,
// session and day-of-week classification, impact normalization, and
// outcome/deviation computation. It is a pure computation apart from
// the scraped_at stamp; persisting the result is the caller's job.
func BuildRecord(t time.Time, f RawFields) EventRecord {
	utc := t.UTC()
	_, sourceTZName := SourceTimezone(f.Currency)

	nyLoc, _ := loadLocation("America/New_York")
	londonLoc, _ := loadLocation("Europe/London")
	if nyLoc == nil {
		nyLoc = time.UTC
	}
	if londonLoc == nil {
		londonLoc = time.UTC
	}

	deviation, deviationPct := CalculateDeviation(f.Actual, f.Forecast)

	status := StatusScheduled
	if strings.TrimSpace(f.Actual) != "" {
		status = StatusReleased
	}

	var outcome *string
	if o := CalculateOutcome(f.Actual, f.Forecast); o != OutcomeUnknown {
		s := string(o)
		outcome = &s
	}

	return EventRecord{
		EventID:         EventID(f.Event, f.Currency, t),
		Status:          status,
		TimestampUTC:    utc.UnixMilli(),
		ScrapedAt:       nowFunc().UTC().UnixMilli(),
		DatetimeUTC:     utc.Format(displayTimeFormat),
		DatetimeNewYork: t.In(nyLoc).Format(displayTimeFormat),
		DatetimeLondon:  t.In(londonLoc).Format(displayTimeFormat),
		DayOfWeek:       t.Format("Mon"),
		TradingSession:  ClassifySession(t),
		Currency:        f.Currency,
		SourceTZ:        sourceTZName,
		Impact:          NormalizeImpact(f.Impact),
		Event:           f.Event,
		Actual:          optional(f.Actual),
		Forecast:        optional(f.Forecast),
		Previous:        optional(f.Previous),
		Deviation:       deviation,
		DeviationPct:    deviationPct,
		Outcome:         outcome,
	}
}

// optional maps empty strings to nil so they serialize as JSON null.
func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
