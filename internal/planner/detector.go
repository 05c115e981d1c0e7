package planner

import "time"

// LoopTolerance is how far before the original start date a page's
// first date may fall before traversal is considered to have wrapped.
// Week windows legitimately begin up to a week early.
const LoopTolerance = 7 * 24 * time.Hour

// Completion reports why a paged traversal ended.
type Completion int

const (
	// CompletionNone means the traversal should continue.
	CompletionNone Completion = iota
	// CompletionLooped means pagination wrapped back past the start of
	// available data. A successful end, not an error.
	CompletionLooped
	// CompletionHorizon means the latest date on the page reached the
	// configured horizon.
	CompletionHorizon
)

// LoopDetector recognizes both end conditions of sequential-page
// traversal: the calendar widget looping back past the originally
// configured start, and the page contents reaching the horizon.
type LoopDetector struct {
	originalStart time.Time
	horizon       time.Time
}

// NewLoopDetector builds a detector pinned to the traversal's original
// start date (the cursor moves; this does not) and its horizon.
func NewLoopDetector(originalStart, horizon time.Time) *LoopDetector {
	return &LoopDetector{originalStart: originalStart, horizon: horizon}
}

// Check evaluates a fetched page. The loop check is suppressed on the
// first page, whose window may legitimately start before the requested
// date.
func (d *LoopDetector) Check(firstOnPage, lastOnPage time.Time, page int) Completion {
	if page > 1 && !firstOnPage.IsZero() &&
		d.originalStart.Sub(firstOnPage) > LoopTolerance {
		return CompletionLooped
	}
	if !lastOnPage.IsZero() && !lastOnPage.Before(d.horizon) {
		return CompletionHorizon
	}
	return CompletionNone
}
