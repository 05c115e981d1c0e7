// Package errors defines the scrape error taxonomy: transient fetch
// failures that retry and eventually become fatal for a page, and
// row-level failures that are logged to the error sink and skipped.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// Category tags a row-level failure in the error sink. The strings are
// part of the sink's line format and must stay stable.
type Category string

const (
	// CategoryNoEvent marks a structural anomaly: the row exists but
	// its expected cells could not be located.
	CategoryNoEvent Category = "No Event Found"
	// CategoryPendingPeriod marks a row announcing data for a period
	// that has not elapsed yet.
	CategoryPendingPeriod Category = "Data For Past Month"
)

// Sentinel errors surfaced by the fetch layer.
var (
	// ErrTableNotFound means the rendered page carried no calendar
	// table; treated as transient since pages sometimes load late.
	ErrTableNotFound = errors.New("calendar table not found")
	// ErrNavigationFailed means widget navigation could not reach the
	// requested date or page.
	ErrNavigationFailed = errors.New("calendar navigation failed")
)

// RowError is a recoverable failure for a single table row. The page
// continues; the error sink records the date and category.
type RowError struct {
	At       time.Time
	Category Category
	Err      error
}

func (e *RowError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("row at %s (%s): %v", e.At.Format("2006-01-02 15:04:05"), e.Category, e.Err)
	}
	return fmt.Sprintf("row at %s (%s)", e.At.Format("2006-01-02 15:04:05"), e.Category)
}

func (e *RowError) Unwrap() error { return e.Err }

// NewRowError builds a row-level failure for the error sink.
func NewRowError(at time.Time, category Category, err error) *RowError {
	return &RowError{At: at, Category: category, Err: err}
}

// FetchError wraps a page-fetch failure. Transient failures are retried
// by the fetch layer; once retries are exhausted the error becomes
// fatal for the run.
type FetchError struct {
	URL       string
	Attempts  int
	Transient bool
	Err       error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s failed after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// NewFetchError builds a fetch failure with retry context.
func NewFetchError(url string, attempts int, transient bool, err error) *FetchError {
	return &FetchError{URL: url, Attempts: attempts, Transient: transient, Err: err}
}

// Transient reports whether err describes a failure that could succeed
// on a later run: a missing calendar table (pages sometimes load late)
// or a fetch failure marked transient. Fatal-for-good failures, like a
// browser that will not start, return false.
func Transient(err error) bool {
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.Transient
	}
	return errors.Is(err, ErrTableNotFound)
}
