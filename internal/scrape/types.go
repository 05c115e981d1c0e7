// Package scrape drives the traversal loop: plan the next window,
// fetch and extract rows through injected capabilities, normalize,
// detect loop/boundary completion, advance the cursor.
package scrape

import (
	"context"
	"time"

	"github.com/PuerkitoBio/goquery"

	"fxcal/internal/calendar"
	"fxcal/internal/errors"
	"fxcal/internal/planner"
)

// RawRow carries the raw field strings extracted from one calendar
// table row. Date and time cells are sparse: a date cell appears only
// on the first row of each day and a time cell only when the time
// changes, so consumers must carry state downwards.
type RawRow struct {
	DateText string
	TimeText string
	Currency string
	Impact   string
	Event    string
	Actual   string
	Forecast string
	Previous string
}

// WindowFetcher renders the calendar page for a URL-addressed window.
type WindowFetcher interface {
	FetchWindow(ctx context.Context, w planner.Window) (*goquery.Document, error)
}

// PagedNavigator traverses the calendar widget sequentially: jump to
// the page containing a start date once, then advance page by page.
type PagedNavigator interface {
	NavigateTo(ctx context.Context, start time.Time) (*goquery.Document, error)
	NextPage(ctx context.Context) (*goquery.Document, error)
}

// RowExtractor pulls raw field strings out of a rendered document.
type RowExtractor interface {
	ExtractRows(doc *goquery.Document) ([]RawRow, error)
}

// RecordWriter is the output sink for normalized records.
type RecordWriter interface {
	Write(rec calendar.EventRecord) error
}

// FailureSink records row-level failures keyed by date and category.
type FailureSink interface {
	Record(at time.Time, category errors.Category)
}
