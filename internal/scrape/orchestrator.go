package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"fxcal/internal/calendar"
	"fxcal/internal/errors"
	"fxcal/internal/metrics"
	"fxcal/internal/planner"
)

// Options configures an Orchestrator. Fetcher is required for the
// URL-addressed mode, Navigator for the widget mode; the unused one may
// be nil.
type Options struct {
	// Venue is the timezone the calendar renders dates in.
	Venue *time.Location
	// Start is the resolved cursor: resume point, override, or today.
	Start time.Time
	// DaysAhead positions the horizon relative to Start.
	DaysAhead int
	// AllowFuture makes future day windows fetchable (scheduled events
	// with no actuals yet).
	AllowFuture bool
	// UseCalendarNav selects widget pagination over URL windows.
	UseCalendarNav bool

	MinPageDelay time.Duration
	MaxPageDelay time.Duration

	Fetcher   WindowFetcher
	Navigator PagedNavigator
	Extractor RowExtractor
	Writer    RecordWriter
	Failures  FailureSink

	Metrics *metrics.Metrics
	Logger  *slog.Logger

	// Sleep replaces the inter-page pause in tests.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Orchestrator owns one scrape run: it plans windows (or walks widget
// pages), funnels extracted rows through normalization, and stops on
// horizon, caught-up-to-present, or pagination loop.
type Orchestrator struct {
	venue   *time.Location
	start   time.Time
	horizon time.Time
	paged   bool

	plan *planner.Planner

	fetcher   WindowFetcher
	navigator PagedNavigator
	extractor RowExtractor
	writer    RecordWriter
	failures  FailureSink

	metrics *metrics.Metrics
	logger  *slog.Logger

	minDelay time.Duration
	maxDelay time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
}

// New builds an orchestrator. The horizon is fixed at construction:
// Start plus DaysAhead days.
func New(opts Options) *Orchestrator {
	if opts.Venue == nil {
		opts.Venue = time.UTC
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	if opts.Sleep == nil {
		opts.Sleep = sleepContext
	}

	horizon := opts.Start.AddDate(0, 0, opts.DaysAhead)

	return &Orchestrator{
		venue:     opts.Venue,
		start:     opts.Start,
		horizon:   horizon,
		paged:     opts.UseCalendarNav,
		plan:      planner.New(opts.Venue, horizon, opts.AllowFuture),
		fetcher:   opts.Fetcher,
		navigator: opts.Navigator,
		extractor: opts.Extractor,
		writer:    opts.Writer,
		failures:  opts.Failures,
		metrics:   opts.Metrics,
		logger:    opts.Logger,
		minDelay:  opts.MinPageDelay,
		maxDelay:  opts.MaxPageDelay,
		sleep:     opts.Sleep,
	}
}

// Horizon returns the exclusive upper bound of the traversal.
func (o *Orchestrator) Horizon() time.Time { return o.horizon }

// Run executes the traversal until a terminal condition or a fatal
// error. Fetch failures that survive the retry policy are fatal; row
// failures are recorded and skipped.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.logger.InfoContext(ctx, "scrape starting",
		slog.Time("start", o.start),
		slog.Time("horizon", o.horizon),
		slog.Bool("paged", o.paged))

	if o.paged {
		return o.runPaged(ctx)
	}
	return o.runWindows(ctx)
}

// runWindows is the URL-addressed mode: the planner picks the coarsest
// elapsed window for the cursor, each fetched window advances the
// cursor to its exclusive end, and rows at or before the cursor are
// skipped so resumed runs never duplicate records.
func (o *Orchestrator) runWindows(ctx context.Context) error {
	cursor := o.start

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		w, decision := o.plan.Plan(cursor)
		switch decision {
		case planner.DecisionNotYet:
			o.logger.InfoContext(ctx, "caught up to present",
				slog.Time("cursor", cursor))
			return nil
		case planner.DecisionExhausted:
			o.logger.InfoContext(ctx, "horizon reached",
				slog.Time("cursor", cursor),
				slog.Time("horizon", o.horizon))
			return nil
		}

		doc, err := o.fetcher.FetchWindow(ctx, w)
		if err != nil {
			return fmt.Errorf("fetch %s window at %s: %w",
				w.Granularity, w.Start.Format("2006-01-02"), err)
		}
		o.metrics.PagesFetched.Inc()

		rows, err := o.extractor.ExtractRows(doc)
		if err != nil {
			return fmt.Errorf("extract rows: %w", err)
		}

		stats, err := o.processRows(rows, rowRules{
			seedYear:       cursor.Year(),
			skipAtOrBefore: cursor,
		})
		if err != nil {
			return err
		}

		o.logger.InfoContext(ctx, "window processed",
			slog.String("granularity", string(w.Granularity)),
			slog.Time("start", w.Start),
			slog.Int("rows", len(rows)),
			slog.Int("written", stats.written),
			slog.Int("skipped", stats.skipped),
			slog.Int("failed", stats.failed))

		cursor = w.End

		if err := o.pause(ctx); err != nil {
			return err
		}
	}
}

// runPaged is the widget mode: jump once to the page containing the
// start date, then click through sequential pages until the contents
// reach the horizon or pagination wraps back past the start. The wrap
// check runs on each page's first date, before any of its rows are
// written.
func (o *Orchestrator) runPaged(ctx context.Context) error {
	detector := planner.NewLoopDetector(
		planner.Midnight(o.start.In(o.venue)), o.horizon)

	doc, err := o.navigator.NavigateTo(ctx, o.start)
	if err != nil {
		return fmt.Errorf("navigate to %s: %w",
			o.start.Format("2006-01-02"), err)
	}

	seed := o.start
	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		o.metrics.PagesFetched.Inc()

		rows, err := o.extractor.ExtractRows(doc)
		if err != nil {
			return fmt.Errorf("extract rows on page %d: %w", page, err)
		}

		pageNum := page
		stats, err := o.processRows(rows, rowRules{
			seedYear:    seed.Year(),
			fixYearWrap: true,
			startMonth:  seed.Month(),
			onFirstDate: func(first time.Time) bool {
				return detector.Check(first, time.Time{}, pageNum) == planner.CompletionLooped
			},
		})
		if err != nil {
			return err
		}

		attrs := []any{
			slog.Int("page", page),
			slog.Int("rows", len(rows)),
			slog.Int("written", stats.written),
			slog.Int("skipped", stats.skipped),
			slog.Int("failed", stats.failed),
		}
		if !stats.first.IsZero() && !stats.last.IsZero() {
			attrs = append(attrs,
				slog.String("first_date", stats.first.Format("2006-01-02")),
				slog.String("last_date", stats.last.Format("2006-01-02")))
		}
		o.logger.InfoContext(ctx, "page processed", attrs...)

		if stats.aborted {
			o.logger.InfoContext(ctx, "pagination wrapped past start of data",
				slog.Int("page", page),
				slog.Time("first_on_page", stats.first))
			return nil
		}

		switch detector.Check(stats.first, stats.last, page) {
		case planner.CompletionLooped:
			o.logger.InfoContext(ctx, "pagination wrapped past start of data",
				slog.Int("page", page))
			return nil
		case planner.CompletionHorizon:
			o.logger.InfoContext(ctx, "horizon reached",
				slog.Int("page", page),
				slog.Time("last_on_page", stats.last))
			return nil
		}

		if !stats.last.IsZero() {
			seed = stats.last
		}

		if err := o.pause(ctx); err != nil {
			return err
		}

		doc, err = o.navigator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("advance past page %d: %w", page, err)
		}
	}
}

// rowRules parameterizes page processing per traversal mode.
type rowRules struct {
	seedYear    int
	fixYearWrap bool
	startMonth  time.Month

	// skipAtOrBefore drops rows dated at or before the cursor; zero
	// disables the check (widget mode writes everything in range).
	skipAtOrBefore time.Time

	// onFirstDate is called once with the page's first parsed date;
	// returning true aborts the page before any row is written.
	onFirstDate func(time.Time) bool
}

// pageStats summarizes one processed page.
type pageStats struct {
	first   time.Time
	last    time.Time
	written int
	skipped int
	failed  int
	aborted bool
}

// processRows walks a page's raw rows, carrying the sparse date/time
// state downwards, and writes every row that survives classification
// and range checks. Only a writer failure is fatal; everything else is
// recorded and skipped.
func (o *Orchestrator) processRows(rows []RawRow, rules rowRules) (pageStats, error) {
	var stats pageStats

	rc := newRowCursor(o.venue, rules.seedYear)
	rc.fixYearWrap = rules.fixYearWrap
	rc.startMonth = rules.startMonth

	firstChecked := false
	for _, raw := range rows {
		if raw.DateText != "" {
			if err := rc.applyDate(raw.DateText); err != nil {
				at := rc.current
				if !rc.haveDay {
					at = o.start
				}
				o.failRow(at, errors.CategoryNoEvent, err)
				stats.failed++
				continue
			}
			if !firstChecked {
				firstChecked = true
				if rules.onFirstDate != nil && rules.onFirstDate(rc.first) {
					stats.first = rc.first
					stats.aborted = true
					return stats, nil
				}
			}
		}

		if !rc.haveDay {
			// Rows above the first date header carry no usable date.
			stats.skipped++
			o.metrics.RowsSkipped.Inc()
			continue
		}

		kind := rc.kind
		if raw.TimeText != "" {
			kind = rc.applyTime(raw.TimeText)
		}
		switch kind {
		case calendar.TimePending:
			o.failRow(rc.day, errors.CategoryPendingPeriod, nil)
			stats.failed++
			continue
		case calendar.TimeMalformed:
			o.failRow(rc.day, errors.CategoryNoEvent,
				fmt.Errorf("unrecognized time cell %q", raw.TimeText))
			stats.failed++
			continue
		}

		if !rules.skipAtOrBefore.IsZero() && !rc.current.After(rules.skipAtOrBefore) {
			stats.skipped++
			o.metrics.RowsSkipped.Inc()
			continue
		}
		if rc.current.After(o.horizon) {
			stats.skipped++
			o.metrics.RowsSkipped.Inc()
			continue
		}
		if strings.TrimSpace(raw.Event) == "" || strings.TrimSpace(raw.Currency) == "" {
			stats.skipped++
			o.metrics.RowsSkipped.Inc()
			continue
		}

		rec := calendar.BuildRecord(rc.current, calendar.RawFields{
			Currency: strings.TrimSpace(raw.Currency),
			Impact:   strings.TrimSpace(raw.Impact),
			Event:    strings.TrimSpace(raw.Event),
			Actual:   strings.TrimSpace(raw.Actual),
			Forecast: strings.TrimSpace(raw.Forecast),
			Previous: strings.TrimSpace(raw.Previous),
		})
		if err := o.writer.Write(rec); err != nil {
			return stats, fmt.Errorf("write record %s: %w", rec.EventID, err)
		}
		stats.written++
		o.metrics.RowsWritten.Inc()
	}

	stats.first = rc.first
	stats.last = rc.last
	return stats, nil
}

// failRow records a row-level failure in the log, the error sink, and
// the failure counter. The run continues.
func (o *Orchestrator) failRow(at time.Time, category errors.Category, cause error) {
	rowErr := errors.NewRowError(at, category, cause)
	o.logger.Warn("row skipped", slog.String("error", rowErr.Error()))
	if o.failures != nil {
		o.failures.Record(at, category)
	}
	o.metrics.RowFailures.WithLabelValues(string(category)).Inc()
}

// pause sleeps a uniformly random duration between the configured page
// delays, respecting context cancellation.
func (o *Orchestrator) pause(ctx context.Context) error {
	delay := o.minDelay
	if o.maxDelay > o.minDelay {
		delay += time.Duration(rand.Int63n(int64(o.maxDelay - o.minDelay)))
	}
	if delay <= 0 {
		return nil
	}
	return o.sleep(ctx, delay)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
