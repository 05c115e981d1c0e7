// Package fetch renders calendar pages through a real browser. The
// site sits behind DDoS protection that blocks plain HTTP clients, so
// every page goes through Chrome; actual values also load via
// JavaScript after the initial response.
package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"
	"github.com/chromedp/chromedp"
	"golang.org/x/time/rate"

	"fxcal/internal/config"
	"fxcal/internal/errors"
	"fxcal/internal/metrics"
	"fxcal/internal/planner"
)

// Client drives one Chrome instance for the lifetime of a scrape run.
// It implements both traversal capabilities: URL-addressed window
// fetching and sequential widget navigation.
type Client struct {
	cfg     config.FetchConfig
	baseURL string
	logger  *slog.Logger
	metrics *metrics.Metrics
	limiter *rate.Limiter

	browserCtx    context.Context
	browserCancel context.CancelFunc
	allocCancel   context.CancelFunc
}

// NewClient launches the browser. Callers must Close the client to
// tear Chrome down.
func NewClient(cfg config.FetchConfig, baseURL string, logger *slog.Logger, m *metrics.Metrics) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = metrics.New()
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("no-service-autorun", true),
		chromedp.Flag("password-store", "basic"),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Run with no actions to start the browser now and fail fast.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	return &Client{
		cfg:           cfg,
		baseURL:       baseURL,
		logger:        logger,
		metrics:       m,
		limiter:       rate.NewLimiter(rate.Every(cfg.MinPageDelay), 1),
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		allocCancel:   allocCancel,
	}, nil
}

// Close tears down the browser.
func (c *Client) Close() {
	c.browserCancel()
	c.allocCancel()
}

// FetchWindow renders the page for one URL-addressed window, retrying
// transient failures with exponential backoff.
func (c *Client) FetchWindow(ctx context.Context, w planner.Window) (*goquery.Document, error) {
	return c.fetch(ctx, WindowURL(c.baseURL, w))
}

func (c *Client) fetch(ctx context.Context, url string) (*goquery.Document, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var (
		doc      *goquery.Document
		attempts int
	)
	operation := func() error {
		attempts++
		html, err := c.render(ctx, url)
		if err != nil {
			return err
		}
		d, err := parseCalendarPage(html)
		if err != nil {
			return err
		}
		doc = d
		return nil
	}
	notify := func(err error, delay time.Duration) {
		c.metrics.FetchRetries.Inc()
		c.logger.Warn("page fetch failed, retrying",
			slog.String("url", url),
			slog.Int("attempt", attempts),
			slog.Duration("delay", delay),
			slog.String("error", err.Error()))
	}

	if err := backoff.RetryNotify(operation, c.retryPolicy(ctx), notify); err != nil {
		return nil, errors.NewFetchError(url, attempts, errors.Transient(err), err)
	}
	return doc, nil
}

// retryPolicy builds the per-fetch backoff: exponential from the base
// delay, capped, bounded by the configured attempt count, cancellable.
func (c *Client) retryPolicy(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.cfg.RetryBaseDelay
	b.MaxInterval = c.cfg.RetryMaxDelay
	b.MaxElapsedTime = 0

	retries := uint64(0)
	if c.cfg.MaxRetries > 1 {
		retries = uint64(c.cfg.MaxRetries - 1)
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, retries), ctx)
}

// render navigates the browser tab to url and returns the settled DOM.
func (c *Client) render(ctx context.Context, url string) (string, error) {
	var html string
	err := c.run(ctx,
		chromedp.Navigate(url),
		// Let the JavaScript that fills actual values settle.
		chromedp.Sleep(c.cfg.PageLoadWait),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", url, err)
	}
	return html, nil
}

// parseCalendarPage parses rendered HTML and verifies the calendar
// table is present; its absence usually means the page loaded late and
// is worth a retry.
func parseCalendarPage(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	if doc.Find("table.calendar__table").Length() == 0 {
		return nil, errors.ErrTableNotFound
	}
	return doc, nil
}
