package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"

	"fxcal/internal/errors"
)

// maxNavSteps bounds mini-calendar arrow clicks. Reaching the origin of
// available data (2007) from the present takes well under this.
const maxNavSteps = 200

// arrowSettle is how long the mini calendar gets to redraw after an
// arrow click.
const arrowSettle = 500 * time.Millisecond

// clickArrowJS clicks the mini-calendar header arrow whose text
// contains the marker («/» step a year, ‹/› step a month).
const clickArrowJS = `(() => {
	const header = document.querySelector('div.calendarmini__header');
	if (!header) return false;
	for (const a of header.querySelectorAll('a')) {
		if (a.textContent.includes(%q)) { a.click(); return true; }
	}
	return false;
})()`

// clickWeekJS clicks the week shortcut for the row containing the
// target day. Day cells come in rows of seven; shortcut index 0 is the
// whole-month button, which renders incomplete data, so week shortcuts
// start at 1. Cells marked "--other" belong to adjacent months.
const clickWeekJS = `(() => {
	const shortcuts = document.querySelectorAll('div.calendarmini__shortcut a');
	const cells = document.querySelectorAll('div.calendarmini__day:not(.calendarmini__day--header)');
	for (let i = 0; i < cells.length; i++) {
		const cell = cells[i];
		if (cell.textContent.trim() === '%d' && !cell.className.includes('calendarmini__day--other')) {
			const idx = Math.floor(i / 7) + 1;
			if (idx < shortcuts.length) { shortcuts[idx].click(); return true; }
		}
	}
	if (shortcuts.length > 1) { shortcuts[1].click(); return true; }
	return false;
})()`

// clickNextPageJS advances the main calendar one page. Scrolling the
// link into view first avoids click interception by sticky headers.
const clickNextPageJS = `(() => {
	const next = document.querySelector('a.calendar__pagination--next');
	if (!next) return false;
	next.scrollIntoView({block: 'center'});
	next.click();
	return true;
})()`

// NavigateTo opens the calendar and walks the mini-calendar widget to
// the week containing start: year arrows, then month arrows, then the
// week shortcut of the row holding the target day.
func (c *Client) NavigateTo(ctx context.Context, start time.Time) (*goquery.Document, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	if err := c.run(ctx,
		chromedp.Navigate(c.baseURL+"/calendar"),
		chromedp.Sleep(c.cfg.PageLoadWait),
	); err != nil {
		return nil, fmt.Errorf("failed to open calendar: %w", err)
	}

	for step := 0; step < maxNavSteps; step++ {
		var headerText string
		if err := c.run(ctx,
			chromedp.Text("div.calendarmini__header div", &headerText, chromedp.ByQuery),
		); err != nil {
			return nil, fmt.Errorf("%w: mini calendar header unreadable: %v",
				errors.ErrNavigationFailed, err)
		}

		current, err := time.Parse("Jan 2006", strings.TrimSpace(headerText))
		if err != nil {
			return nil, fmt.Errorf("%w: cannot parse mini calendar header %q",
				errors.ErrNavigationFailed, headerText)
		}

		if current.Year() == start.Year() && current.Month() == start.Month() {
			var clicked bool
			if err := c.run(ctx,
				chromedp.Evaluate(fmt.Sprintf(clickWeekJS, start.Day()), &clicked),
				chromedp.Sleep(c.cfg.PageLoadWait),
			); err != nil || !clicked {
				return nil, fmt.Errorf("%w: no week shortcut for day %d",
					errors.ErrNavigationFailed, start.Day())
			}
			c.logger.Info("navigated to week via mini calendar",
				slog.String("target", start.Format("2006-01-02")))
			return c.capturePage(ctx)
		}

		arrow := pickArrow(current, start)
		var clicked bool
		if err := c.run(ctx,
			chromedp.Evaluate(fmt.Sprintf(clickArrowJS, arrow), &clicked),
			chromedp.Sleep(arrowSettle),
		); err != nil || !clicked {
			return nil, fmt.Errorf("%w: arrow %q not clickable",
				errors.ErrNavigationFailed, arrow)
		}
	}

	return nil, fmt.Errorf("%w: exceeded %d navigation steps",
		errors.ErrNavigationFailed, maxNavSteps)
}

// NextPage advances the widget one page and captures the result.
func (c *Client) NextPage(ctx context.Context) (*goquery.Document, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var clicked bool
	if err := c.run(ctx,
		chromedp.Evaluate(clickNextPageJS, &clicked),
		chromedp.Sleep(c.cfg.PageLoadWait),
	); err != nil || !clicked {
		return nil, fmt.Errorf("%w: next-page link not clickable", errors.ErrNavigationFailed)
	}
	return c.capturePage(ctx)
}

// pickArrow chooses the header arrow stepping toward the target:
// year first, then month.
func pickArrow(current, target time.Time) string {
	switch {
	case target.Year() < current.Year():
		return "«"
	case target.Year() > current.Year():
		return "»"
	case target.Month() < current.Month():
		return "‹"
	default:
		return "›"
	}
}

// capturePage scrolls through the page to trigger lazy loading, then
// parses the settled DOM.
func (c *Client) capturePage(ctx context.Context) (*goquery.Document, error) {
	var html string
	err := c.run(ctx,
		chromedp.Sleep(time.Second),
		chromedp.ActionFunc(scrollThrough),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to capture page: %w", err)
	}
	return parseCalendarPage(html)
}

// scrollThrough scrolls down in quarter steps, to the bottom, then
// back to the top; events load in chunks as the page scrolls.
func scrollThrough(ctx context.Context) error {
	var height int
	if err := chromedp.Evaluate("document.body.scrollHeight", &height).Do(ctx); err != nil {
		return err
	}

	step := height / 4
	for i := 1; i <= 4; i++ {
		if err := chromedp.Evaluate(fmt.Sprintf("window.scrollTo(0, %d)", step*i), nil).Do(ctx); err != nil {
			return err
		}
		if err := chromedp.Sleep(500 * time.Millisecond).Do(ctx); err != nil {
			return err
		}
	}

	if err := chromedp.Evaluate("window.scrollTo(0, document.body.scrollHeight)", nil).Do(ctx); err != nil {
		return err
	}
	if err := chromedp.Sleep(time.Second).Do(ctx); err != nil {
		return err
	}
	if err := chromedp.Evaluate("window.scrollTo(0, 0)", nil).Do(ctx); err != nil {
		return err
	}
	return chromedp.Sleep(500 * time.Millisecond).Do(ctx)
}

// run executes browser actions against the shared tab with the
// configured step timeout, honoring caller cancellation.
func (c *Client) run(ctx context.Context, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tctx, cancel := context.WithTimeout(c.browserCtx, c.cfg.NavTimeout)
	defer cancel()
	return chromedp.Run(tctx, actions...)
}
