package fetch

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// venueFallback is the site's default display timezone, used whenever
// detection fails.
const venueFallback = "America/New_York"

// VenueTimezone detects the timezone the calendar renders dates in by
// reading the site's timezone settings page. Detection failures fall
// back to US Eastern, the site default; a wrong venue zone shifts every
// parsed instant, so the result is always logged.
func (c *Client) VenueTimezone(ctx context.Context) *time.Location {
	html, err := c.render(ctx, c.baseURL+"/timezone.php")
	if err != nil {
		c.logger.Warn("timezone detection failed, using default",
			slog.String("default", venueFallback),
			slog.String("error", err.Error()))
		return mustLoadLocation(venueFallback)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err == nil {
		if loc := timezoneFromDocument(doc); loc != nil {
			c.logger.Info("detected venue timezone", slog.String("tz", loc.String()))
			return loc
		}
	}

	c.logger.Info("using default venue timezone", slog.String("tz", venueFallback))
	return mustLoadLocation(venueFallback)
}

// timezoneFromDocument tries the settings select element first, then
// any timezone-labelled element; the label text is either an IANA name
// or prose like "(GMT-5:00) Eastern Time".
func timezoneFromDocument(doc *goquery.Document) *time.Location {
	text := strings.TrimSpace(doc.Find("select#timezone option[selected]").First().Text())
	if text == "" {
		sel := doc.Find(".timezone").First()
		if sel.Length() == 0 {
			sel = doc.Find("#timezone").First()
		}
		text = strings.TrimSpace(sel.Text())
	}
	if text == "" {
		return nil
	}

	if loc, err := time.LoadLocation(strings.TrimSpace(strings.Trim(text, "()"))); err == nil {
		return loc
	}

	switch {
	case strings.Contains(text, "Eastern"):
		return mustLoadLocation("America/New_York")
	case strings.Contains(text, "Pacific"):
		return mustLoadLocation("America/Los_Angeles")
	case strings.Contains(text, "Central"):
		return mustLoadLocation("America/Chicago")
	case strings.Contains(text, "London"), strings.Contains(text, "GMT"):
		return mustLoadLocation("Europe/London")
	}
	return nil
}

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}
