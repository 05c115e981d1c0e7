package fetch

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"fxcal/internal/errors"
	"fxcal/internal/scrape"
)

// TableExtractor pulls raw rows out of a rendered calendar page. Day
// breaker rows are decorative separators and carry no event data; the
// actual date header sits in the first event row of each day.
type TableExtractor struct{}

// ExtractRows returns the raw field strings of every event row in
// document order. Missing cells yield empty strings; the traversal
// layer decides what an empty field means.
func (TableExtractor) ExtractRows(doc *goquery.Document) ([]scrape.RawRow, error) {
	table := doc.Find("table.calendar__table")
	if table.Length() == 0 {
		return nil, errors.ErrTableNotFound
	}

	var rows []scrape.RawRow
	table.Find("tr.calendar__row").Each(func(_ int, tr *goquery.Selection) {
		if tr.HasClass("calendar__row--day-breaker") {
			return
		}
		rows = append(rows, scrape.RawRow{
			DateText: cellText(tr, "date"),
			TimeText: cellText(tr, "time"),
			Currency: cellText(tr, "currency"),
			Impact:   impactTitle(tr),
			Event:    cellText(tr, "event"),
			Actual:   cellText(tr, "actual"),
			Forecast: cellText(tr, "forecast"),
			Previous: cellText(tr, "previous"),
		})
	})
	return rows, nil
}

func cellText(tr *goquery.Selection, field string) string {
	return strings.TrimSpace(tr.Find("td.calendar__cell.calendar__" + field).First().Text())
}

// impactTitle reads the impact label from the cell's icon title
// attribute; the cell text itself is empty.
func impactTitle(tr *goquery.Selection) string {
	title, _ := tr.Find("td.calendar__cell.calendar__impact span").First().Attr("title")
	return strings.TrimSpace(title)
}
