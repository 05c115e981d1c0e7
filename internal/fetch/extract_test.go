package fetch

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fxcal/internal/errors"
	"fxcal/internal/scrape"
)

const calendarHTML = `
<html><body>
<table class="calendar__table">
<tr class="calendar__row calendar__row--day-breaker"><td colspan="8">Monday</td></tr>
<tr class="calendar__row">
  <td class="calendar__cell calendar__date">Mon Jan 15</td>
  <td class="calendar__cell calendar__time">8:30am</td>
  <td class="calendar__cell calendar__currency">USD</td>
  <td class="calendar__cell calendar__impact"><span title="High Impact Expected"></span></td>
  <td class="calendar__cell calendar__event">CPI m/m</td>
  <td class="calendar__cell calendar__actual">0.3%</td>
  <td class="calendar__cell calendar__forecast">0.2%</td>
  <td class="calendar__cell calendar__previous">0.1%</td>
</tr>
<tr class="calendar__row">
  <td class="calendar__cell calendar__date"></td>
  <td class="calendar__cell calendar__time"></td>
  <td class="calendar__cell calendar__currency">EUR</td>
  <td class="calendar__cell calendar__impact"><span title="Non-Economic"></span></td>
  <td class="calendar__cell calendar__event">ECB President Speaks</td>
  <td class="calendar__cell calendar__actual"></td>
  <td class="calendar__cell calendar__forecast"></td>
  <td class="calendar__cell calendar__previous"></td>
</tr>
<tr class="calendar__row">
  <td class="calendar__cell calendar__time">All Day</td>
  <td class="calendar__cell calendar__currency">GBP</td>
  <td class="calendar__cell calendar__event">Bank Holiday</td>
</tr>
</table>
</body></html>`

func TestTableExtractor_ExtractRows(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(calendarHTML))
	require.NoError(t, err)

	rows, err := TableExtractor{}.ExtractRows(doc)
	require.NoError(t, err)
	require.Len(t, rows, 3, "day breaker row is not an event row")

	assert.Equal(t, scrape.RawRow{
		DateText: "Mon Jan 15",
		TimeText: "8:30am",
		Currency: "USD",
		Impact:   "High Impact Expected",
		Event:    "CPI m/m",
		Actual:   "0.3%",
		Forecast: "0.2%",
		Previous: "0.1%",
	}, rows[0])

	// Sparse date/time cells come through empty.
	assert.Empty(t, rows[1].DateText)
	assert.Empty(t, rows[1].TimeText)
	assert.Equal(t, "Non-Economic", rows[1].Impact)

	// Missing cells entirely also come through empty.
	assert.Equal(t, "All Day", rows[2].TimeText)
	assert.Empty(t, rows[2].Impact)
	assert.Empty(t, rows[2].Actual)
}

func TestTableExtractor_MissingTable(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body><p>loading</p></body></html>"))
	require.NoError(t, err)

	_, err = TableExtractor{}.ExtractRows(doc)
	assert.ErrorIs(t, err, errors.ErrTableNotFound)
}

func TestParseCalendarPage(t *testing.T) {
	doc, err := parseCalendarPage(calendarHTML)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find("table.calendar__table").Length())

	_, err = parseCalendarPage("<html><body></body></html>")
	assert.ErrorIs(t, err, errors.ErrTableNotFound)
}
