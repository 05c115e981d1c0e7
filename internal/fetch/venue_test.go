package fetch

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestTimezoneFromDocument(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "selected option with IANA name",
			html: `<select id="timezone"><option>UTC</option><option selected>America/Chicago</option></select>`,
			want: "America/Chicago",
		},
		{
			name: "prose eastern label",
			html: `<div class="timezone">(GMT-5:00) Eastern Time</div>`,
			want: "America/New_York",
		},
		{
			name: "prose pacific label",
			html: `<div id="timezone">(GMT-8:00) Pacific Time</div>`,
			want: "America/Los_Angeles",
		},
		{
			name: "london gmt label",
			html: `<div class="timezone">(GMT) London</div>`,
			want: "Europe/London",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := timezoneFromDocument(docFromHTML(t, tt.html))
			require.NotNil(t, loc)
			assert.Equal(t, tt.want, loc.String())
		})
	}
}

func TestTimezoneFromDocument_Undetectable(t *testing.T) {
	assert.Nil(t, timezoneFromDocument(docFromHTML(t, `<html><body></body></html>`)))
	assert.Nil(t, timezoneFromDocument(docFromHTML(t, `<div class="timezone">(UTC+9:00) Somewhere</div>`)))
}
