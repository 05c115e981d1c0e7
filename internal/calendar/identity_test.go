package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEventName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "slash becomes underscore", input: "CPI m/m", want: "CPI_m_m"},
		{name: "repeated separators collapse", input: "GDP -- Final  (q/q)", want: "GDP_Final_q_q"},
		{name: "edges trimmed", input: "(Core CPI)", want: "Core_CPI"},
		{name: "truncated to 20 chars", input: "Unemployment Rate Seasonally Adjusted", want: "Unemployment_Rate_Se"},
		{name: "already clean", input: "NFP", want: "NFP"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeEventName(tt.input))
		})
	}
}

func TestEventID(t *testing.T) {
	at := time.Date(2024, time.January, 15, 14, 30, 0, 0, time.UTC)

	t.Run("exact format", func(t *testing.T) {
		assert.Equal(t, "CPI_m_m_USD_2024-01-15_14:30", EventID("CPI m/m", "USD", at))
	})

	t.Run("idempotent", func(t *testing.T) {
		first := EventID("Retail Sales m/m", "GBP", at)
		second := EventID("Retail Sales m/m", "GBP", at)
		assert.Equal(t, first, second)
	})

	t.Run("uses UTC date and time", func(t *testing.T) {
		ny, err := time.LoadLocation("America/New_York")
		assert.NoError(t, err)
		local := at.In(ny) // same instant, 09:30 eastern
		assert.Equal(t, EventID("CPI m/m", "USD", at), EventID("CPI m/m", "USD", local))
	})

	t.Run("differs per component", func(t *testing.T) {
		base := EventID("CPI m/m", "USD", at)
		assert.NotEqual(t, base, EventID("CPI y/y", "USD", at))
		assert.NotEqual(t, base, EventID("CPI m/m", "EUR", at))
		assert.NotEqual(t, base, EventID("CPI m/m", "USD", at.Add(24*time.Hour)))
		assert.NotEqual(t, base, EventID("CPI m/m", "USD", at.Add(time.Minute)))
	})
}
