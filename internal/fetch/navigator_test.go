package fetch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func monthOf(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

func TestPickArrow(t *testing.T) {
	tests := []struct {
		name    string
		current time.Time
		target  time.Time
		want    string
	}{
		{name: "target in earlier year", current: monthOf(2024, time.March), target: monthOf(2007, time.January), want: "«"},
		{name: "target in later year", current: monthOf(2023, time.December), target: monthOf(2024, time.January), want: "»"},
		{name: "earlier month same year", current: monthOf(2024, time.June), target: monthOf(2024, time.February), want: "‹"},
		{name: "later month same year", current: monthOf(2024, time.February), target: monthOf(2024, time.June), want: "›"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pickArrow(tt.current, tt.target))
		})
	}
}
