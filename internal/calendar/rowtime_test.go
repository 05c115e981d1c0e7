package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyRowTime(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	assert.NoError(t, err)
	day := time.Date(2024, time.January, 15, 0, 0, 0, 0, ny)

	tests := []struct {
		name     string
		raw      string
		wantKind TimeKind
		wantHour int
		wantMin  int
	}{
		{name: "morning time", raw: "8:30am", wantKind: TimeValid, wantHour: 8, wantMin: 30},
		{name: "afternoon time", raw: "2:30pm", wantKind: TimeValid, wantHour: 14, wantMin: 30},
		{name: "double digit hour", raw: "10:15pm", wantKind: TimeValid, wantHour: 22, wantMin: 15},
		{name: "noon", raw: "12:00pm", wantKind: TimeValid, wantHour: 12, wantMin: 0},
		{name: "midnight", raw: "12:00am", wantKind: TimeValid, wantHour: 0, wantMin: 0},
		{name: "all day marker", raw: "All Day", wantKind: TimeAllDay, wantHour: 23, wantMin: 59},
		{name: "pending data marker", raw: "Data For Past Month", wantKind: TimePending},
		{name: "garbage", raw: "soon", wantKind: TimeMalformed},
		{name: "empty", raw: "", wantKind: TimeMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, kind := ApplyRowTime(day, tt.raw)
			assert.Equal(t, tt.wantKind, kind)
			if tt.wantKind == TimeValid || tt.wantKind == TimeAllDay {
				assert.Equal(t, tt.wantHour, got.Hour())
				assert.Equal(t, tt.wantMin, got.Minute())
				assert.Equal(t, day.Location(), got.Location())
			}
		})
	}
}
