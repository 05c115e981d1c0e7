package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoopDetector_Check(t *testing.T) {
	start := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	horizon := start.AddDate(0, 0, 30)
	d := NewLoopDetector(start, horizon)

	tests := []struct {
		name  string
		first time.Time
		last  time.Time
		page  int
		want  Completion
	}{
		{
			name:  "page within range continues",
			first: start,
			last:  start.AddDate(0, 0, 6),
			page:  1,
			want:  CompletionNone,
		},
		{
			name:  "first date ten days before start is a loop",
			first: start.AddDate(0, 0, -10),
			last:  start.AddDate(0, 0, -4),
			page:  3,
			want:  CompletionLooped,
		},
		{
			name:  "three days before start is within week tolerance",
			first: start.AddDate(0, 0, -3),
			last:  start.AddDate(0, 0, 3),
			page:  3,
			want:  CompletionNone,
		},
		{
			name:  "exactly seven days before start is tolerated",
			first: start.AddDate(0, 0, -7),
			last:  start,
			page:  2,
			want:  CompletionNone,
		},
		{
			name:  "eight days before start is a loop",
			first: start.AddDate(0, 0, -8),
			last:  start,
			page:  2,
			want:  CompletionLooped,
		},
		{
			name:  "loop check suppressed on first page",
			first: start.AddDate(0, 0, -10),
			last:  start,
			page:  1,
			want:  CompletionNone,
		},
		{
			name:  "last date at horizon completes",
			first: horizon.AddDate(0, 0, -6),
			last:  horizon,
			page:  5,
			want:  CompletionHorizon,
		},
		{
			name:  "last date past horizon completes",
			first: horizon.AddDate(0, 0, -2),
			last:  horizon.AddDate(0, 0, 4),
			page:  5,
			want:  CompletionHorizon,
		},
		{
			name: "zero dates continue",
			page: 2,
			want: CompletionNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.Check(tt.first, tt.last, tt.page))
		})
	}
}

func TestLoopDetector_LoopWinsOverHorizon(t *testing.T) {
	// A wrapped page can simultaneously show dates past the horizon (the
	// widget jumped to the present); the loop is reported first.
	start := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	d := NewLoopDetector(start, start.AddDate(0, 0, 10))

	got := d.Check(start.AddDate(0, 0, -30), start.AddDate(0, 0, 20), 4)
	assert.Equal(t, CompletionLooped, got)
}
