package errors

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRowError(t *testing.T) {
	at := time.Date(2024, time.February, 1, 14, 30, 0, 0, time.UTC)

	t.Run("message carries date and category", func(t *testing.T) {
		err := NewRowError(at, CategoryNoEvent, nil)
		assert.Equal(t, "row at 2024-02-01 14:30:00 (No Event Found)", err.Error())
	})

	t.Run("wraps cause", func(t *testing.T) {
		cause := errors.New("missing impact cell")
		err := NewRowError(at, CategoryNoEvent, cause)
		assert.ErrorIs(t, err, cause)
	})

}

func TestFetchError(t *testing.T) {
	err := NewFetchError("calendar.php?day=jan1.2024", 3, true, ErrTableNotFound)
	assert.ErrorIs(t, err, ErrTableNotFound)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.True(t, err.Transient)
}

func TestTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "missing table", err: ErrTableNotFound, want: true},
		{name: "missing table through wrapping", err: fmt.Errorf("fetch: %w", ErrTableNotFound), want: true},
		{name: "fetch error keeps its flag", err: NewFetchError("calendar.php?day=jan1.2024", 3, true, ErrTableNotFound), want: true},
		{name: "non-transient fetch error", err: NewFetchError("calendar.php?day=jan1.2024", 1, false, errors.New("browser crashed")), want: false},
		{name: "navigation failure is fatal", err: ErrNavigationFailed, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Transient(tt.err))
		})
	}
}
