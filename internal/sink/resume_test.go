package sink

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSink(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(lines), 0o644))
	return path
}

func TestResumeFrom(t *testing.T) {
	t.Run("missing file starts from origin", func(t *testing.T) {
		got, resumed := ResumeFrom(filepath.Join(t.TempDir(), "absent.jsonl"), nil)
		assert.False(t, resumed)
		assert.Equal(t, OriginDate, got)
	})

	t.Run("empty file starts from origin", func(t *testing.T) {
		got, resumed := ResumeFrom(writeSink(t, ""), nil)
		assert.False(t, resumed)
		assert.Equal(t, OriginDate, got)
	})

	t.Run("uses timestamp of last record only", func(t *testing.T) {
		lines := `{"event_id":"a","timestamp_utc":1705329000000}` + "\n" +
			`{"event_id":"b","timestamp_utc":1705415400000}` + "\n"
		got, resumed := ResumeFrom(writeSink(t, lines), nil)
		require.True(t, resumed)
		assert.Equal(t, time.UnixMilli(1705415400000).UTC(), got)
	})

	t.Run("tolerates missing trailing newline", func(t *testing.T) {
		lines := `{"event_id":"a","timestamp_utc":1705329000000}` + "\n" +
			`{"event_id":"b","timestamp_utc":1705415400000}`
		got, resumed := ResumeFrom(writeSink(t, lines), nil)
		require.True(t, resumed)
		assert.Equal(t, time.UnixMilli(1705415400000).UTC(), got)
	})

	t.Run("falls back to datetime string field", func(t *testing.T) {
		lines := `{"event_id":"a","datetime_utc":"2024-01-15 14:30:00"}` + "\n"
		got, resumed := ResumeFrom(writeSink(t, lines), nil)
		require.True(t, resumed)
		assert.Equal(t, time.Date(2024, time.January, 15, 14, 30, 0, 0, time.UTC), got)
	})

	t.Run("corrupt trailing record degrades to origin", func(t *testing.T) {
		lines := `{"event_id":"a","timestamp_utc":1705329000000}` + "\n" +
			`{"event_id":"b","timestamp_` + "\n"
		got, resumed := ResumeFrom(writeSink(t, lines), nil)
		assert.False(t, resumed)
		assert.Equal(t, OriginDate, got)
	})

	t.Run("record without usable fields degrades to origin", func(t *testing.T) {
		lines := `{"event_id":"a"}` + "\n"
		got, resumed := ResumeFrom(writeSink(t, lines), nil)
		assert.False(t, resumed)
		assert.Equal(t, OriginDate, got)
	})
}
