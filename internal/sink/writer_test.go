package sink

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fxcal/internal/calendar"
)

func testRecord(t *testing.T, event string, at time.Time) calendar.EventRecord {
	t.Helper()
	return calendar.BuildRecord(at, calendar.RawFields{
		Currency: "USD",
		Impact:   "High Impact Expected",
		Event:    event,
		Actual:   "1.2%",
		Forecast: "1.0%",
		Previous: "0.9%",
	})
}

func TestWriter_AppendsOneLinePerRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.jsonl")
	w, err := NewWriter(path, nil)
	require.NoError(t, err)

	at := time.Date(2024, time.January, 15, 14, 30, 0, 0, time.UTC)
	require.NoError(t, w.Write(testRecord(t, "CPI m/m", at)))
	require.NoError(t, w.Write(testRecord(t, "Core CPI m/m", at)))
	assert.Equal(t, 2, w.Written())
	require.NoError(t, w.Close())

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	require.Len(t, lines, 2)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "CPI_m_m_USD_2024-01-15_14:30", rec["event_id"])
	assert.Equal(t, "released", rec["status"])
}

func TestWriter_AppendsAcrossReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.jsonl")
	at := time.Date(2024, time.January, 15, 14, 30, 0, 0, time.UTC)

	w1, err := NewWriter(path, nil)
	require.NoError(t, err)
	require.NoError(t, w1.Write(testRecord(t, "First", at)))
	require.NoError(t, w1.Close())

	w2, err := NewWriter(path, nil)
	require.NoError(t, err)
	require.NoError(t, w2.Write(testRecord(t, "Second", at.Add(time.Hour))))
	require.NoError(t, w2.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "First")
	assert.Contains(t, string(data), "Second")
}

func TestWriter_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "catalog.jsonl")
	w, err := NewWriter(path, nil)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = os.Stat(path)
	assert.NoError(t, err)
}
