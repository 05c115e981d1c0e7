package sink

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"time"
)

// OriginDate is the venue's earliest available historical data. Resume
// falls back here when the sink is empty, absent, or unreadable.
var OriginDate = time.Date(2007, time.January, 1, 0, 0, 0, 0, time.UTC)

// resumeRecord is the subset of the output schema the cursor needs.
type resumeRecord struct {
	EventID      string `json:"event_id"`
	TimestampUTC int64  `json:"timestamp_utc"`
	DatetimeUTC  string `json:"datetime_utc"`
}

// ResumeFrom reconstructs the restart instant from the most recently
// appended record in the sink. Only the last line is read, never the
// full file. The result is advisory: any corruption degrades to the
// origin date rather than failing startup.
func ResumeFrom(path string, logger *slog.Logger) (time.Time, bool) {
	if logger == nil {
		logger = slog.Default()
	}

	file, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("could not open sink for resume",
				slog.String("path", path),
				slog.String("error", err.Error()))
		}
		return OriginDate, false
	}
	defer file.Close()

	line, err := lastLine(file)
	if err != nil || len(line) == 0 {
		return OriginDate, false
	}

	var rec resumeRecord
	if err := json.Unmarshal(line, &rec); err != nil {
		logger.Warn("could not parse last sink record, starting from origin",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return OriginDate, false
	}

	if rec.TimestampUTC > 0 {
		resumed := time.UnixMilli(rec.TimestampUTC).UTC()
		logger.Info("resuming from last record",
			slog.String("event_id", rec.EventID),
			slog.String("resume_from", resumed.Format("2006-01-02 15:04:05")))
		return resumed, true
	}

	if rec.DatetimeUTC != "" {
		if resumed, err := time.ParseInLocation("2006-01-02 15:04:05", rec.DatetimeUTC, time.UTC); err == nil {
			logger.Info("resuming from last record datetime field",
				slog.String("event_id", rec.EventID),
				slog.String("resume_from", rec.DatetimeUTC))
			return resumed, true
		}
	}

	logger.Warn("last sink record carries no usable timestamp, starting from origin",
		slog.String("event_id", rec.EventID))
	return OriginDate, false
}

// lastLine seeks backwards from the end of the file to the final
// newline-terminated line without scanning the whole file.
func lastLine(file *os.File) ([]byte, error) {
	info, err := file.Stat()
	if err != nil {
		return nil, err
	}
	size := info.Size()
	if size == 0 {
		return nil, nil
	}

	// Walk backwards one byte at a time past any trailing newline,
	// then until the previous newline.
	pos := size - 1
	buf := make([]byte, 1)
	for pos >= 0 {
		if _, err := file.ReadAt(buf, pos); err != nil {
			return nil, err
		}
		if buf[0] != '\n' {
			break
		}
		pos--
	}
	end := pos + 1
	for pos >= 0 {
		if _, err := file.ReadAt(buf, pos); err != nil {
			return nil, err
		}
		if buf[0] == '\n' {
			break
		}
		pos--
	}
	start := pos + 1

	line := make([]byte, end-start)
	if _, err := file.ReadAt(line, start); err != nil && err != io.EOF {
		return nil, err
	}
	return line, nil
}
