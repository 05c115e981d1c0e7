package sink

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"fxcal/internal/errors"
)

// ErrorSink appends one line per row-level failure to a plain-text side
// file, of the form "<timestamp> (<category>)". Failures to write are
// logged and swallowed; the error sink must never abort a page.
type ErrorSink struct {
	path   string
	logger *slog.Logger
}

// NewErrorSink creates a sink writing to the given path. The file is
// created lazily on the first failure.
func NewErrorSink(path string, logger *slog.Logger) *ErrorSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorSink{path: path, logger: logger}
}

// Record appends one failure line keyed by the offending row's date.
func (s *ErrorSink) Record(at time.Time, category errors.Category) {
	line := fmt.Sprintf("%s (%s)\n", at.Format("2006-01-02 15:04:05"), category)

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		s.logger.Warn("could not open error sink",
			slog.String("path", s.path),
			slog.String("error", err.Error()))
		return
	}
	defer file.Close()

	if _, err := file.WriteString(line); err != nil {
		s.logger.Warn("could not append to error sink",
			slog.String("path", s.path),
			slog.String("error", err.Error()))
	}
}
