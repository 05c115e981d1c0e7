package sink

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"fxcal/internal/calendar"
)

// Writer appends normalized event records to a JSONL file, one JSON
// object per line. The path is fixed at construction and never mutated
// afterwards. Records are owned by the sink once written; the writer
// keeps no references to them.
type Writer struct {
	path    string
	file    *os.File
	encoder *json.Encoder
	logger  *slog.Logger
	written int
}

// NewWriter opens (or creates) the JSONL file in append mode.
func NewWriter(path string, logger *slog.Logger) (*Writer, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open output file %s: %w", path, err)
	}

	return &Writer{
		path:    path,
		file:    file,
		encoder: json.NewEncoder(file),
		logger:  logger,
	}, nil
}

// Write appends one record as a single JSON line.
func (w *Writer) Write(rec calendar.EventRecord) error {
	if err := w.encoder.Encode(rec); err != nil {
		return fmt.Errorf("failed to write record %s: %w", rec.EventID, err)
	}
	w.written++
	return nil
}

// Written reports how many records this writer has appended.
func (w *Writer) Written() int { return w.written }

// Path returns the sink location.
func (w *Writer) Path() string { return w.path }

// Close flushes and closes the underlying file.
func (w *Writer) Close() error {
	w.logger.Info("closing output sink",
		slog.String("path", w.path),
		slog.Int("records_written", w.written))
	return w.file.Close()
}
