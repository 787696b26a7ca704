package benchmark

import (
	"encoding/csv"
	"os"
	"path/filepath"

	apperrors "matbench/internal/errors"
)

// Sink receives every sample as soon as it is measured.
type Sink interface {
	Record(s Sample) error
}

// CSVSink appends samples to a CSV file, flushing after each row so that
// an interrupted benchmark leaves only complete rows behind.
type CSVSink struct {
	path string
	file *os.File
	w    *csv.Writer
}

// NewCSVSink creates the output file (and its directory) and writes the
// header. Any failure is returned as an IOError and leaves no file behind.
func NewCSVSink(path string) (*CSVSink, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, apperrors.NewIOError("create directory", dir, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, apperrors.NewIOError("open", path, err)
	}

	s := &CSVSink{path: path, file: f, w: csv.NewWriter(f)}
	if err := s.writeRow(Header); err != nil {
		f.Close()
		os.Remove(path)
		return nil, err
	}
	return s, nil
}

// Path returns the output file path.
func (s *CSVSink) Path() string {
	return s.path
}

// Record implements Sink.
func (s *CSVSink) Record(sample Sample) error {
	return s.writeRow(sample.Row())
}

func (s *CSVSink) writeRow(row []string) error {
	if err := s.w.Write(row); err != nil {
		return apperrors.NewIOError("write", s.path, err)
	}
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		return apperrors.NewIOError("write", s.path, err)
	}
	return nil
}

// Close flushes and closes the file.
func (s *CSVSink) Close() error {
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		s.file.Close()
		return apperrors.NewIOError("flush", s.path, err)
	}
	if err := s.file.Close(); err != nil {
		return apperrors.NewIOError("close", s.path, err)
	}
	return nil
}
