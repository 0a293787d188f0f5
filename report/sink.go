package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/weiihann/k2bench/harness"
)

// Header is the first row of every result table.
var Header = []string{"n", "bitmatrix", "k2tree"}

// IOError reports a failure to persist a result table.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Append writes records to the CSV table at path, creating it with Header
// if it does not exist yet. Rows are appended in order and synced to disk
// before Append returns.
//
// The existence check and the write are not atomic: only one writer may
// use a table at a time.
func Append(records []harness.Record, path string) error {
	_, err := os.Stat(path)
	fresh := errors.Is(err, fs.ErrNotExist)
	if err != nil && !fresh {
		return &IOError{Op: "stat", Path: path, Err: err}
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if fresh {
		if err := w.Write(Header); err != nil {
			return &IOError{Op: "write header", Path: path, Err: err}
		}
	}

	for _, r := range records {
		row := []string{
			strconv.Itoa(r.N),
			strconv.FormatInt(r.Baseline, 10),
			strconv.FormatInt(r.Compressed, 10),
		}
		if err := w.Write(row); err != nil {
			return &IOError{Op: "write row", Path: path, Err: err}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return &IOError{Op: "flush", Path: path, Err: err}
	}

	if err := f.Sync(); err != nil {
		return &IOError{Op: "sync", Path: path, Err: err}
	}

	if err := f.Close(); err != nil {
		return &IOError{Op: "close", Path: path, Err: err}
	}

	return nil
}

// Sink accumulates records for one table until Flush.
type Sink struct {
	path    string
	records []harness.Record
}

// NewSink creates a Sink writing to path.
func NewSink(path string) *Sink {
	return &Sink{path: path}
}

// Path returns the destination table.
func (s *Sink) Path() string { return s.path }

// Add queues records for the next Flush.
func (s *Sink) Add(records ...harness.Record) {
	s.records = append(s.records, records...)
}

// Pending returns the queued records.
func (s *Sink) Pending() []harness.Record { return s.records }

// Flush appends the queued records to the table. Records stay queued if
// the write fails.
func (s *Sink) Flush() error {
	if err := Append(s.records, s.path); err != nil {
		return err
	}

	s.records = s.records[:0]

	return nil
}
