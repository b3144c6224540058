// Package report writes confirmed credentials to the run's output
// file, one per line, flushing immediately so a long-running probe's
// findings survive an interrupted process.
package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/kpcyrd/authoscope/scopeerr"
)

// Writer appends "user:password" (or bare "user" in enumerate mode)
// lines to an underlying file.
type Writer struct {
	mu sync.Mutex
	f  io.Closer
	w  *bufio.Writer
}

// Open creates (or truncates) path for writing. Passing "" discards
// every write, used when a run has no -o/--output destination.
func Open(path string) (*Writer, error) {
	if path == "" {
		return &Writer{w: bufio.NewWriter(io.Discard)}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, scopeerr.Annotatef(err, scopeerr.Io, "opening output %s", path)
	}
	return &Writer{f: f, w: bufio.NewWriter(f)}, nil
}

// Write appends one credential line and flushes.
func (w *Writer) Write(user string, password *string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var line string
	if password != nil {
		line = fmt.Sprintf("%s:%s\n", user, *password)
	} else {
		line = fmt.Sprintf("%s\n", user)
	}
	if _, err := w.w.WriteString(line); err != nil {
		return scopeerr.Annotatef(err, scopeerr.Io, "writing report line")
	}
	if err := w.w.Flush(); err != nil {
		return scopeerr.Annotatef(err, scopeerr.Io, "flushing report")
	}
	return nil
}

// Close flushes and closes the underlying file, if any.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.w.Flush(); err != nil {
		return scopeerr.Annotatef(err, scopeerr.Io, "flushing report")
	}
	if w.f != nil {
		return w.f.Close()
	}
	return nil
}
