package trace

import (
	"bufio"
	"io"
	"os"

	"github.com/cache-sim/cache-sim/sim"
)

// Writer encodes records onto a byte sink. Used to persist derived miss
// streams so downstream tier sweeps can replay them without rerunning the
// full original trace.
type Writer struct {
	dst    io.Writer
	format Format
	buf    []byte
}

// NewWriter wraps a byte sink in a record encoder.
func NewWriter(dst io.Writer, format Format) *Writer {
	return &Writer{
		dst:    dst,
		format: format,
		buf:    make([]byte, format.RecordSize()),
	}
}

// Write appends one record.
func (w *Writer) Write(req sim.Request) error {
	w.format.Encode(req, w.buf)
	_, err := w.dst.Write(w.buf)
	return err
}

// FileWriter persists records to a file, buffered.
type FileWriter struct {
	*Writer
	f *os.File
	b *bufio.Writer
}

// Create opens path for writing and returns a record writer over it.
func Create(path string, format Format) (*FileWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	b := bufio.NewWriter(f)
	return &FileWriter{Writer: NewWriter(b, format), f: f, b: b}, nil
}

// Close flushes and closes the underlying file.
func (w *FileWriter) Close() error {
	if err := w.b.Flush(); err != nil {
		w.f.Close()
		return err
	}
	return w.f.Close()
}
