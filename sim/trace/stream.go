package trace

import (
	"bufio"
	"io"
	"os"

	"github.com/cache-sim/cache-sim/sim"
)

// FileStream replays a trace file as a restartable request stream. Reset
// re-opens the file; re-opening an unchanged source yields the identical
// sequence, which is what determinism tests and multi-engine sweeps rely on.
type FileStream struct {
	path   string
	format Format
	f      *os.File
	r      *Reader
}

var _ sim.ResettableStream = (*FileStream)(nil)

// Open opens a trace file for sequential replay.
func Open(path string, format Format) (*FileStream, error) {
	s := &FileStream{path: path, format: format}
	if err := s.Reset(); err != nil {
		return nil, err
	}
	return s, nil
}

// Next returns the next record in the file.
func (s *FileStream) Next() (sim.Request, error) {
	return s.r.Next()
}

// Reset restarts the stream from the first record.
func (s *FileStream) Reset() error {
	if s.f != nil {
		s.f.Close()
	}
	f, err := os.Open(s.path)
	if err != nil {
		return err
	}
	s.f = f
	s.r = NewReader(bufio.NewReader(f), s.format)
	return nil
}

// Close releases the underlying file.
func (s *FileStream) Close() error {
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}

// concatStream chains streams end to end.
type concatStream struct {
	streams []sim.RequestStream
	pos     int
}

// Concat chains several streams into one sequence, consumed in order.
func Concat(streams ...sim.RequestStream) sim.RequestStream {
	return &concatStream{streams: streams}
}

func (c *concatStream) Next() (sim.Request, error) {
	for c.pos < len(c.streams) {
		req, err := c.streams[c.pos].Next()
		if err == io.EOF {
			c.pos++
			continue
		}
		return req, err
	}
	return sim.Request{}, io.EOF
}
