package trace

import (
	"errors"
	"fmt"
	"io"

	"github.com/cache-sim/cache-sim/sim"
)

// ErrShortRecord means the source ended mid-record. A replay that hits this
// halts and keeps the stats accumulated so far; it is never silently ignored.
var ErrShortRecord = errors.New("truncated trace record")

// Reader decodes consecutive records from any byte source.
type Reader struct {
	src    io.Reader
	format Format
	buf    []byte
	read   int64 // records decoded so far
}

// NewReader wraps a byte source in a record decoder.
func NewReader(src io.Reader, format Format) *Reader {
	return &Reader{
		src:    src,
		format: format,
		buf:    make([]byte, format.RecordSize()),
	}
}

// Next decodes the next record. Returns io.EOF cleanly at a record boundary
// and ErrShortRecord when the source ends inside one.
func (r *Reader) Next() (sim.Request, error) {
	_, err := io.ReadFull(r.src, r.buf)
	if err == io.EOF {
		return sim.Request{}, io.EOF
	}
	if err == io.ErrUnexpectedEOF {
		return sim.Request{}, fmt.Errorf("%w after %d records", ErrShortRecord, r.read)
	}
	if err != nil {
		return sim.Request{}, err
	}
	r.read++
	return r.format.Decode(r.buf), nil
}
