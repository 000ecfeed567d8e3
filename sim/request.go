// Defines the Request struct that models a single cache reference in a replayed
// trace, and the Operation enum carried in trace records.

package sim

import (
	"fmt"
	"io"
)

// Operation is the request type carried in a trace record.
type Operation uint8

const (
	OpGet Operation = iota
	OpPut
	OpDelete
)

// String returns the trace-format mnemonic for an operation.
func (op Operation) String() string {
	switch op {
	case OpGet:
		return "GET"
	case OpPut:
		return "PUT"
	case OpDelete:
		return "DELETE"
	default:
		return fmt.Sprintf("Operation(%d)", uint8(op))
	}
}

// Request models one reference from a trace. Requests are immutable: the core
// never writes to a Request, so a single slice of them may back any number of
// concurrently replaying engines.
type Request struct {
	ObjID     uint64    // Object identifier
	Size      int64     // Object size in bytes
	ClockTime int64     // Logical clock of the reference (trace time, not wall time)
	Op        Operation // GET, PUT or DELETE
	Tenant    uint32    // Tenant identifier (24 bits used); carried, not interpreted

	// NextAccessVTime is the virtual time of this object's next reference,
	// supplied by ground-truth traces for offline-optimal policies.
	// Zero when the trace carries no oracle information.
	NextAccessVTime int64
}

// String returns a human-readable representation of a Request.
func (req Request) String() string {
	return fmt.Sprintf("Request: (ObjID: %d, Size: %d, Op: %s, ClockTime: %d)", req.ObjID, req.Size, req.Op, req.ClockTime)
}

// RequestStream is a lazy sequence of requests. Next returns io.EOF after the
// last request; any other error means the source failed mid-sequence.
// Restartable sources additionally provide Reset, re-yielding the identical
// sequence from the start.
type RequestStream interface {
	Next() (Request, error)
}

// ResettableStream is a RequestStream that can be replayed from the beginning.
type ResettableStream interface {
	RequestStream
	Reset() error
}

// Drain consumes a stream to exhaustion, returning the number of requests read.
// Useful in tests and for counting trace length.
func Drain(s RequestStream) (int, error) {
	n := 0
	for {
		_, err := s.Next()
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		n++
	}
}
