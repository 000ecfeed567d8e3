// Package workload generates deterministic synthetic request streams for
// tests and for exercising engines without a trace file. Every generator is
// seeded and restartable: two streams built with the same parameters yield
// identical sequences.
package workload

import (
	"io"
	"math/rand"

	"github.com/cache-sim/cache-sim/sim"
)

// Sequential yields n GET requests for distinct object ids 0..n-1, one clock
// tick apart, all the same size. A pure cold-miss scan: useful as the
// worst case for any recency policy and as the fixed input for policy
// equivalence checks.
type Sequential struct {
	n    int
	size int64
	pos  int
}

var _ sim.ResettableStream = (*Sequential)(nil)

// NewSequential creates a sequential scan of n objects of the given size.
func NewSequential(n int, size int64) *Sequential {
	return &Sequential{n: n, size: size}
}

func (s *Sequential) Next() (sim.Request, error) {
	if s.pos >= s.n {
		return sim.Request{}, io.EOF
	}
	req := sim.Request{
		ObjID:     uint64(s.pos),
		Size:      s.size,
		ClockTime: int64(s.pos),
		Op:        sim.OpGet,
	}
	s.pos++
	return req, nil
}

func (s *Sequential) Reset() error {
	s.pos = 0
	return nil
}

// Cyclic yields n GET requests cycling over k distinct objects: 0,1,..,k-1,
// 0,1,... Re-references arrive k ticks apart, which makes TTL and LRU-versus-
// FIFO behavior easy to pin down in tests.
type Cyclic struct {
	n    int
	k    int
	size int64
	pos  int
}

var _ sim.ResettableStream = (*Cyclic)(nil)

// NewCyclic creates a cyclic scan of length n over k distinct objects.
func NewCyclic(n, k int, size int64) *Cyclic {
	return &Cyclic{n: n, k: k, size: size}
}

func (c *Cyclic) Next() (sim.Request, error) {
	if c.pos >= c.n {
		return sim.Request{}, io.EOF
	}
	req := sim.Request{
		ObjID:     uint64(c.pos % c.k),
		Size:      c.size,
		ClockTime: int64(c.pos),
		Op:        sim.OpGet,
	}
	c.pos++
	return req, nil
}

func (c *Cyclic) Reset() error {
	c.pos = 0
	return nil
}

// Hotset yields n GET requests where a fraction of references go to a small
// hot set and the rest to a large cold universe. Sizes are fixed; the skew
// gives sweeps a non-trivial miss-ratio curve.
type Hotset struct {
	n       int
	hot     int     // hot object ids are [0, hot)
	cold    int     // cold ids are [hot, hot+cold)
	hotFrac float64 // probability a reference hits the hot set
	size    int64
	seed    int64
	rng     *rand.Rand
	pos     int
}

var _ sim.ResettableStream = (*Hotset)(nil)

// NewHotset creates a skewed stream of length n. hotFrac of references draw
// uniformly from hot ids, the rest from cold ids.
func NewHotset(n, hot, cold int, hotFrac float64, size int64, seed int64) *Hotset {
	h := &Hotset{n: n, hot: hot, cold: cold, hotFrac: hotFrac, size: size, seed: seed}
	h.rng = rand.New(rand.NewSource(seed))
	return h
}

func (h *Hotset) Next() (sim.Request, error) {
	if h.pos >= h.n {
		return sim.Request{}, io.EOF
	}
	var id uint64
	if h.rng.Float64() < h.hotFrac {
		id = uint64(h.rng.Intn(h.hot))
	} else {
		id = uint64(h.hot + h.rng.Intn(h.cold))
	}
	req := sim.Request{
		ObjID:     id,
		Size:      h.size,
		ClockTime: int64(h.pos),
		Op:        sim.OpGet,
	}
	h.pos++
	return req, nil
}

// Reset restarts the stream; the reseeded rng reproduces the same draws.
func (h *Hotset) Reset() error {
	h.rng = rand.New(rand.NewSource(h.seed))
	h.pos = 0
	return nil
}

// Collect materializes a stream into a slice. Test helper.
func Collect(s sim.RequestStream) ([]sim.Request, error) {
	var out []sim.Request
	for {
		req, err := s.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, req)
	}
}
