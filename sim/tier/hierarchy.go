// Package tier chains cache engines into a multi-level hierarchy and runs
// capacity sweeps over independent engine instances.
package tier

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/cache-sim/cache-sim/sim"
)

// MissRecorder receives the sub-sequence of requests that missed at one tier.
// A trace writer implements this to persist the derived stream for later
// standalone sweeps of downstream tier sizes.
type MissRecorder interface {
	Write(req sim.Request) error
}

// GlobalMiss marks a request that missed at every tier.
const GlobalMiss = -1

// Hierarchy dispatches requests down an ordered chain of engines: tier 0 is
// the innermost (e.g., L1). A hierarchy owns its engines the way an engine
// owns its table: single caller, no locking.
type Hierarchy struct {
	tiers     []*sim.CacheEngine
	recorders []MissRecorder
	requests  int64
	misses    int64 // global misses: missed every tier
}

// NewHierarchy builds a hierarchy over the given engines, ordered from the
// top tier down. At least one engine is required.
func NewHierarchy(tiers ...*sim.CacheEngine) (*Hierarchy, error) {
	if len(tiers) == 0 {
		return nil, fmt.Errorf("hierarchy needs at least one tier")
	}
	return &Hierarchy{
		tiers:     tiers,
		recorders: make([]MissRecorder, len(tiers)),
	}, nil
}

// RecordMisses attaches a recorder to one tier. Every request that misses at
// that tier is written to it, forming a derived trace.
func (h *Hierarchy) RecordMisses(tier int, rec MissRecorder) {
	h.recorders[tier] = rec
}

// Tier returns the engine at the given level.
func (h *Hierarchy) Tier(i int) *sim.CacheEngine {
	return h.tiers[i]
}

// Get replays one reference through the chain and returns the index of the
// tier that hit, or GlobalMiss. A hit at a lower tier promotes the object
// into every tier above it via the normal admission path; a global miss
// inserts the object into every tier with room.
func (h *Hierarchy) Get(req sim.Request) (int, error) {
	h.requests++
	for i, engine := range h.tiers {
		if engine.Get(req) {
			// Promotion already happened: each upper tier admitted the
			// object on its own miss path before the request reached us.
			return i, nil
		}
		if rec := h.recorders[i]; rec != nil {
			if err := rec.Write(req); err != nil {
				return GlobalMiss, fmt.Errorf("recording tier %d miss: %w", i, err)
			}
		}
	}
	h.misses++
	// Engine.Get already admitted at every tier on its own miss path, so a
	// global miss needs no extra insertion here.
	return GlobalMiss, nil
}

// Replay feeds a stream through the hierarchy until io.EOF, dispatching
// DELETEs to every tier. Halts on a stream error, preserving partial stats.
func (h *Hierarchy) Replay(stream sim.RequestStream) error {
	for {
		req, err := stream.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if req.Op == sim.OpDelete {
			for _, engine := range h.tiers {
				engine.Delete(req)
			}
			continue
		}
		if _, err := h.Get(req); err != nil {
			return err
		}
	}
}

// Stats returns per-tier engine stats, top tier first.
func (h *Hierarchy) Stats() []sim.Stats {
	out := make([]sim.Stats, len(h.tiers))
	for i, engine := range h.tiers {
		out[i] = engine.Stats()
	}
	return out
}

// GlobalMissRatio is the fraction of GET/PUT references that missed at every
// tier.
func (h *Hierarchy) GlobalMissRatio() float64 {
	if h.requests == 0 {
		return 0
	}
	return float64(h.misses) / float64(h.requests)
}

// Print logs per-tier counters.
func (h *Hierarchy) Print() {
	for i, engine := range h.tiers {
		s := engine.Stats()
		logrus.Infof("tier %d: requests=%d hits=%d misses=%d missRatio=%.4f resident=%d",
			i, s.Requests, s.Hits, s.Misses, s.MissRatio(), s.ObjectsResident)
	}
}
