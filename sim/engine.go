// CacheEngine runs the admission state machine for one simulated cache: one
// object table, one eviction policy state, one set of counters. Instances are
// single-threaded and synchronous; Get never suspends and performs no I/O.
// Parallel sweeps run independent instances with nothing shared.

package sim

import (
	"io"
	"math/rand"

	"github.com/sirupsen/logrus"
)

// CacheEngine simulates a single cache under a byte-capacity budget.
type CacheEngine struct {
	params        CacheParams
	table         *ObjectTable
	policy        EvictionPolicy
	stats         Stats
	residentBytes int64
}

// NewCacheEngine builds an engine around an already-resolved policy. The
// engine takes exclusive ownership of the policy state; if the policy is
// TableBound it is bound to the engine's table here, before any request.
func NewCacheEngine(params CacheParams, policy EvictionPolicy) *CacheEngine {
	table := NewObjectTable(params.TablePower, rand.New(rand.NewSource(params.Seed)))
	if tb, ok := policy.(TableBound); ok {
		tb.BindTable(table)
	}
	return &CacheEngine{
		params: params,
		table:  table,
		policy: policy,
	}
}

// CreateCache resolves a policy name through the registry and builds an
// engine. Fails with a configuration error (wrapping ErrUnknownPolicy) when
// the name resolves to nothing; no engine is constructed in that case.
func CreateCache(policyName string, params CacheParams) (*CacheEngine, error) {
	policy, err := NewPolicy(policyName, params)
	if err != nil {
		return nil, err
	}
	return NewCacheEngine(params, policy), nil
}

// Get replays one reference: returns true on a hit. TTL expiry is checked
// against the request's logical clock; an expired resident is removed and the
// reference falls through to the miss path as if the object were absent.
func (e *CacheEngine) Get(req Request) bool {
	e.stats.Requests++
	e.stats.BytesRequested += req.Size

	if h, ok := e.table.Lookup(req.ObjID); ok {
		obj := e.table.Get(h)
		if e.params.DefaultTTL == 0 || req.ClockTime-obj.LastAccessTime <= e.params.DefaultTTL {
			e.stats.Hits++
			obj.LastAccessTime = req.ClockTime
			e.policy.OnAccess(h)
			return true
		}
		// Expired: drop it and treat the reference as a cold miss.
		e.evictHandle(h)
	}

	e.stats.Misses++
	e.stats.BytesMissed += req.Size
	e.Admit(req)
	return false
}

// Put force-refreshes an object: an already-resident copy is replaced
// (counting a hit), an absent one is admitted (counting a miss).
func (e *CacheEngine) Put(req Request) bool {
	e.stats.Requests++
	e.stats.BytesRequested += req.Size

	hit := false
	if h, ok := e.table.Lookup(req.ObjID); ok {
		hit = true
		e.stats.Hits++
		e.evictHandle(h)
	} else {
		e.stats.Misses++
		e.stats.BytesMissed += req.Size
	}
	e.Admit(req)
	return hit
}

// Delete drops an object if resident. Deletes carry no hit/miss outcome, so
// they touch no counters: Requests always equals Hits plus Misses.
func (e *CacheEngine) Delete(req Request) {
	if h, ok := e.table.Lookup(req.ObjID); ok {
		e.evictHandle(h)
	}
}

// Admit runs the admission path for a request without touching the hit/miss
// counters: evict until the object fits, then insert. An object larger than
// the whole budget is rejected with no eviction side effects. Used by Get on
// miss and by tier promotion, which must not double-count.
func (e *CacheEngine) Admit(req Request) {
	footprint := e.params.Footprint(req.Size)
	if footprint > e.params.CapacityBytes {
		logrus.Debugf("rejecting oversized object %d (%d bytes > %d budget)", req.ObjID, req.Size, e.params.CapacityBytes)
		return
	}
	if _, ok := e.table.Lookup(req.ObjID); ok {
		return
	}
	for e.residentBytes+footprint > e.params.CapacityBytes {
		victim, ok := e.policy.EvictCandidate()
		if !ok {
			break
		}
		e.evictHandle(victim)
	}
	h, err := e.table.Insert(req.ObjID, req.Size, req.ClockTime)
	if err != nil {
		// Unreachable: residency was checked above.
		logrus.Errorf("insert failed for object %d: %v", req.ObjID, err)
		return
	}
	e.residentBytes += footprint
	e.policy.OnAdmit(h)
}

// evictHandle removes one resident from policy, table, and the byte budget.
func (e *CacheEngine) evictHandle(h Handle) {
	size := e.table.Get(h).Size
	e.policy.OnRemove(h)
	e.table.Remove(h)
	e.residentBytes -= e.params.Footprint(size)
}

// Contains reports residency without side effects on stats or recency.
func (e *CacheEngine) Contains(id uint64) bool {
	_, ok := e.table.Lookup(id)
	return ok
}

// NObjects returns the resident object count.
func (e *CacheEngine) NObjects() int {
	return e.table.Len()
}

// ResidentBytes returns the bytes currently charged against the budget.
func (e *CacheEngine) ResidentBytes() int64 {
	return e.residentBytes
}

// Params returns the engine's immutable construction parameters.
func (e *CacheEngine) Params() CacheParams {
	return e.params
}

// Stats returns a copy of the counters with ObjectsResident filled in.
func (e *CacheEngine) Stats() Stats {
	s := e.stats
	s.ObjectsResident = int64(e.table.Len())
	return s
}

// Replay feeds a stream through the engine, dispatching on each request's
// operation, until io.EOF. On a stream error the replay halts and returns the
// stats accumulated so far alongside the error; every request boundary is a
// consistent checkpoint.
func (e *CacheEngine) Replay(stream RequestStream) (Stats, error) {
	for {
		req, err := stream.Next()
		if err == io.EOF {
			return e.Stats(), nil
		}
		if err != nil {
			return e.Stats(), err
		}
		switch req.Op {
		case OpDelete:
			e.Delete(req)
		case OpPut:
			e.Put(req)
		default:
			e.Get(req)
		}
	}
}

// Free releases the object table and policy state. The engine must not be
// used afterwards; a single call is expected.
func (e *CacheEngine) Free() {
	e.table = nil
	e.policy = nil
	e.residentBytes = 0
}
