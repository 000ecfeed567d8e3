// Eviction policy contract and the name-to-factory registry used at cache
// construction time. Builtin policies self-register in init(); externally
// supplied policies register through RegisterPolicy before CreateCache is
// called — the core never loads modules itself.

package sim

import (
	"fmt"
	"sort"
)

// EvictionPolicy is the capability contract an eviction policy satisfies.
// Policies see only handles; the objects behind them belong to the engine's
// ObjectTable. Any implementation that honors this contract may substitute
// for a builtin without the engine noticing.
type EvictionPolicy interface {
	// OnAdmit is called after an object is inserted into the table.
	OnAdmit(h Handle)
	// OnAccess is called on every hit.
	OnAccess(h Handle)
	// EvictCandidate names the next victim without removing it. Returns
	// false when the policy tracks nothing. The candidate is always a
	// handle currently resident in the table.
	EvictCandidate() (Handle, bool)
	// OnRemove is called before the engine removes a handle from the
	// table, whether by eviction, expiry, or explicit delete.
	OnRemove(h Handle)
}

// TableBound is implemented by policies that need the owning engine's object
// table: intrusive policies link handles through CacheObject policy fields,
// sampling policies draw victims via SampleRandom. The engine binds the table
// exactly once, before the first request.
type TableBound interface {
	BindTable(t *ObjectTable)
}

// PolicyFactory builds a fresh policy state for one engine instance.
type PolicyFactory func(params CacheParams) EvictionPolicy

// policyRegistry maps policy names to factories. Mutated only during setup
// (init functions and embedding-application registration), read afterwards.
var policyRegistry = map[string]PolicyFactory{}

// RegisterPolicy binds a name to a factory. Registering an existing name
// replaces the previous binding, which is how an external implementation
// shadows a builtin for equivalence testing.
func RegisterPolicy(name string, factory PolicyFactory) {
	policyRegistry[name] = factory
}

// RegisteredPolicies returns the sorted names currently resolvable.
func RegisteredPolicies() []string {
	names := make([]string, 0, len(policyRegistry))
	for name := range policyRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewPolicy resolves a name to a fresh policy instance.
func NewPolicy(name string, params CacheParams) (EvictionPolicy, error) {
	factory, ok := policyRegistry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
	return factory(params), nil
}

func init() {
	RegisterPolicy("LRU", func(CacheParams) EvictionPolicy { return NewLRU() })
	RegisterPolicy("FIFO", func(CacheParams) EvictionPolicy { return NewFIFO() })
	RegisterPolicy("Random", func(CacheParams) EvictionPolicy { return NewRandomPolicy() })
}
