// Sampling-based random eviction. Keeps no per-object state at all: victims
// come straight from the table's bucket sampler, which is why SampleRandom
// exists on the ObjectTable in the first place.

package sim

// RandomPolicy evicts a randomly sampled resident object. Determinism across
// identical replays follows from the table's seeded sampler.
type RandomPolicy struct {
	table *ObjectTable
}

// NewRandomPolicy creates a random-eviction policy.
func NewRandomPolicy() *RandomPolicy {
	return &RandomPolicy{}
}

func (p *RandomPolicy) BindTable(t *ObjectTable) {
	p.table = t
}

func (p *RandomPolicy) OnAdmit(Handle) {}

func (p *RandomPolicy) OnAccess(Handle) {}

func (p *RandomPolicy) EvictCandidate() (Handle, bool) {
	return p.table.SampleRandom()
}

func (p *RandomPolicy) OnRemove(Handle) {}
