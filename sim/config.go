package sim

import "errors"

// Configuration errors surfaced before any simulation runs.
var (
	// ErrUnknownPolicy means a policy name resolved to nothing in the
	// registry; no engine is constructed.
	ErrUnknownPolicy = errors.New("unknown eviction policy")
)

// MetadataOverheadBytes is the fixed per-object overhead charged against the
// capacity budget when CacheParams.AccountMetadataBytes is set. Approximates
// the CacheObject record plus chain and policy links.
const MetadataOverheadBytes = 80

// CacheParams groups cache engine parameters. Immutable after engine
// construction; engines never read process-wide state.
type CacheParams struct {
	CapacityBytes int64 // byte budget for resident objects (must be > 0)
	DefaultTTL    int64 // expiry in trace clock units (0 = disabled)
	TablePower    uint  // initial bucket count is 2^TablePower (0 = default)
	Seed          int64 // seed for the table sampler; same seed, same replay

	// AccountMetadataBytes charges MetadataOverheadBytes per resident
	// object in the admission calculation.
	AccountMetadataBytes bool
}

// Footprint returns the bytes an object of the given size charges against
// CapacityBytes under these params.
func (p CacheParams) Footprint(size int64) int64 {
	if p.AccountMetadataBytes {
		return size + MetadataOverheadBytes
	}
	return size
}
