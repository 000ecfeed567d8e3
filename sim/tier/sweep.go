package tier

import (
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/cache-sim/cache-sim/sim"
)

// StreamOpener produces a fresh, independently iterable request stream for
// one sweep instance. Each opened stream must yield the same sequence.
type StreamOpener func() (sim.RequestStream, error)

// Sweep replays the same request sequence against one independent engine per
// capacity, concurrently, and returns the miss-ratio curve sorted by
// capacity. Instances share nothing: each goroutine gets its own engine and
// its own stream, so no locking is needed around any core structure. A
// failing instance reports its error without disturbing the others.
func Sweep(policyName string, base sim.CacheParams, capacities []int64, open StreamOpener) ([]sim.MRCPoint, error) {
	points := make([]sim.MRCPoint, len(capacities))
	errs := make([]error, len(capacities))

	var wg sync.WaitGroup
	for i, capacity := range capacities {
		wg.Add(1)
		go func(i int, capacity int64) {
			defer wg.Done()
			params := base
			params.CapacityBytes = capacity
			engine, err := sim.CreateCache(policyName, params)
			if err != nil {
				errs[i] = err
				return
			}
			stream, err := open()
			if err != nil {
				errs[i] = err
				return
			}
			stats, err := engine.Replay(stream)
			if err != nil {
				errs[i] = fmt.Errorf("sweep point %d bytes: %w", capacity, err)
				return
			}
			points[i] = sim.MRCPoint{CapacityBytes: capacity, MissRatio: stats.MissRatio()}
			logrus.Debugf("sweep point capacity=%d missRatio=%.4f", capacity, stats.MissRatio())
		}(i, capacity)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	sort.Slice(points, func(a, b int) bool { return points[a].CapacityBytes < points[b].CapacityBytes })
	return points, nil
}
