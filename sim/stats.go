// Per-engine hit/miss counters and the miss-ratio-curve point type produced
// by capacity sweeps.

package sim

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Stats aggregates counters for one engine. Mutated only by the engine that
// owns it; read freely once replay stops.
type Stats struct {
	Requests        int64 // References replayed
	Hits            int64
	Misses          int64
	ObjectsResident int64 // Residents at the time the stats were read
	BytesRequested  int64 // Sum of request sizes
	BytesMissed     int64 // Sum of request sizes over misses
}

// MissRatio returns Misses / Requests, or 0 before any request.
func (s Stats) MissRatio() float64 {
	if s.Requests == 0 {
		return 0
	}
	return float64(s.Misses) / float64(s.Requests)
}

// Print displays the counters at the end of a replay.
func (s Stats) Print() {
	fmt.Println("=== Replay Stats ===")
	fmt.Printf("Requests         : %d\n", s.Requests)
	fmt.Printf("Hits             : %d\n", s.Hits)
	fmt.Printf("Misses           : %d\n", s.Misses)
	fmt.Printf("Miss Ratio       : %.4f\n", s.MissRatio())
	fmt.Printf("Objects Resident : %d\n", s.ObjectsResident)
	fmt.Printf("Bytes Requested  : %d\n", s.BytesRequested)
	fmt.Printf("Bytes Missed     : %d\n", s.BytesMissed)
}

// MRCPoint is one point of a miss-ratio curve: the miss ratio observed at a
// given capacity.
type MRCPoint struct {
	CapacityBytes int64
	MissRatio     float64
}

// MRCSummary condenses a sweep's curve for reporting.
type MRCSummary struct {
	Points    int
	MeanRatio float64
	MinRatio  float64
	MaxRatio  float64
}

// SummarizeMRC computes summary statistics over a curve.
func SummarizeMRC(points []MRCPoint) MRCSummary {
	if len(points) == 0 {
		return MRCSummary{}
	}
	ratios := make([]float64, len(points))
	min, max := points[0].MissRatio, points[0].MissRatio
	for i, p := range points {
		ratios[i] = p.MissRatio
		if p.MissRatio < min {
			min = p.MissRatio
		}
		if p.MissRatio > max {
			max = p.MissRatio
		}
	}
	return MRCSummary{
		Points:    len(points),
		MeanRatio: stat.Mean(ratios, nil),
		MinRatio:  min,
		MaxRatio:  max,
	}
}
