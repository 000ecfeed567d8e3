package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/cache-sim/cache-sim/sim"
	"github.com/cache-sim/cache-sim/sim/tier"
	"github.com/cache-sim/cache-sim/sim/trace"
)

var sweepConfigPath string // Path to the sweep YAML config

// sweepCmd runs L1 instances over their traces, persists the derived L2 miss
// streams, then sweeps L2 capacities over those streams and writes the
// miss-ratio curve.
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Sweep L2 capacities over derived L1 miss traces",
	RunE: func(cmd *cobra.Command, args []string) error {
		if sweepConfigPath == "" {
			return errMissingKey("config")
		}
		cfg, err := LoadSweepConfig(sweepConfigPath)
		if err != nil {
			return err
		}
		format, err := trace.ParseFormat(cfg.Format)
		if err != nil {
			return err
		}
		l1Size, err := ParseBytes(cfg.L1.Size)
		if err != nil {
			return err
		}
		l2Sizes := make([]int64, len(cfg.L2.Size))
		for i, s := range cfg.L2.Size {
			if l2Sizes[i], err = ParseBytes(s); err != nil {
				return err
			}
		}
		if err := os.MkdirAll(cfg.Output, 0o755); err != nil {
			return err
		}

		// Phase 1: replay each L1 trace once, recording its misses as a
		// derived trace. Downstream L2 sweeps replay those instead of the
		// original traces.
		derived := make([]string, len(cfg.L1.Path))
		for i, path := range cfg.L1.Path {
			derived[i] = filepath.Join(cfg.Output, fmt.Sprintf("l1_%d_misses.bin", i))
			if err := deriveMissTrace(path, derived[i], format, l1Size, cfg.Policy); err != nil {
				return err
			}
		}

		// Phase 2: sweep L2 capacities over the merged derived streams.
		points, err := tier.Sweep(cfg.Policy, sim.CacheParams{Seed: seed}, l2Sizes, func() (sim.RequestStream, error) {
			return openConcat(derived, format)
		})
		if err != nil {
			return err
		}

		summary := sim.SummarizeMRC(points)
		logrus.Infof("MRC: %d points, mean=%.4f min=%.4f max=%.4f",
			summary.Points, summary.MeanRatio, summary.MinRatio, summary.MaxRatio)
		return writeMRC(filepath.Join(cfg.Output, "mrc.csv"), points)
	},
}

// deriveMissTrace replays one trace through a fresh L1 engine and persists
// the missed sub-sequence.
func deriveMissTrace(inPath, outPath string, format trace.Format, capacity int64, policy string) error {
	engine, err := sim.CreateCache(policy, sim.CacheParams{CapacityBytes: capacity, Seed: seed})
	if err != nil {
		return err
	}
	stream, err := trace.Open(inPath, format)
	if err != nil {
		return err
	}
	defer stream.Close()

	out, err := trace.Create(outPath, format)
	if err != nil {
		return err
	}

	h, err := tier.NewHierarchy(engine)
	if err != nil {
		return err
	}
	h.RecordMisses(0, out)
	if err := h.Replay(stream); err != nil {
		out.Close()
		return err
	}
	stats := engine.Stats()
	logrus.Infof("L1 %s: %d requests, miss ratio %.4f, derived trace %s",
		inPath, stats.Requests, stats.MissRatio(), outPath)
	return out.Close()
}

// openConcat opens each derived trace fresh and chains them into one stream.
func openConcat(paths []string, format trace.Format) (sim.RequestStream, error) {
	streams := make([]sim.RequestStream, len(paths))
	for i, p := range paths {
		s, err := trace.Open(p, format)
		if err != nil {
			return nil, err
		}
		streams[i] = s
	}
	return trace.Concat(streams...), nil
}

// writeMRC writes (capacity, miss_ratio) points as CSV.
func writeMRC(path string, points []sim.MRCPoint) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := fmt.Fprintln(f, "capacity_bytes,miss_ratio"); err != nil {
		return err
	}
	for _, p := range points {
		if _, err := fmt.Fprintf(f, "%d,%.6f\n", p.CapacityBytes, p.MissRatio); err != nil {
			return err
		}
	}
	logrus.Infof("wrote %d MRC points to %s", len(points), path)
	return nil
}

func init() {
	sweepCmd.Flags().StringVar(&sweepConfigPath, "config", "", "Sweep configuration YAML file")
	sweepCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for sampling-based policies")
}
