package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/cache-sim/cache-sim/sim"
	"github.com/cache-sim/cache-sim/sim/trace"
)

var (
	// CLI flags for single-engine replay
	logLevel    string // Log verbosity level
	tracePath   string // Path to the binary trace file
	traceFormat string // Trace record layout (legacy, compact)
	cacheSize   string // Capacity with unit suffix, e.g. "10MB"
	policyName  string // Eviction policy name from the registry
	defaultTTL  int64  // Object TTL in trace clock units (0 = disabled)
	tablePower  uint   // Initial object table bucket count is 2^power
	seed        int64  // Seed for sampling-based policies
	accountMeta bool   // Charge per-object metadata overhead against capacity
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "cache-sim",
	Short: "Trace-driven cache simulator with pluggable eviction policies",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// runCmd replays one trace through one engine and prints its stats
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Replay a trace through a single cache engine",
	RunE: func(cmd *cobra.Command, args []string) error {
		if tracePath == "" {
			return errMissingKey("trace")
		}
		format, err := trace.ParseFormat(traceFormat)
		if err != nil {
			return err
		}
		capacity, err := ParseBytes(cacheSize)
		if err != nil {
			return err
		}

		params := sim.CacheParams{
			CapacityBytes:        capacity,
			DefaultTTL:           defaultTTL,
			TablePower:           tablePower,
			Seed:                 seed,
			AccountMetadataBytes: accountMeta,
		}
		engine, err := sim.CreateCache(policyName, params)
		if err != nil {
			return err
		}

		stream, err := trace.Open(tracePath, format)
		if err != nil {
			return err
		}
		defer stream.Close()

		logrus.Infof("Replaying %s (%s) against %s at %s", tracePath, format, policyName, FormatBytes(uint64(capacity)))
		stats, err := engine.Replay(stream)
		stats.Print()
		if err != nil {
			logrus.Errorf("replay halted: %v", err)
			return err
		}
		return nil
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")

	runCmd.Flags().StringVar(&tracePath, "trace", "", "Binary trace file to replay")
	runCmd.Flags().StringVar(&traceFormat, "format", "compact", "Trace record layout (legacy, compact)")
	runCmd.Flags().StringVar(&cacheSize, "size", "1GB", "Cache capacity (unit suffix allowed, e.g. 10MB)")
	runCmd.Flags().StringVar(&policyName, "policy", "LRU", "Eviction policy name")
	runCmd.Flags().Int64Var(&defaultTTL, "ttl", 0, "Object TTL in trace clock units (0 disables expiry)")
	runCmd.Flags().UintVar(&tablePower, "table-power", 10, "Initial object table bucket count as a power of two")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for sampling-based policies")
	runCmd.Flags().BoolVar(&accountMeta, "account-metadata", false, "Charge per-object metadata overhead against capacity")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sweepCmd)
}
