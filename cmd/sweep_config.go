package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SweepConfig is the YAML schema for hierarchy sweeps. Recognized keys:
//
//	l1:
//	  path: [trace-a.bin, trace-b.bin]   # one L1 instance per trace
//	  size: "10MB"                       # applied to all L1 instances
//	l2:
//	  size: ["64MB", "256MB", "1GB"]     # one sweep point per entry
//	policy: LRU                          # optional, defaults to LRU
//	format: compact                      # optional trace layout
//	output: ./results                    # derived traces and MRC results
//
// Missing a required key is a configuration error surfaced before any
// simulation runs.
type SweepConfig struct {
	L1 struct {
		Path []string `yaml:"path"`
		Size string   `yaml:"size"`
	} `yaml:"l1"`
	L2 struct {
		Size []string `yaml:"size"`
	} `yaml:"l2"`
	Policy string `yaml:"policy"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

func errMissingKey(key string) error {
	return fmt.Errorf("missing required configuration key %q", key)
}

// LoadSweepConfig reads and validates a sweep configuration file.
func LoadSweepConfig(path string) (*SweepConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &SweepConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing sweep config %s: %w", path, err)
	}
	if cfg.Policy == "" {
		cfg.Policy = "LRU"
	}
	if cfg.Format == "" {
		cfg.Format = "compact"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every required key is present.
func (c *SweepConfig) Validate() error {
	if len(c.L1.Path) == 0 {
		return errMissingKey("l1.path")
	}
	if c.L1.Size == "" {
		return errMissingKey("l1.size")
	}
	if len(c.L2.Size) == 0 {
		return errMissingKey("l2.size")
	}
	if c.Output == "" {
		return errMissingKey("output")
	}
	return nil
}
