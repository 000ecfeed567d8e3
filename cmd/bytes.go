package cmd

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	kb = 1024
	mb = kb * 1024
	gb = mb * 1024
	tb = gb * 1024
)

// ParseBytes parses a capacity string with an optional unit suffix:
// "512", "64KB", "10MB", "2GB", "1TB". Units are binary (1KB = 1024).
func ParseBytes(s string) (int64, error) {
	trimmed := strings.TrimSpace(strings.ToUpper(s))
	if trimmed == "" {
		return 0, fmt.Errorf("empty capacity string")
	}
	mult := int64(1)
	switch {
	case strings.HasSuffix(trimmed, "TB"):
		mult, trimmed = tb, strings.TrimSuffix(trimmed, "TB")
	case strings.HasSuffix(trimmed, "GB"):
		mult, trimmed = gb, strings.TrimSuffix(trimmed, "GB")
	case strings.HasSuffix(trimmed, "MB"):
		mult, trimmed = mb, strings.TrimSuffix(trimmed, "MB")
	case strings.HasSuffix(trimmed, "KB"):
		mult, trimmed = kb, strings.TrimSuffix(trimmed, "KB")
	case strings.HasSuffix(trimmed, "B"):
		trimmed = strings.TrimSuffix(trimmed, "B")
	}
	n, err := strconv.ParseInt(strings.TrimSpace(trimmed), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid capacity %q: %w", s, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("capacity %q must be positive", s)
	}
	return n * mult, nil
}

// FormatBytes renders a byte count with its largest whole unit.
func FormatBytes(n uint64) string {
	switch {
	case n >= tb:
		return fmt.Sprintf("%dTB %dGB", n/tb, (n%tb)/gb)
	case n >= gb:
		return fmt.Sprintf("%dGB %dMB", n/gb, (n%gb)/mb)
	case n >= mb:
		return fmt.Sprintf("%dMB %dKB", n/mb, (n%mb)/kb)
	case n >= kb:
		return fmt.Sprintf("%dKB %dB", n/kb, n%kb)
	default:
		return fmt.Sprintf("%dB", n)
	}
}
