// Package progress renders the P2 status line: the ratio of the outer
// sweep variable low to its target z, as a percentage, overwriting the
// prior line on every update.
package progress

import (
	"fmt"
	"os"
	"runtime"
	"sync"
)

// StatusLine writes a single self-overwriting percentage line to stderr.
// It is safe for concurrent Update calls, though the P2 orchestrator only
// ever calls it from the root rank after each round.
type StatusLine struct {
	precision int
	label     string
	mu        sync.Mutex
	lastLen   int
}

// NewStatusLine returns a StatusLine reporting percentages to the given
// number of decimal digits (clamped to [0, 6]).
func NewStatusLine(label string, precision int) *StatusLine {
	if precision < 0 {
		precision = 0
	}
	if precision > 6 {
		precision = 6
	}
	return &StatusLine{label: label, precision: precision}
}

// Update renders low/z as a percentage, overwriting whatever this
// StatusLine last printed.
func (s *StatusLine) Update(low, z int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var percent float64
	if z > 0 {
		percent = float64(low) / float64(z) * 100
		if percent > 100 {
			percent = 100
		}
	}

	line := fmt.Sprintf("%s: %.*f%%", s.label, s.precision, percent)
	pad := s.lastLen - len(line)
	if pad < 0 {
		pad = 0
	}
	fmt.Fprintf(os.Stderr, "\r%s%*s", line, pad, "")
	s.lastLen = len(line)
}

// Finish prints a trailing newline so later output doesn't share the line.
func (s *StatusLine) Finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(os.Stderr)
}

// GetCPUCount returns the default worker count for unset --threads flags.
func GetCPUCount() int {
	return runtime.NumCPU()
}

// FormatNumber renders large counts with a K/M/B suffix for timing lines.
func FormatNumber(n int64) string {
	switch {
	case n >= 1_000_000_000:
		return fmt.Sprintf("%.2fB", float64(n)/1_000_000_000)
	case n >= 1_000_000:
		return fmt.Sprintf("%.2fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.2fK", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}
