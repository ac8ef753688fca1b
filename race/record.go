// SPDX-License-Identifier: MIT

// Package race runs one logical operation under every execution model,
// times each attempt, and selects the fastest successful result. Results
// are numerically interchangeable across models, so the selection is a
// pure performance comparison; the record of every attempt is the point.
package race

import (
	"time"
)

// Attempt is the timed outcome of one strategy's run. Err is nil on
// success; a failed attempt still carries the time spent failing.
type Attempt struct {
	Strategy string
	Elapsed  time.Duration
	Err      error
}

// Ok reports whether the attempt produced a usable result.
func (a Attempt) Ok() bool { return a.Err == nil }

// Record accumulates one race: every attempt in execution order plus the
// selected winner. RunID correlates the record with log lines.
type Record struct {
	RunID    string
	Op       string
	Attempts []Attempt
	Winner   string        // empty when every attempt failed
	Elapsed  time.Duration // winner's elapsed time
}
