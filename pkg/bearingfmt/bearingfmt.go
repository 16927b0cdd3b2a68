// Package bearingfmt implements the out-of-core bearing output
// formatters described in spec.md §6: human-readable text, CSV, JSON,
// and the fixed-width KN5R frame.
package bearingfmt

import (
	"time"

	"github.com/charlieh0tel/rotaryclub-sub000/internal/rdf"
)

// Record is one formatted measurement: a tick result plus the wall-clock
// timestamp it was produced at.
type Record struct {
	Timestamp          time.Time
	Result             rdf.TickResult
	PhaseErrorVariance float64
	HasPhaseErrVariance bool
}

// Formatter renders one Record to a line of output (without a trailing
// newline; callers add their own line separator).
type Formatter interface {
	Format(r Record) string
}
