package dspcore

import "fmt"

// FilterDesignError signals a filter specification that cannot be
// realised: band edges that collide, fall outside (0, 0.5) once
// normalised, or a solver that otherwise cannot converge.
type FilterDesignError struct {
	Reason string
}

func (e *FilterDesignError) Error() string {
	return fmt.Sprintf("filter design: %s", e.Reason)
}

// InsufficientDataError is returned by utilities that require a minimum
// analysis window larger than what has been buffered so far.
type InsufficientDataError struct {
	Needed, Available int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: needed %d, available %d", e.Needed, e.Available)
}
