package dspcore

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapPhase(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{2 * math.Pi, 0},
		{-math.Pi / 2, 3 * math.Pi / 2},
		{5 * math.Pi, math.Pi},
	}
	for _, c := range cases {
		got := WrapPhase(c.in)
		assert.InDelta(t, c.want, got, 1e-9)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.Less(t, got, 2*math.Pi)
	}
}

func TestWrapPhaseError(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi, -math.Pi},
		{-math.Pi, -math.Pi},
		{3 * math.Pi, -math.Pi},
		{math.Pi/2 + 2*math.Pi, math.Pi / 2},
	}
	for _, c := range cases {
		got := WrapPhaseError(c.in)
		assert.InDelta(t, c.want, got, 1e-9)
		assert.GreaterOrEqual(t, got, -math.Pi)
		assert.Less(t, got, math.Pi)
	}
}

func TestWrapDegrees(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{360, 0},
		{-10, 350},
		{720 + 45, 45},
	}
	for _, c := range cases {
		got := WrapDegrees(c.in)
		assert.InDelta(t, c.want, got, 1e-9)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.Less(t, got, 360.0)
	}
}
