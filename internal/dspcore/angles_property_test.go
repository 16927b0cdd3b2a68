package dspcore

import (
	"math"
	"testing"

	"pgregory.net/rapid"
)

func TestWrapPhasePropertyAlwaysInRange(t *testing.T) {
	rapid.Check(t, func(tt *rapid.T) {
		x := rapid.Float64Range(-1e6, 1e6).Draw(tt, "x")
		y := WrapPhase(x)
		if y < 0 || y >= 2*math.Pi {
			tt.Fatalf("WrapPhase(%v) = %v out of [0, 2pi)", x, y)
		}
	})
}

func TestWrapPhaseErrorPropertyAlwaysInRange(t *testing.T) {
	rapid.Check(t, func(tt *rapid.T) {
		x := rapid.Float64Range(-1e6, 1e6).Draw(tt, "x")
		y := WrapPhaseError(x)
		if y < -math.Pi || y >= math.Pi {
			tt.Fatalf("WrapPhaseError(%v) = %v out of [-pi, pi)", x, y)
		}
	})
}

func TestWrapDegreesPropertyAlwaysInRange(t *testing.T) {
	rapid.Check(t, func(tt *rapid.T) {
		x := rapid.Float64Range(-1e6, 1e6).Draw(tt, "x")
		y := WrapDegrees(x)
		if y < 0 || y >= 360 {
			tt.Fatalf("WrapDegrees(%v) = %v out of [0, 360)", x, y)
		}
	})
}
