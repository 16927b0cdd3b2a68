package dspcore

import "math"

const zeroCrossingEpsilon = 1e-10

// ZeroCrossingDetector is a hysteresis-guarded negative-to-positive
// crossing detector with sub-sample linear interpolation. It arms on any
// sample below -hysteresis and fires (then disarms) on the next sample
// above +hysteresis.
type ZeroCrossingDetector struct {
	hysteresis float64
	armed      bool
	lastSample float64
	lastIndex  int
	haveLast   bool
}

// NewZeroCrossingDetector builds a detector with the given hysteresis.
func NewZeroCrossingDetector(hysteresis float64) *ZeroCrossingDetector {
	return &ZeroCrossingDetector{hysteresis: hysteresis}
}

// FindAllCrossings returns the ordered sub-sample crossing positions
// observed across buf, carrying arm/fire state across calls.
func (z *ZeroCrossingDetector) FindAllCrossings(buf []float32) []float64 {
	var crossings []float64
	for i, xf := range buf {
		x := float64(xf)
		if !z.armed && x < -z.hysteresis {
			z.armed = true
		} else if z.armed && x > z.hysteresis {
			if z.haveLast {
				pos := interpolateCrossing(z.lastIndex, z.lastSample, i, x)
				crossings = append(crossings, pos)
			} else {
				crossings = append(crossings, float64(i))
			}
			z.armed = false
		}
		z.lastSample = x
		z.lastIndex = i
		z.haveLast = true
	}
	// The carried sample sits one position before the next buffer's index 0.
	z.lastIndex = -1
	return crossings
}

// interpolateCrossing linearly interpolates the zero crossing between
// sample (i0, y0) and (i1, y1), guarding the division with epsilon.
func interpolateCrossing(i0 int, y0 float64, i1 int, y1 float64) float64 {
	denom := y1 - y0
	if math.Abs(denom) < zeroCrossingEpsilon {
		denom = zeroCrossingEpsilon
	}
	frac := -y0 / denom
	return float64(i0) + frac*float64(i1-i0)
}

// Reset clears armed state.
func (z *ZeroCrossingDetector) Reset() {
	z.armed = false
	z.haveLast = false
}
