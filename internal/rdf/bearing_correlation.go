package rdf

import (
	"math"

	"github.com/charlieh0tel/rotaryclub-sub000/internal/dspcore"
)

// CorrelationBearingCalculator measures bearing by I/Q demodulating the
// preprocessed Doppler buffer against the PLL-supplied reference tone
// (spec.md §4.11).
type CorrelationBearingCalculator struct {
	base *bearingBase
}

// NewCorrelationBearingCalculator constructs the I/Q-demodulation
// calculator.
func NewCorrelationBearingCalculator(cfg Config) (*CorrelationBearingCalculator, error) {
	base, err := newBearingBase(cfg)
	if err != nil {
		return nil, err
	}
	return &CorrelationBearingCalculator{base: base}, nil
}

// Preprocess implements the shared preprocess step; call once per chunk
// before ProcessTick.
func (c *CorrelationBearingCalculator) Preprocess(buf []float32) {
	c.base.preprocess(buf)
}

// ProcessTick computes a bearing measurement for tick against the most
// recently preprocessed buffer, or nil if the data is insufficient.
func (c *CorrelationBearingCalculator) ProcessTick(tick NorthTick) *BearingMeasurement {
	baseOffset, ok := c.base.offsetFromNorthTick(tick)
	if !ok {
		return nil
	}

	omega := tick.Frequency
	if omega <= 0 || math.IsNaN(omega) || math.IsInf(omega, 0) {
		return nil
	}
	if tick.HasPeriod && (math.IsNaN(tick.Period) || math.IsInf(tick.Period, 0)) {
		return nil
	}

	g := c.base.filterGroupDelay()
	a := c.base.northTickTimingAdj()

	buf := c.base.scratch
	n := len(buf)
	if n == 0 {
		return nil
	}

	var I, Q, P float64
	for idx, s := range buf {
		t := float64(baseOffset) + float64(idx) - g + a
		phi := tick.Phase + t*omega
		cosPhi, sinPhi := math.Cos(phi), math.Sin(phi)
		x := float64(s)
		I += x * cosPhi
		Q += x * sinPhi
		P += x * x
	}
	nf := float64(n)
	I /= nf
	Q /= nf
	P /= nf

	corrMag := math.Hypot(I, Q)
	rawPhase := dspcore.WrapPhase(-math.Atan2(I, Q))
	rawBearingDeg := dspcore.WrapDegrees(rawPhase * 180 / math.Pi)

	m := BearingMeasurement{
		RawBearing: rawBearingDeg,
	}

	if n < 4 || P < 1e-10 {
		m.Metrics = BearingMetrics{}
		m.Confidence = 0
	} else {
		snrDb := 10 * math.Log10(corrMag*corrMag/math.Max(P-corrMag*corrMag, 1e-10))

		sub := n / 4
		var phases []float64
		for k := 0; k < 4; k++ {
			lo := k * sub
			hi := lo + sub
			if k == 3 {
				hi = n
			}
			var Ik, Qk float64
			for idx := lo; idx < hi; idx++ {
				t := float64(baseOffset) + float64(idx) - g + a
				phi := tick.Phase + t*omega
				x := float64(buf[idx])
				Ik += x * math.Cos(phi)
				Qk += x * math.Sin(phi)
			}
			phases = append(phases, math.Atan2(-Ik, Qk))
		}
		coherence := clamp01(1 - circularPhaseVariance(phases)/(math.Pi*math.Pi/3))

		signalStrength := 0.0
		if P > 0.01 {
			signalStrength = clamp01(corrMag / math.Sqrt(P))
		}

		m.Metrics = BearingMetrics{SNRDb: snrDb, Coherence: coherence, SignalStrength: signalStrength}
		m.Confidence = combineConfidence(c.base.confidenceWeights(), snrDb, coherence, signalStrength)
	}

	m.BearingDegrees = c.base.smoothBearing(m.RawBearing)
	return &m
}

// AdvanceBuffer implements the once-per-chunk counter advance after all
// ticks in the chunk have been processed.
func (c *CorrelationBearingCalculator) AdvanceBuffer() {
	c.base.advanceCounter(len(c.base.scratch))
}

// circularPhaseVariance computes the variance of phases around their
// circular mean, with each difference wrapped to [-pi, pi] before
// squaring, so a spread that straddles the +-pi seam is not
// overestimated.
func circularPhaseVariance(phases []float64) float64 {
	if len(phases) == 0 {
		return 0
	}
	var sumX, sumY float64
	for _, p := range phases {
		sumX += math.Cos(p)
		sumY += math.Sin(p)
	}
	mean := math.Atan2(sumY, sumX)

	var sumSq float64
	for _, p := range phases {
		d := dspcore.WrapPhaseError(p - mean)
		sumSq += d * d
	}
	return sumSq / float64(len(phases))
}
