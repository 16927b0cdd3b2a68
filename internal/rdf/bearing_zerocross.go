package rdf

import (
	"math"

	"github.com/charlieh0tel/rotaryclub-sub000/internal/dspcore"
)

// ZeroCrossingBearingCalculator measures bearing by phase-averaging the
// Doppler tone's zero crossings against each tick's rotation period
// (spec.md §4.12).
type ZeroCrossingBearingCalculator struct {
	base       *bearingBase
	detector   *dspcore.ZeroCrossingDetector
	crossings  []float64
	haveScan   bool
}

// NewZeroCrossingBearingCalculator constructs the phase-averaging
// calculator.
func NewZeroCrossingBearingCalculator(cfg Config) (*ZeroCrossingBearingCalculator, error) {
	base, err := newBearingBase(cfg)
	if err != nil {
		return nil, err
	}
	return &ZeroCrossingBearingCalculator{
		base:     base,
		detector: dspcore.NewZeroCrossingDetector(cfg.Doppler.ZeroCrossHysteresis),
	}, nil
}

// Preprocess implements the shared preprocess step and scans the
// preprocessed buffer for zero crossings once, ahead of ProcessTick.
func (z *ZeroCrossingBearingCalculator) Preprocess(buf []float32) {
	z.base.preprocess(buf)
	z.crossings = z.detector.FindAllCrossings(z.base.scratch)
	z.haveScan = true
}

// ProcessTick computes a bearing measurement for tick using the
// crossings found by the last Preprocess call, or nil if the tick
// carries no period or there is no scanned buffer.
func (z *ZeroCrossingBearingCalculator) ProcessTick(tick NorthTick) *BearingMeasurement {
	if !z.haveScan || !tick.HasPeriod {
		return nil
	}
	period := tick.Period
	if period <= 0 || math.IsNaN(period) || math.IsInf(period, 0) {
		return nil
	}

	baseOffset := z.base.sampleCounter - tick.SampleIndex

	g := z.base.filterGroupDelay()
	a := z.base.northTickTimingAdj()

	var X, Y float64
	for _, c := range z.crossings {
		delta := float64(baseOffset) + c - g + a
		alpha := 2 * math.Pi * delta / period
		X += math.Cos(alpha)
		Y += math.Sin(alpha)
	}

	avgPhase := math.Atan2(Y, X)
	rawBearing := math.Mod(avgPhase*180/math.Pi, 360)
	if rawBearing < 0 {
		rawBearing += 360
	}

	n := len(z.base.scratch)
	var signalStrength, coherence, snrDb float64

	expectedCrossings := float64(n) / period
	if expectedCrossings > 0 {
		signalStrength = clamp01(float64(len(z.crossings)) / expectedCrossings)
	}

	if len(z.crossings) >= 2 {
		var sumAbsErr float64
		for i := 1; i < len(z.crossings); i++ {
			interval := z.crossings[i] - z.crossings[i-1]
			sumAbsErr += math.Abs((interval - period) / period)
		}
		meanAbsErr := sumAbsErr / float64(len(z.crossings)-1)
		coherence = clamp01(1 - meanAbsErr)
	} else {
		coherence = 0.5
	}

	var signalPower float64
	for _, s := range z.base.scratch {
		signalPower += float64(s) * float64(s)
	}
	if n > 0 {
		signalPower /= float64(n)
	}
	snrDb = clamp(10*math.Log10(math.Max(signalPower, 1e-10))+40, 0, 40)

	m := &BearingMeasurement{
		RawBearing: rawBearing,
		Metrics: BearingMetrics{
			SNRDb:          snrDb,
			Coherence:      coherence,
			SignalStrength: signalStrength,
		},
	}
	m.Confidence = combineConfidence(z.base.confidenceWeights(), snrDb, coherence, signalStrength)
	m.BearingDegrees = z.base.smoothBearing(rawBearing)
	return m
}

// AdvanceBuffer increments the sample counter by the last preprocessed
// length. Callers invoke it exactly once per chunk, after all ticks in
// that chunk have been processed.
func (z *ZeroCrossingBearingCalculator) AdvanceBuffer() {
	z.base.advanceCounter(len(z.base.scratch))
}
