package rdf

import "math"

// SimpleNorthReferenceTracker emits a NorthTick for each detected peak
// using a plain exponential moving average of the inter-pulse period,
// with no phase-locked loop and no timing-correction feedback.
type SimpleNorthReferenceTracker struct {
	common       *northRefCommon
	nominalOmega float64
	haveEMA      bool
	emaPeriod    float64
	lastPeakIdx  int64
	haveLast     bool
}

// NewSimpleNorthReferenceTracker constructs the Simple-mode tracker.
func NewSimpleNorthReferenceTracker(cfg Config) (*SimpleNorthReferenceTracker, error) {
	common, err := newNorthRefCommon(cfg)
	if err != nil {
		return nil, err
	}
	return &SimpleNorthReferenceTracker{
		common:       common,
		nominalOmega: 2 * math.Pi * cfg.Doppler.ExpectedRotation.Hz() / cfg.Audio.SampleRate,
	}, nil
}

const simpleEMAAlpha = 0.1

// ProcessChunk implements NorthReferenceTracker.
func (t *SimpleNorthReferenceTracker) ProcessChunk(buf []float32) []NorthTick {
	events, counter := t.common.filterChunk(buf)
	defer t.common.advanceCounter(len(buf))
	ticks := make([]NorthTick, 0, len(events))
	for _, ev := range events {
		global := counter + int64(ev.Index)

		if t.haveLast {
			interval := float64(global - t.lastPeakIdx)
			if !t.haveEMA {
				t.emaPeriod = interval
				t.haveEMA = true
			} else {
				t.emaPeriod = (1-simpleEMAAlpha)*t.emaPeriod + simpleEMAAlpha*interval
			}
		}
		t.lastPeakIdx = global
		t.haveLast = true

		// Until an interval is established the tick carries the configured
		// expected rotation frequency and no period.
		tick := NorthTick{
			SampleIndex: global,
			Phase:       0,
			Frequency:   t.nominalOmega,
		}
		if t.haveEMA && t.emaPeriod > 0 {
			tick.Period = t.emaPeriod
			tick.HasPeriod = true
			tick.Frequency = 2 * math.Pi / t.emaPeriod
		}
		ticks = append(ticks, tick)
	}
	return ticks
}

// RotationFrequencyHz reports the current EMA-derived rotation rate, 0 if
// not yet established.
func (t *SimpleNorthReferenceTracker) RotationFrequencyHz() float64 {
	if !t.haveEMA || t.emaPeriod <= 0 {
		return 0
	}
	return t.common.sampleRate / t.emaPeriod
}

// PhaseErrorVariance is undefined in Simple mode (no PLL phase error).
func (t *SimpleNorthReferenceTracker) PhaseErrorVariance() (float64, bool) {
	return 0, false
}
