package rdf

import (
	"math"

	"github.com/charlieh0tel/rotaryclub-sub000/internal/dspcore"
)

// NorthReferenceTracker finds north-tick events in the north-reference
// channel. Simple and PLL modes share preprocessing; they differ only in
// how a detected peak becomes a NorthTick.
type NorthReferenceTracker interface {
	ProcessChunk(buf []float32) []NorthTick
	RotationFrequencyHz() float64
	PhaseErrorVariance() (float64, bool)
}

// northRefCommon is the shared highpass -> peak-detect preprocessing
// pipeline used by both tracker modes.
type northRefCommon struct {
	sampleRate      float64
	gain            float64
	highpass        *dspcore.FIRCore
	peaks           *dspcore.PeakDetector
	scratch         []float32
	sampleCounter   int64
	groupDelay      float64
	pulsePeakOffset int
}

func newNorthRefCommon(cfg Config) (*northRefCommon, error) {
	taps, err := dspcore.DesignHighpass(cfg.Audio.SampleRate, cfg.NorthTick.HighpassCutoffHz, 0, cfg.NorthTick.HighpassTaps)
	if err != nil {
		return nil, err
	}
	fir := dspcore.NewFIRCore(taps)

	pulsePeakOffset := dspcore.ThresholdCrossingOffset(taps, cfg.NorthTick.PeakThreshold, cfg.NorthTick.ExpectedPulseAmplitude)

	minInterval := int(cfg.NorthTick.MinIntervalMs * cfg.Audio.SampleRate / 1000)
	if minInterval < 1 {
		minInterval = 1
	}
	searchWindow := pulsePeakOffset
	if searchWindow < 1 {
		searchWindow = 1
	}
	searchWindow += 4 // small guard past the impulse response's rising edge

	return &northRefCommon{
		sampleRate:      cfg.Audio.SampleRate,
		gain:            dbToLinear(cfg.NorthTick.InputGainDB),
		highpass:        fir,
		peaks:           dspcore.NewPeakDetector(cfg.NorthTick.PeakThreshold, minInterval, searchWindow),
		groupDelay:      fir.GroupDelaySamples(),
		pulsePeakOffset: pulsePeakOffset,
	}, nil
}

// filterChunk resizes the scratch buffer, applies gain and the highpass,
// and returns the detected peaks plus the current (pre-advance) sample
// counter. It does not itself advance the sample counter — callers call
// advanceCounter once they have finished using the chunk's peak indices,
// since the PLL tracker needs to advance its oscillator phase by the
// trailing samples first.
func (n *northRefCommon) filterChunk(buf []float32) ([]dspcore.PeakEvent, int64) {
	if cap(n.scratch) < len(buf) {
		n.scratch = make([]float32, len(buf))
	}
	n.scratch = n.scratch[:len(buf)]
	for i, x := range buf {
		n.scratch[i] = float32(float64(x) * n.gain)
	}
	for i, x := range n.scratch {
		n.scratch[i] = float32(n.highpass.Process(float64(x)))
	}
	events := n.peaks.Process(n.scratch)
	return events, n.sampleCounter
}

// advanceCounter advances the global sample counter by n.
func (n *northRefCommon) advanceCounter(count int) {
	n.sampleCounter += int64(count)
}

func dbToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}
