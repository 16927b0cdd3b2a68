package rdf

import (
	"math"

	"github.com/charlieh0tel/rotaryclub-sub000/internal/dspcore"
)

// bearingSmoother is satisfied by dspcore.MovingAverage and
// dspcore.CircularSmoother; the base selects between them per
// cfg.Bearing.UseCircularSmooth.
type bearingSmoother interface {
	Add(value float64) float64
}

// bearingBase owns the AGC, Doppler bandpass, smoother, and the
// sample-counter bookkeeping shared between the correlation and
// zero-crossing calculators (spec.md §4.10).
type bearingBase struct {
	agc      *dspcore.AGC
	firBP    *dspcore.FIRCore
	iirBP    *dspcore.IIRBandpass
	smoother bearingSmoother

	scratch       []float32
	sampleCounter int64

	groupDelay                float64
	northTickTimingAdjustment float64
	weights                   ConfidenceWeights
}

func newBearingBase(cfg Config) (*bearingBase, error) {
	b := &bearingBase{
		agc:                       dspcore.NewAGC(cfg.Audio.SampleRate, cfg.AGC),
		northTickTimingAdjustment: cfg.Doppler.NorthTickTimingAdjustment,
		weights:                   DefaultConfidenceWeights(),
	}

	if cfg.Doppler.IIROrder > 0 {
		iir, err := dspcore.NewIIRBandpass(cfg.Audio.SampleRate, cfg.Doppler.BandpassLowHz, cfg.Doppler.BandpassHighHz, cfg.Doppler.IIROrder)
		if err != nil {
			return nil, err
		}
		b.iirBP = iir
		b.groupDelay = 0 // an IIR cascade has no constant group delay; treated as zero per spec's "configured" filter contract
	} else {
		taps, err := dspcore.DesignBandpass(cfg.Audio.SampleRate, cfg.Doppler.BandpassLowHz, cfg.Doppler.BandpassHighHz, 0, 101)
		if err != nil {
			return nil, err
		}
		fir := dspcore.NewFIRCore(taps)
		b.firBP = fir
		b.groupDelay = fir.GroupDelaySamples()
	}

	if cfg.Bearing.UseCircularSmooth {
		b.smoother = dspcore.NewCircularSmoother(cfg.Bearing.SmoothingWindow)
	} else {
		b.smoother = dspcore.NewMovingAverage(cfg.Bearing.SmoothingWindow)
	}

	return b, nil
}

// preprocess copies buf into scratch and applies AGC then bandpass in
// place, preserving the contract that scratch then represents samples
// [sampleCounter, sampleCounter+len(buf)) in the global timeline.
func (b *bearingBase) preprocess(buf []float32) {
	if cap(b.scratch) < len(buf) {
		b.scratch = make([]float32, len(buf))
	}
	b.scratch = b.scratch[:len(buf)]
	copy(b.scratch, buf)

	b.agc.Process(b.scratch)

	if b.iirBP != nil {
		for i, x := range b.scratch {
			b.scratch[i] = b.iirBP.Process(x)
		}
	} else {
		for i, x := range b.scratch {
			b.scratch[i] = float32(b.firBP.Process(float64(x)))
		}
	}
}

// offsetFromNorthTick returns sampleCounter - tick.SampleIndex and true
// iff the tick is not in the future relative to the current buffer start.
func (b *bearingBase) offsetFromNorthTick(tick NorthTick) (int64, bool) {
	offset := b.sampleCounter - tick.SampleIndex
	if offset < 0 {
		return 0, false
	}
	return offset, true
}

func (b *bearingBase) smoothBearing(raw float64) float64 {
	return dspcore.WrapDegrees(b.smoother.Add(raw))
}

func (b *bearingBase) advanceCounter(n int) {
	b.sampleCounter += int64(n)
}

func (b *bearingBase) filterGroupDelay() float64 { return b.groupDelay }

func (b *bearingBase) northTickTimingAdj() float64 { return b.northTickTimingAdjustment }

func (b *bearingBase) confidenceWeights() ConfidenceWeights { return b.weights }

func isFiniteNonZeroPositive(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0) && x > 0
}
