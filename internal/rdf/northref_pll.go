package rdf

import (
	"math"

	"github.com/charlieh0tel/rotaryclub-sub000/internal/dspcore"
)

// PLLNorthReferenceTracker is a digital phase-locked loop tracking the
// antenna rotation rate from detected north-tick peaks. It is the most
// delicate component of the pipeline: see spec.md §4.9.
type PLLNorthReferenceTracker struct {
	common *northRefCommon

	phase     float64
	frequency float64
	kp, ki    float64
	minOmega  float64
	maxOmega  float64

	lockWeightPhase float64
	lockWeightFreq  float64

	phaseErrStats *rollingWindow
	freqStats     *rollingWindow

	haveAccepted     bool
	lastAcceptedTick float64
}

// NewPLLNorthReferenceTracker constructs a PLL tracker, validating the
// PLL-specific configuration per spec.md §4.9.
func NewPLLNorthReferenceTracker(cfg Config) (*PLLNorthReferenceTracker, error) {
	p := cfg.NorthTick.PLL
	if err := validatePLLConfig(cfg.Audio.SampleRate, p); err != nil {
		return nil, err
	}

	common, err := newNorthRefCommon(cfg)
	if err != nil {
		return nil, err
	}

	tickRateHz := p.InitialHz
	samplesPerTick := cfg.Audio.SampleRate / tickRateHz
	omegaN := 2 * math.Pi * p.NaturalHz / tickRateHz

	minOmega := 2 * math.Pi * p.MinHz / cfg.Audio.SampleRate
	maxOmega := 2 * math.Pi * p.MaxHz / cfg.Audio.SampleRate
	initialFreq := 2 * math.Pi * p.InitialHz / cfg.Audio.SampleRate

	lockPhase := cfg.Bearing.LockWeightPhase
	lockFreq := cfg.Bearing.LockWeightFreq
	if lockPhase == 0 && lockFreq == 0 {
		lockPhase, lockFreq = 0.5, 0.5
	}

	return &PLLNorthReferenceTracker{
		common:          common,
		frequency:       clamp(initialFreq, minOmega, maxOmega),
		kp:              2 * p.Damping * omegaN,
		ki:              omegaN * omegaN / samplesPerTick,
		minOmega:        minOmega,
		maxOmega:        maxOmega,
		lockWeightPhase: lockPhase,
		lockWeightFreq:  lockFreq,
		phaseErrStats:   newRollingWindow(lockQualityWindow),
		freqStats:       newRollingWindow(lockQualityWindow),
	}, nil
}

func validatePLLConfig(sampleRate float64, p PLLConfig) error {
	type check struct {
		field string
		ok    bool
	}
	checks := []check{
		{"audio.sample_rate", finitePositive(sampleRate)},
		{"north_tick.pll.initial_hz", finitePositive(p.InitialHz)},
		{"north_tick.pll.natural_hz", finitePositive(p.NaturalHz)},
		{"north_tick.pll.min_hz", finitePositive(p.MinHz)},
		{"north_tick.pll.max_hz", finitePositive(p.MaxHz)},
	}
	for _, c := range checks {
		if !c.ok {
			return &ConfigError{Field: c.field, Message: "must be finite and positive"}
		}
	}
	if p.Damping < 0 {
		return &ConfigError{Field: "north_tick.pll.damping", Message: "must be non-negative"}
	}
	if p.MinHz >= p.MaxHz {
		return &ConfigError{Field: "north_tick.pll.min_hz", Message: "must be less than max_hz"}
	}
	return nil
}

// ProcessChunk implements NorthReferenceTracker.
func (t *PLLNorthReferenceTracker) ProcessChunk(buf []float32) []NorthTick {
	events, counter := t.common.filterChunk(buf)

	var ticks []NorthTick
	lastProcessed := 0

	for _, ev := range events {
		// 1. Phase advance to peak.
		deltaSamples := float64(ev.Index - lastProcessed)
		t.phase = wrapPhase(t.phase + t.frequency*deltaSamples)
		lastProcessed = ev.Index

		// 2. Compensated tick sample.
		global := counter + int64(ev.Index)
		delaySamples := math.Round(t.common.groupDelay + float64(t.common.pulsePeakOffset))
		compensated := float64(global) - delaySamples
		fractionalDelayOffset := delaySamples - (t.common.groupDelay + float64(t.common.pulsePeakOffset))

		// 3. Gate against double-triggers from ringing.
		if t.haveAccepted && t.frequency > 0 {
			minSpacing := 0.75 * (2 * math.Pi / t.frequency)
			if compensated-t.lastAcceptedTick < minSpacing {
				continue
			}
		}

		// 4. Phase error.
		e := wrapPhaseError(-t.phase)
		t.phaseErrStats.push(e)

		// 5. Conditional timing correction.
		correction := 0.0
		if variance, ok := t.phaseErrStats.variance(); ok && t.phaseErrStats.count >= 16 {
			if stdDev := math.Sqrt(variance); stdDev <= 0.25 {
				correction = clamp(-e/t.frequency, -0.1, 0.1)
			}
		}
		fractionalOffset := clamp(fractionalDelayOffset+correction, -0.5, 0.5)

		// 6. Loop update.
		t.frequency = clamp(t.frequency+t.ki*e, t.minOmega, t.maxOmega)
		t.phase = wrapPhase(t.phase + t.kp*e)
		t.freqStats.push(t.frequency)

		t.haveAccepted = true
		t.lastAcceptedTick = compensated

		// 7. Emit.
		ticks = append(ticks, NorthTick{
			SampleIndex:            int64(compensated),
			Period:                 2 * math.Pi / t.frequency,
			HasPeriod:              true,
			LockQuality:            t.lockQuality(),
			HasLockQuality:         t.lockQualityDefined(),
			FractionalSampleOffset: fractionalOffset,
			Phase:                  0,
			Frequency:              t.frequency,
		})
	}

	remaining := float64(len(buf) - lastProcessed)
	t.phase = wrapPhase(t.phase + t.frequency*remaining)
	t.common.advanceCounter(len(buf))

	return ticks
}

func (t *PLLNorthReferenceTracker) lockQualityDefined() bool {
	_, phaseOK := t.phaseErrStats.variance()
	_, freqOK := t.freqStats.variance()
	return phaseOK && freqOK
}

func (t *PLLNorthReferenceTracker) lockQuality() float64 {
	phaseVar, phaseOK := t.phaseErrStats.variance()
	freqVar, freqOK := t.freqStats.variance()
	if !phaseOK || !freqOK {
		return 0
	}
	phaseScore := clamp01(1 - math.Sqrt(phaseVar)/math.Pi)

	meanFreq := t.freqStats.mean()
	freqCV := 1.0
	if math.Abs(meanFreq) > 1e-10 {
		freqCV = math.Sqrt(freqVar) / math.Abs(meanFreq)
	}
	freqScore := clamp01(1 - 100*freqCV)

	return t.lockWeightPhase*phaseScore + t.lockWeightFreq*freqScore
}

// RotationFrequencyHz reports the PLL's current rotation-rate estimate in
// Hz, 0 if the oscillator frequency is non-positive.
func (t *PLLNorthReferenceTracker) RotationFrequencyHz() float64 {
	if t.frequency <= 0 {
		return 0
	}
	return t.frequency * t.common.sampleRate / (2 * math.Pi)
}

// PhaseErrorVariance reports the PLL's windowed phase-error variance.
func (t *PLLNorthReferenceTracker) PhaseErrorVariance() (float64, bool) {
	return t.phaseErrStats.variance()
}

func wrapPhase(x float64) float64      { return dspcore.WrapPhase(x) }
func wrapPhaseError(x float64) float64 { return dspcore.WrapPhaseError(x) }
