package dspcore

import "math"

// AGCConfig holds the parameters used to derive an AGC's internal
// coefficients at construction time.
type AGCConfig struct {
	TargetRMS float64 `yaml:"target_rms"`
	AttackMs  float64 `yaml:"attack_ms"`
	ReleaseMs float64 `yaml:"release_ms"`
	WindowMs  float64 `yaml:"window_ms"`
	MinGain   float64 `yaml:"min_gain"`
	MaxGain   float64 `yaml:"max_gain"`
}

// AGC is a windowed-RMS normaliser with separate attack/release time
// constants. Gain holds (rather than amplifying) once the measured RMS
// falls to silence, per spec.
type AGC struct {
	cfg AGCConfig

	windowSize   int
	attackCoef   float64
	releaseCoef  float64

	accum      float64
	accumCount int
	gain       float64
}

// NewAGC derives window_size = sampleRate*windowMs/1000 and the per-edge
// exponential coefficients exp(-windowMs/tauMs) from cfg.
func NewAGC(sampleRate float64, cfg AGCConfig) *AGC {
	windowSize := int(sampleRate * cfg.WindowMs / 1000)
	if windowSize < 1 {
		windowSize = 1
	}
	a := &AGC{
		cfg:         cfg,
		windowSize:  windowSize,
		attackCoef:  math.Exp(-cfg.WindowMs / cfg.AttackMs),
		releaseCoef: math.Exp(-cfg.WindowMs / cfg.ReleaseMs),
		gain:        1,
	}
	return a
}

// Process applies the AGC in place to buf.
func (a *AGC) Process(buf []float32) {
	for i, x := range buf {
		buf[i] = float32(float64(x) * a.gain)
		a.accum += float64(x) * float64(x)
		a.accumCount++
		if a.accumCount >= a.windowSize {
			rms := math.Sqrt(a.accum / float64(a.accumCount))
			a.accum = 0
			a.accumCount = 0
			if rms > 1e-6 {
				desired := a.cfg.TargetRMS / rms
				coef := a.releaseCoef
				if desired < a.gain {
					coef = a.attackCoef
				}
				a.gain = coef*a.gain + (1-coef)*desired
				if a.gain < a.cfg.MinGain {
					a.gain = a.cfg.MinGain
				}
				if a.gain > a.cfg.MaxGain {
					a.gain = a.cfg.MaxGain
				}
			}
			// else: hold, preventing amplification of silence.
		}
	}
}

// Gain returns the current applied gain.
func (a *AGC) Gain() float64 { return a.gain }

// Reset clears the running RMS accumulator and resets gain to unity.
func (a *AGC) Reset() {
	a.accum = 0
	a.accumCount = 0
	a.gain = 1
}
