// Package synthtest generates synthetic stereo pseudo-Doppler RDF
// signals and noise for use only by tests and the synthrdf demo tool,
// adapted from the retrieved synthetic_rdf.rs/generate_test_wav.rs test
// fixtures (see DESIGN.md).
package synthtest

import (
	"math"
	"math/rand"
)

// SignalParams parameterises a synthetic stereo RDF recording.
type SignalParams struct {
	SampleRate     float64
	DurationSecs   float64
	RotationHz     float64
	DopplerToneHz  float64
	BearingDegrees float64
	NoiseAmplitude float64
	// NorthPulseWidth is the fraction (radians, out of 2*pi) of each
	// rotation during which the north-tick pulse is high.
	NorthPulseWidth float64
}

// DefaultNorthPulseWidth matches generate_test_wav.rs's pulse duty cycle.
const DefaultNorthPulseWidth = 0.05

// GenerateInterleaved synthesizes an interleaved stereo buffer: left
// channel the Doppler tone phase-modulated by the rotation and bearing,
// right channel the once-per-rotation north-tick pulse, with optional
// additive white noise on both channels.
func GenerateInterleaved(p SignalParams, rng *rand.Rand) []float32 {
	numSamples := int(p.DurationSecs * p.SampleRate)
	samples := make([]float32, 0, numSamples*2)

	bearingRad := p.BearingDegrees * math.Pi / 180
	samplesPerRotation := p.SampleRate / p.RotationHz
	pulseWidth := p.NorthPulseWidth
	if pulseWidth <= 0 {
		pulseWidth = DefaultNorthPulseWidth
	}

	for i := 0; i < numSamples; i++ {
		t := float64(i) / p.SampleRate

		rotationPhase := (float64(i) / samplesPerRotation) * 2 * math.Pi
		phaseOffset := rotationPhase + bearingRad
		doppler := math.Sin(p.DopplerToneHz*t*2*math.Pi + phaseOffset)

		tickPhase := math.Mod(rotationPhase, 2*math.Pi)
		northTick := 0.0
		if tickPhase < pulseWidth {
			northTick = 0.8
		}

		if p.NoiseAmplitude > 0 && rng != nil {
			doppler += p.NoiseAmplitude * (2*rng.Float64() - 1)
			northTick += p.NoiseAmplitude * (2*rng.Float64() - 1)
		}

		samples = append(samples, float32(doppler), float32(northTick))
	}
	return samples
}
