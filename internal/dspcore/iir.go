package dspcore

import (
	"math"
	"math/cmplx"
	"sort"
)

// biquadSection is one second-order section in Direct Form II Transposed,
// operating in double precision internally.
type biquadSection struct {
	b0, b1, b2 float64
	a1, a2     float64
	z1, z2     float64
}

func (s *biquadSection) process(x float64) float64 {
	y := s.b0*x + s.z1
	s.z1 = s.b1*x - s.a1*y + s.z2
	s.z2 = s.b2*x - s.a2*y
	return y
}

func (s *biquadSection) reset() {
	s.z1, s.z2 = 0, 0
}

func (s *biquadSection) response(omega float64) complex128 {
	z := cmplx.Exp(complex(0, -omega))
	num := complex(s.b0, 0) + complex(s.b1, 0)*z + complex(s.b2, 0)*z*z
	den := complex(1, 0) + complex(s.a1, 0)*z + complex(s.a2, 0)*z*z
	return num / den
}

// IIRBandpass is a cascaded-second-order-sections Butterworth bandpass,
// an alternative to the FIR Doppler filter. Internal state is double
// precision; Process truncates the result to float32 at the boundary.
type IIRBandpass struct {
	sections []biquadSection
}

// NewIIRBandpass designs a Butterworth bandpass of the given order (the
// total analog pole count, forced even) between loHz and hiHz at
// sampleRate, via the standard lowpass-prototype -> bandpass -> bilinear
// transform chain, implemented as cascaded second-order sections.
func NewIIRBandpass(sampleRate, loHz, hiHz float64, order int) (*IIRBandpass, error) {
	if order < 2 {
		order = 2
	}
	if order%2 != 0 {
		order++
	}
	if loHz <= 0 || hiHz <= loHz || hiHz >= sampleRate/2 {
		return nil, &FilterDesignError{Reason: "butterworth bandpass edges out of range"}
	}

	lpOrder := order / 2

	wLo := math.Tan(math.Pi * loHz / sampleRate)
	wHi := math.Tan(math.Pi * hiHz / sampleRate)
	bw := wHi - wLo
	w0 := math.Sqrt(wLo * wHi)
	w0sq := w0 * w0

	lpPoles := butterworthLowpassPoles(lpOrder)

	bpPoles := make([]complex128, 0, 2*lpOrder)
	for _, p := range lpPoles {
		pBW := p * complex(bw, 0)
		disc := pBW*pBW - complex(4*w0sq, 0)
		sq := cmplx.Sqrt(disc)
		s1 := (pBW + sq) / 2
		s2 := (pBW - sq) / 2
		bpPoles = append(bpPoles, s1, s2)
	}

	digitalPoles := make([]complex128, len(bpPoles))
	for i, s := range bpPoles {
		digitalPoles[i] = bilinear(s)
	}
	sort.Slice(digitalPoles, func(i, j int) bool {
		return imag(digitalPoles[i]) < imag(digitalPoles[j])
	})

	n := len(digitalPoles) / 2
	sections := make([]biquadSection, n)
	for i := 0; i < n; i++ {
		za := digitalPoles[i]
		zb := digitalPoles[len(digitalPoles)-1-i]
		a1 := real(-(za + zb))
		a2 := real(za * zb)
		sections[i] = biquadSection{b0: 1, b1: 0, b2: -1, a1: a1, a2: a2}
	}

	f := &IIRBandpass{sections: sections}
	f.normalize(math.Atan2(w0, 1) * 2) // digital angular frequency at band centre
	return f, nil
}

// butterworthLowpassPoles returns the n analog poles of a unit-cutoff
// Butterworth lowpass prototype.
func butterworthLowpassPoles(n int) []complex128 {
	poles := make([]complex128, n)
	for k := 0; k < n; k++ {
		theta := math.Pi * (2*float64(k) + float64(n) + 1) / float64(2*n)
		poles[k] = complex(math.Cos(theta), math.Sin(theta))
	}
	return poles
}

// bilinear maps one pre-warped analog pole/zero to the digital domain via
// z = (1+s)/(1-s).
func bilinear(s complex128) complex128 {
	return (1 + s) / (1 - s)
}

// normalize scales the cascade's gain (split evenly, in log domain, across
// sections) so the magnitude response at omega (radians/sample) is unity.
func (f *IIRBandpass) normalize(omega float64) {
	var mag float64 = 1
	for i := range f.sections {
		mag *= cmplx.Abs(f.sections[i].response(omega))
	}
	if mag == 0 || math.IsNaN(mag) {
		return
	}
	perSection := math.Pow(mag, -1.0/float64(len(f.sections)))
	for i := range f.sections {
		f.sections[i].b0 *= perSection
		f.sections[i].b1 *= perSection
		f.sections[i].b2 *= perSection
	}
}

// Process filters one sample through the full cascade, truncating to
// float32 precision at the boundary as the spec requires.
func (f *IIRBandpass) Process(x float32) float32 {
	y := float64(x)
	for i := range f.sections {
		y = f.sections[i].process(y)
	}
	return float32(y)
}

// Reset clears all section states.
func (f *IIRBandpass) Reset() {
	for i := range f.sections {
		f.sections[i].reset()
	}
}
