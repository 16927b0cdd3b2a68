package rdf

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// RotationFrequency is the antenna rotation rate, stored internally in
// Hz. It parses from three textual forms: a bare number (Hz), a number
// followed by "hz"/"Hz"/"HZ", or a number followed by "us"/"μs" (an
// inter-pulse period in microseconds). Period and frequency relate by
// 1e6 / period_us, in both directions: as_interval_us (PeriodMicros
// here) returns 1e6/Hz, a period in microseconds despite the division by
// a frequency-shaped quantity.
type RotationFrequency float64

// ParseRotationFrequency parses one of the three accepted forms.
func ParseRotationFrequency(s string) (RotationFrequency, error) {
	s = strings.TrimSpace(s)

	switch {
	case strings.HasSuffix(s, "us") || strings.HasSuffix(s, "μs"):
		numStr := strings.TrimSuffix(strings.TrimSuffix(s, "us"), "μs")
		periodUs, err := strconv.ParseFloat(strings.TrimSpace(numStr), 64)
		if err != nil || periodUs <= 0 {
			return 0, fmt.Errorf("rotation frequency: invalid period %q", s)
		}
		return RotationFrequency(1e6 / periodUs), nil

	case strings.HasSuffix(s, "hz"), strings.HasSuffix(s, "Hz"), strings.HasSuffix(s, "HZ"):
		numStr := s[:len(s)-2]
		hz, err := strconv.ParseFloat(strings.TrimSpace(numStr), 64)
		if err != nil || hz <= 0 {
			return 0, fmt.Errorf("rotation frequency: invalid hz value %q", s)
		}
		return RotationFrequency(hz), nil

	default:
		hz, err := strconv.ParseFloat(s, 64)
		if err != nil || hz <= 0 {
			return 0, fmt.Errorf("rotation frequency: invalid value %q", s)
		}
		return RotationFrequency(hz), nil
	}
}

// Hz returns the rotation frequency in Hz.
func (r RotationFrequency) Hz() float64 { return float64(r) }

// PeriodMicros returns the inter-pulse period in microseconds.
func (r RotationFrequency) PeriodMicros() float64 { return 1e6 / float64(r) }

// String renders the canonical "<N>hz" form.
func (r RotationFrequency) String() string {
	return strconv.FormatFloat(float64(r), 'g', -1, 64) + "hz"
}

// UnmarshalYAML accepts either a bare number or one of the textual forms.
func (r *RotationFrequency) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err == nil {
		parsed, err := ParseRotationFrequency(raw)
		if err != nil {
			return err
		}
		*r = parsed
		return nil
	}
	var f float64
	if err := value.Decode(&f); err != nil {
		return fmt.Errorf("rotation frequency: %w", err)
	}
	*r = RotationFrequency(f)
	return nil
}
