package rdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseRotationFrequencyForms(t *testing.T) {
	cases := []struct {
		in     string
		wantHz float64
	}{
		{"1602", 1602},
		{"1602hz", 1602},
		{"1602Hz", 1602},
		{"1602HZ", 1602},
		{"624.219us", 1e6 / 624.219},
	}
	for _, c := range cases {
		got, err := ParseRotationFrequency(c.in)
		require.NoError(t, err, c.in)
		assert.InDelta(t, c.wantHz, got.Hz(), 1e-3, c.in)
	}
}

func TestParseRotationFrequencyRejectsInvalid(t *testing.T) {
	for _, in := range []string{"", "abc", "-5", "0hz", "-3us"} {
		_, err := ParseRotationFrequency(in)
		assert.Error(t, err, in)
	}
}

func TestRotationFrequencyRoundTripsPeriod(t *testing.T) {
	r := RotationFrequency(1602)
	assert.InDelta(t, 1e6/1602.0, r.PeriodMicros(), 1e-9)
}

func TestRotationFrequencyUnmarshalYAML(t *testing.T) {
	var r RotationFrequency
	require.NoError(t, yaml.Unmarshal([]byte("1602hz"), &r))
	assert.InDelta(t, 1602, r.Hz(), 1e-9)

	var r2 RotationFrequency
	require.NoError(t, yaml.Unmarshal([]byte("1602"), &r2))
	assert.InDelta(t, 1602, r2.Hz(), 1e-9)
}
