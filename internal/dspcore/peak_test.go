package dspcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeakDetectorFindsRisingEdgePeak(t *testing.T) {
	p := NewPeakDetector(0.5, 5, 4)
	buf := []float32{0, 0, 0.6, 0.9, 0.7, 0.2, 0, 0, 0, 0, 0, 0.8, 1.0, 0.3}
	events := p.Process(buf)
	require.Len(t, events, 2)
	assert.Equal(t, 3, events[0].Index)
	assert.InDelta(t, 0.9, events[0].Amplitude, 1e-6)
	assert.Equal(t, 12, events[1].Index)
}

func TestPeakDetectorEnforcesMinInterval(t *testing.T) {
	p := NewPeakDetector(0.5, 10, 2)
	buf := []float32{0, 0.6, 0, 0, 0.6, 0, 0, 0, 0, 0, 0, 0, 0.6}
	events := p.Process(buf)
	// the second crossing at index 4 is within minInterval of the
	// first trigger at index 1, so only two triggers should register
	// (index 1 and index 12).
	require.Len(t, events, 2)
	assert.Equal(t, 1, events[0].Index)
	assert.Equal(t, 12, events[1].Index)
}
