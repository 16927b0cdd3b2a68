package dspcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMovingAverageFillsWindow(t *testing.T) {
	m := NewMovingAverage(3)
	assert.InDelta(t, 1.0, m.Add(1), 1e-9)
	assert.InDelta(t, 1.5, m.Add(2), 1e-9)
	assert.InDelta(t, 2.0, m.Add(3), 1e-9)
	// window now full; oldest (1) drops off
	assert.InDelta(t, 3.0, m.Add(4), 1e-9)
}

func TestMovingAverageReset(t *testing.T) {
	m := NewMovingAverage(2)
	m.Add(10)
	m.Add(20)
	m.Reset()
	assert.InDelta(t, 5.0, m.Add(5), 1e-9)
}

func TestCircularSmootherAcrossWraparound(t *testing.T) {
	c := NewCircularSmoother(2)
	c.Add(350)
	avg := c.Add(10)
	// naive arithmetic mean would be 180 (wrong side of the circle);
	// circular mean should land near 0/360.
	assert.True(t, avg < 30 || avg > 330, "expected near-zero wraparound mean, got %v", avg)
}
