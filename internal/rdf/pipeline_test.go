package rdf_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charlieh0tel/rotaryclub-sub000/internal/rdf"
	"github.com/charlieh0tel/rotaryclub-sub000/internal/rdf/synthtest"
)

// measureBearing drives a fresh pipeline over a synthetic recording at
// the given bearing and returns the average of the measurements after
// the first few (discarded for filter settling), matching the scenario
// harness in cmd/synthrdf.
func measureBearing(t *testing.T, cfg rdf.Config, bearingDeg float64) (float64, int) {
	t.Helper()

	params := synthtest.SignalParams{
		SampleRate:     cfg.Audio.SampleRate,
		DurationSecs:   0.5,
		RotationHz:     30,
		DopplerToneHz:  1602,
		BearingDegrees: bearingDeg,
	}
	samples := synthtest.GenerateInterleaved(params, nil)

	pipeline, err := rdf.NewPipeline(cfg, true)
	require.NoError(t, err)

	chunkLen := cfg.Audio.FrameSize * 2
	var bearings []float64
	for start := 0; start < len(samples); start += chunkLen {
		end := start + chunkLen
		if end > len(samples) {
			end = len(samples)
		}
		for _, r := range pipeline.ProcessChunk(samples[start:end]) {
			if r.Bearing != nil {
				bearings = append(bearings, r.Bearing.BearingDegrees)
			}
		}
	}
	require.NotEmpty(t, bearings, "expected at least one bearing measurement")

	if len(bearings) > 5 {
		bearings = bearings[3:]
	}
	var sumX, sumY float64
	for _, d := range bearings {
		rad := d * math.Pi / 180
		sumX += math.Cos(rad)
		sumY += math.Sin(rad)
	}
	mean := math.Atan2(sumY, sumX) * 180 / math.Pi
	if mean < 0 {
		mean += 360
	}
	return mean, len(bearings)
}

func angularDelta(a, b float64) float64 {
	d := math.Mod(a-b+540, 360) - 180
	if d < 0 {
		d = -d
	}
	return d
}

func TestPipelineCorrelationBearingAccuracy(t *testing.T) {
	cfg := rdf.DefaultConfig()
	for _, bearing := range []float64{0, 45, 90, 180, 270} {
		measured, n := measureBearing(t, cfg, bearing)
		assert.Greater(t, n, 0)
		assert.LessOrEqual(t, angularDelta(measured, bearing), 10.0,
			"bearing %v measured %v", bearing, measured)
	}
}

func TestPipelineZeroCrossingBearingAccuracy(t *testing.T) {
	cfg := rdf.DefaultConfig()
	cfg.Doppler.Method = rdf.MethodZeroCrossing
	for _, bearing := range []float64{0, 90, 225} {
		measured, n := measureBearing(t, cfg, bearing)
		assert.Greater(t, n, 0)
		assert.LessOrEqual(t, angularDelta(measured, bearing), 10.0,
			"bearing %v measured %v", bearing, measured)
	}
}

func TestPipelineSimpleTrackerProducesTicks(t *testing.T) {
	cfg := rdf.DefaultConfig()
	cfg.NorthTick.Mode = rdf.TrackingSimple
	measured, n := measureBearing(t, cfg, 135)
	assert.Greater(t, n, 0)
	assert.LessOrEqual(t, angularDelta(measured, 135), 15.0)
}
