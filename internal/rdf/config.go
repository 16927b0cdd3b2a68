package rdf

import (
	"math"

	"github.com/charlieh0tel/rotaryclub-sub000/internal/dspcore"
)

// ChannelRole selects which stereo channel carries a given signal.
type ChannelRole int

const (
	ChannelLeft ChannelRole = iota
	ChannelRight
)

// TrackingMode selects the north-reference tracking strategy.
type TrackingMode int

const (
	TrackingSimple TrackingMode = iota
	TrackingDPLL
)

// BearingMethod selects the bearing calculation strategy.
type BearingMethod int

const (
	MethodCorrelation BearingMethod = iota
	MethodZeroCrossing
)

// AudioConfig describes the input sample stream.
type AudioConfig struct {
	SampleRate     float64     `yaml:"sample_rate"`
	FrameSize      int         `yaml:"frame_size"`
	DopplerChannel ChannelRole `yaml:"doppler_channel"`
	NorthChannel   ChannelRole `yaml:"north_channel"`
}

// DopplerConfig describes the Doppler-tone channel and bearing method.
type DopplerConfig struct {
	ExpectedRotation          RotationFrequency `yaml:"expected_rotation"`
	BandpassLowHz             float64           `yaml:"bandpass_low_hz"`
	BandpassHighHz            float64           `yaml:"bandpass_high_hz"`
	IIROrder                  int               `yaml:"iir_order"`
	Method                    BearingMethod     `yaml:"method"`
	ZeroCrossHysteresis       float64           `yaml:"zero_cross_hysteresis"`
	NorthTickTimingAdjustment float64           `yaml:"north_tick_timing_adjustment"`
}

// PLLConfig parameterises the digital phase-locked loop.
type PLLConfig struct {
	InitialHz float64 `yaml:"initial_hz"`
	MinHz     float64 `yaml:"min_hz"`
	MaxHz     float64 `yaml:"max_hz"`
	NaturalHz float64 `yaml:"natural_hz"`
	Damping   float64 `yaml:"damping"`
}

// NorthTickConfig describes the north-tick channel and tracker.
type NorthTickConfig struct {
	Mode                   TrackingMode `yaml:"mode"`
	HighpassCutoffHz       float64      `yaml:"highpass_cutoff_hz"`
	HighpassTaps           int          `yaml:"highpass_taps"`
	PeakThreshold          float64      `yaml:"peak_threshold"`
	ExpectedPulseAmplitude float64      `yaml:"expected_pulse_amplitude"`
	MinIntervalMs          float64      `yaml:"min_interval_ms"`
	InputGainDB            float64      `yaml:"input_gain_db"`
	PLL                    PLLConfig    `yaml:"pll"`
}

// BearingConfig describes bearing output smoothing and scoring.
type BearingConfig struct {
	SmoothingWindow    int     `yaml:"smoothing_window"`
	OutputRateHz       float64 `yaml:"output_rate_hz"`
	NorthOffsetDegrees float64 `yaml:"north_offset_degrees"`
	LockWeightPhase    float64 `yaml:"lock_weight_phase"`
	LockWeightFreq     float64 `yaml:"lock_weight_freq"`
	UseCircularSmooth  bool    `yaml:"use_circular_smooth"`
}

// Config is the complete, immutable-after-construction session
// configuration.
type Config struct {
	Audio     AudioConfig         `yaml:"audio"`
	Doppler   DopplerConfig       `yaml:"doppler"`
	NorthTick NorthTickConfig     `yaml:"north_tick"`
	Bearing   BearingConfig       `yaml:"bearing"`
	AGC       dspcore.AGCConfig   `yaml:"agc"`
}

// DefaultConfig returns a configuration matching the reference values
// named throughout spec.md (48kHz, 1024-sample frames, 63-tap highpass,
// 0.5/0.5 lock-quality weights). The 0.4/0.4/0.2 confidence weights are
// not part of Config; see DefaultConfidenceWeights.
func DefaultConfig() Config {
	return Config{
		Audio: AudioConfig{
			SampleRate:     48000,
			FrameSize:      1024,
			DopplerChannel: ChannelLeft,
			NorthChannel:   ChannelRight,
		},
		Doppler: DopplerConfig{
			ExpectedRotation:          RotationFrequency(1602),
			BandpassLowHz:             1400,
			BandpassHighHz:            1800,
			IIROrder:                  4,
			Method:                    MethodCorrelation,
			ZeroCrossHysteresis:       0.01,
			NorthTickTimingAdjustment: 0.5,
		},
		NorthTick: NorthTickConfig{
			Mode:                   TrackingDPLL,
			HighpassCutoffHz:       200,
			HighpassTaps:           63,
			PeakThreshold:          0.3,
			ExpectedPulseAmplitude: 0.8,
			MinIntervalMs:          10,
			InputGainDB:            0,
			PLL: PLLConfig{
				InitialHz: 1602,
				MinHz:     1000,
				MaxHz:     2200,
				NaturalHz: 10,
				Damping:   0.707,
			},
		},
		Bearing: BearingConfig{
			SmoothingWindow:    5,
			OutputRateHz:       10,
			NorthOffsetDegrees: 0,
			LockWeightPhase:    0.5,
			LockWeightFreq:     0.5,
		},
		AGC: dspcore.AGCConfig{
			TargetRMS: 0.3,
			AttackMs:  5,
			ReleaseMs: 300,
			WindowMs:  10,
			MinGain:   0.1,
			MaxGain:   20,
		},
	}
}

// Validate checks the configuration for the non-finite/out-of-range
// conditions that must halt session startup with a ConfigError naming
// the offending field.
func (c Config) Validate() error {
	checks := []struct {
		field string
		ok    bool
	}{
		{"audio.sample_rate", finitePositive(c.Audio.SampleRate)},
		{"audio.frame_size", c.Audio.FrameSize > 0},
		{"doppler.expected_rotation", finitePositive(c.Doppler.ExpectedRotation.Hz())},
		{"doppler.bandpass_low_hz", finitePositive(c.Doppler.BandpassLowHz)},
		{"doppler.bandpass_high_hz", finitePositive(c.Doppler.BandpassHighHz)},
		{"north_tick.highpass_cutoff_hz", finitePositive(c.NorthTick.HighpassCutoffHz)},
		{"north_tick.min_interval_ms", finitePositive(c.NorthTick.MinIntervalMs)},
		{"north_tick.pll.initial_hz", finitePositive(c.NorthTick.PLL.InitialHz)},
		{"north_tick.pll.min_hz", finitePositive(c.NorthTick.PLL.MinHz)},
		{"north_tick.pll.max_hz", finitePositive(c.NorthTick.PLL.MaxHz)},
		{"north_tick.pll.natural_hz", finitePositive(c.NorthTick.PLL.NaturalHz)},
		{"bearing.smoothing_window", c.Bearing.SmoothingWindow > 0},
	}
	for _, chk := range checks {
		if !chk.ok {
			return &ConfigError{Field: chk.field, Message: "must be finite and positive"}
		}
	}

	if c.Doppler.BandpassHighHz <= c.Doppler.BandpassLowHz {
		return &ConfigError{Field: "doppler.bandpass_high_hz", Message: "must exceed bandpass_low_hz"}
	}
	if c.NorthTick.HighpassTaps%2 == 0 {
		return &ConfigError{Field: "north_tick.highpass_taps", Message: "must be odd"}
	}
	if c.NorthTick.PLL.Damping < 0 {
		return &ConfigError{Field: "north_tick.pll.damping", Message: "must be non-negative"}
	}
	if c.NorthTick.PLL.MinHz >= c.NorthTick.PLL.MaxHz {
		return &ConfigError{Field: "north_tick.pll.min_hz", Message: "must be less than max_hz"}
	}
	return nil
}

func finitePositive(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0) && x > 0
}
