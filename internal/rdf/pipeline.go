package rdf

import (
	"github.com/charlieh0tel/rotaryclub-sub000/internal/dspcore"
)

// ringBufferCapacity is the maximum number of mono frames retained by
// the pipeline's internal ring buffer (spec.md §4.13, §5).
const ringBufferCapacity = 8192

// BearingCalculator is implemented by CorrelationBearingCalculator and
// ZeroCrossingBearingCalculator.
type BearingCalculator interface {
	Preprocess(buf []float32)
	ProcessTick(tick NorthTick) *BearingMeasurement
	AdvanceBuffer()
}

// Pipeline is the per-session, single-threaded processor turning chunks
// of interleaved stereo samples into TickResult values (spec.md §4.13).
type Pipeline struct {
	cfg Config

	tracker    NorthReferenceTracker
	calculator BearingCalculator

	dcDoppler *dspcore.DCRemover
	dcNorth   *dspcore.DCRemover
	dcEnabled bool

	ring       []float32 // interleaved stereo, ring semantics via append+trim
	doppler    []float32
	north      []float32

	lastTick TickResult
	haveTick bool
}

// NewPipeline validates cfg and wires the configured tracker and
// bearing calculator.
func NewPipeline(cfg Config, dcRemovalEnabled bool) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var tracker NorthReferenceTracker
	var err error
	switch cfg.NorthTick.Mode {
	case TrackingDPLL:
		tracker, err = NewPLLNorthReferenceTracker(cfg)
	default:
		tracker, err = NewSimpleNorthReferenceTracker(cfg)
	}
	if err != nil {
		return nil, err
	}

	var calc BearingCalculator
	switch cfg.Doppler.Method {
	case MethodZeroCrossing:
		calc, err = NewZeroCrossingBearingCalculator(cfg)
	default:
		calc, err = NewCorrelationBearingCalculator(cfg)
	}
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		cfg:        cfg,
		tracker:    tracker,
		calculator: calc,
		dcEnabled:  dcRemovalEnabled,
	}
	if dcRemovalEnabled {
		p.dcDoppler = dspcore.NewDCRemover(cfg.Audio.SampleRate, 1)
		p.dcNorth = dspcore.NewDCRemover(cfg.Audio.SampleRate, 1)
	}
	return p, nil
}

// ProcessChunk runs the seven-step per-chunk pipeline of spec.md §4.13
// over interleaved stereo samples, returning zero or more TickResults.
func (p *Pipeline) ProcessChunk(interleaved []float32) []TickResult {
	// 1. Append to the ring buffer, capped at ringBufferCapacity mono
	// frames (2*capacity interleaved samples), then read back the frames
	// belonging to this chunk.
	p.ring = append(p.ring, interleaved...)
	maxLen := ringBufferCapacity * 2
	if len(p.ring) > maxLen {
		p.ring = p.ring[len(p.ring)-maxLen:]
	}
	frameCount := len(interleaved) / 2
	recent := p.ring[len(p.ring)-frameCount*2:]

	// 2. Split into Doppler and north vectors per channel role.
	if cap(p.doppler) < frameCount {
		p.doppler = make([]float32, frameCount)
		p.north = make([]float32, frameCount)
	}
	p.doppler = p.doppler[:frameCount]
	p.north = p.north[:frameCount]
	dopplerIdx, northIdx := channelIndices(p.cfg.Audio.DopplerChannel, p.cfg.Audio.NorthChannel)
	for i := 0; i < frameCount; i++ {
		p.doppler[i] = recent[2*i+dopplerIdx]
		p.north[i] = recent[2*i+northIdx]
	}

	// 3. DC removal, if enabled.
	if p.dcEnabled {
		p.dcDoppler.Process(p.doppler)
		p.dcNorth.Process(p.north)
	}

	// 4. Tracker produces this chunk's ticks.
	ticks := p.tracker.ProcessChunk(p.north)

	// 5. Preprocess the Doppler vector for the bearing calculator.
	if p.calculator != nil {
		p.calculator.Preprocess(p.doppler)
	}

	// 6. Process each tick.
	results := make([]TickResult, 0, len(ticks))
	for _, tick := range ticks {
		var bearing *BearingMeasurement
		if p.calculator != nil {
			bearing = p.calculator.ProcessTick(tick)
		}
		result := TickResult{NorthTick: tick, Bearing: bearing}
		results = append(results, result)
		p.lastTick = result
		p.haveTick = true
	}

	// 7. Advance the calculator's counter exactly once per chunk.
	if p.calculator != nil {
		p.calculator.AdvanceBuffer()
	}

	return results
}

// channelIndices maps the configured Doppler/north channel roles to
// interleaved-frame indices (0 = left, 1 = right).
func channelIndices(doppler, north ChannelRole) (int, int) {
	roleIndex := func(r ChannelRole) int {
		if r == ChannelRight {
			return 1
		}
		return 0
	}
	return roleIndex(doppler), roleIndex(north)
}

// LastTick returns the most recently produced TickResult and whether
// one has been produced yet.
func (p *Pipeline) LastTick() (TickResult, bool) {
	return p.lastTick, p.haveTick
}

// RotationFrequencyHz reports the tracker's current rotation-rate
// estimate.
func (p *Pipeline) RotationFrequencyHz() float64 {
	return p.tracker.RotationFrequencyHz()
}

// PhaseErrorVariance reports the tracker's windowed phase-error
// variance, if defined.
func (p *Pipeline) PhaseErrorVariance() (float64, bool) {
	return p.tracker.PhaseErrorVariance()
}

// FilteredDoppler exposes the most recent chunk's Doppler channel after
// the channel split and DC removal (when enabled), for logging or
// dumping. The calculator's AGC and bandpass output is not exposed here.
func (p *Pipeline) FilteredDoppler() []float32 { return p.doppler }

// FilteredNorth exposes the most recent chunk's north-tick channel after
// the channel split and DC removal (when enabled), for logging or
// dumping. The tracker's gain and highpass output is not exposed here.
func (p *Pipeline) FilteredNorth() []float32 { return p.north }
