package dspcore

// PeakDetector is a rising-edge threshold detector with a refractory
// period and a bounded peak-search window. It locates the local maximum
// following each qualifying threshold crossing in a single pass.
type PeakDetector struct {
	threshold       float64
	minInterval     int
	searchWindow    int
	sinceLastPeak   int
	lastSample      float64
	aboveThreshold  bool
}

// NewPeakDetector builds a detector with the given normalised amplitude
// threshold, minimum sample interval between triggers, and peak-search
// window (spanning the impulse response's rising edge plus a guard).
func NewPeakDetector(threshold float64, minInterval, searchWindow int) *PeakDetector {
	return &PeakDetector{
		threshold:     threshold,
		minInterval:   minInterval,
		searchWindow:  searchWindow,
		sinceLastPeak: minInterval, // allow an immediate trigger at i=0
	}
}

// PeakEvent is one detected peak within a processed buffer.
type PeakEvent struct {
	Index     int
	Amplitude float64
}

// Process scans buf for triggers and returns the peaks found, in order.
// A trigger fires at sample i iff the detector is not already above
// threshold, the previous sample was <= threshold, the current sample is
// above threshold, and at least minInterval samples have elapsed since the
// last trigger. Min-interval is enforced relative to the trigger index,
// not the (later) peak index.
func (p *PeakDetector) Process(buf []float32) []PeakEvent {
	var events []PeakEvent
	for i, xf := range buf {
		x := float64(xf)
		wasAbove := p.aboveThreshold
		p.aboveThreshold = x > p.threshold

		trigger := !wasAbove && p.lastSample <= p.threshold && x > p.threshold && p.sinceLastPeak >= p.minInterval
		if trigger {
			end := i + p.searchWindow
			if end > len(buf) {
				end = len(buf)
			}
			peakIdx := i
			peakAmp := x
			for j := i; j < end; j++ {
				if float64(buf[j]) > peakAmp {
					peakAmp = float64(buf[j])
					peakIdx = j
				}
			}
			events = append(events, PeakEvent{Index: peakIdx, Amplitude: peakAmp})
			p.sinceLastPeak = 0
		} else {
			p.sinceLastPeak++
		}
		p.lastSample = x
	}
	return events
}

// Reset clears detector state so the next Process call starts fresh.
func (p *PeakDetector) Reset() {
	p.sinceLastPeak = p.minInterval
	p.lastSample = 0
	p.aboveThreshold = false
}
