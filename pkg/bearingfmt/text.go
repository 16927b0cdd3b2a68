package bearingfmt

import "fmt"

// TextFormatter renders a human-readable line per measurement. In
// verbose mode it adds SNR, coherence, strength, lock quality, and
// phase-error variance.
type TextFormatter struct {
	Verbose bool
}

func (f TextFormatter) Format(r Record) string {
	if r.Result.Bearing == nil {
		return fmt.Sprintf("tick sample=%d (no bearing)", r.Result.NorthTick.SampleIndex)
	}
	b := r.Result.Bearing
	base := fmt.Sprintf("bearing=%.1f raw=%.1f confidence=%.2f", b.BearingDegrees, b.RawBearing, b.Confidence)
	if !f.Verbose {
		return base
	}
	lockQuality := "n/a"
	if r.Result.NorthTick.HasLockQuality {
		lockQuality = fmt.Sprintf("%.2f", r.Result.NorthTick.LockQuality)
	}
	phaseVar := "n/a"
	if r.HasPhaseErrVariance {
		phaseVar = fmt.Sprintf("%.4f", r.PhaseErrorVariance)
	}
	return base + fmt.Sprintf(" snr_db=%.1f coherence=%.2f strength=%.2f lock_quality=%s phase_error_variance=%s",
		b.Metrics.SNRDb, b.Metrics.Coherence, b.Metrics.SignalStrength, lockQuality, phaseVar)
}
