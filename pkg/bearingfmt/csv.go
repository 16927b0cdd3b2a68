package bearingfmt

import "fmt"

// CSVFormatter renders the header `ts,bearing,raw,confidence,snr_db,
// coherence,signal_strength,lock_quality,phase_error_variance` row
// layout of spec.md §6.
type CSVFormatter struct{}

// Header returns the CSV header line.
func (CSVFormatter) Header() string {
	return "ts,bearing,raw,confidence,snr_db,coherence,signal_strength,lock_quality,phase_error_variance"
}

func (CSVFormatter) Format(r Record) string {
	ts := r.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z")

	if r.Result.Bearing == nil {
		return fmt.Sprintf("%s,,,,,,,%s,%s", ts, lockQualityCSV(r), phaseVarCSV(r))
	}
	b := r.Result.Bearing
	return fmt.Sprintf("%s,%.2f,%.2f,%.3f,%.2f,%.3f,%.3f,%s,%s",
		ts, b.BearingDegrees, b.RawBearing, b.Confidence,
		b.Metrics.SNRDb, b.Metrics.Coherence, b.Metrics.SignalStrength,
		lockQualityCSV(r), phaseVarCSV(r))
}

func lockQualityCSV(r Record) string {
	if !r.Result.NorthTick.HasLockQuality {
		return ""
	}
	return fmt.Sprintf("%.3f", r.Result.NorthTick.LockQuality)
}

func phaseVarCSV(r Record) string {
	if !r.HasPhaseErrVariance {
		return ""
	}
	return fmt.Sprintf("%.5f", r.PhaseErrorVariance)
}
