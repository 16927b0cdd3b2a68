package bearingfmt

import "encoding/json"

// JSONFormatter renders one JSON object per line, with null for absent
// metrics, per spec.md §6. Standard library encoding/json: this is a
// small, one-shot-per-line encoding with no schema evolution or
// streaming-performance need that would justify a third-party codec
// (see DESIGN.md).
type JSONFormatter struct{}

type jsonRecord struct {
	Timestamp          string   `json:"ts"`
	Bearing            *float64 `json:"bearing"`
	RawBearing         *float64 `json:"raw"`
	Confidence         *float64 `json:"confidence"`
	SNRDb              *float64 `json:"snr_db"`
	Coherence          *float64 `json:"coherence"`
	SignalStrength     *float64 `json:"signal_strength"`
	LockQuality        *float64 `json:"lock_quality"`
	PhaseErrorVariance *float64 `json:"phase_error_variance"`
}

func (JSONFormatter) Format(r Record) string {
	rec := jsonRecord{Timestamp: r.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z")}
	if r.Result.Bearing != nil {
		b := r.Result.Bearing
		rec.Bearing = &b.BearingDegrees
		rec.RawBearing = &b.RawBearing
		rec.Confidence = &b.Confidence
		rec.SNRDb = &b.Metrics.SNRDb
		rec.Coherence = &b.Metrics.Coherence
		rec.SignalStrength = &b.Metrics.SignalStrength
	}
	if r.Result.NorthTick.HasLockQuality {
		rec.LockQuality = &r.Result.NorthTick.LockQuality
	}
	if r.HasPhaseErrVariance {
		rec.PhaseErrorVariance = &r.PhaseErrorVariance
	}
	data, _ := json.Marshal(rec)
	return string(data)
}
