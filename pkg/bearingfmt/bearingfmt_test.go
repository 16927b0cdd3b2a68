package bearingfmt_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/charlieh0tel/rotaryclub-sub000/internal/rdf"
	"github.com/charlieh0tel/rotaryclub-sub000/pkg/bearingfmt"
)

func sampleRecord() bearingfmt.Record {
	return bearingfmt.Record{
		Timestamp: time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC),
		Result: rdf.TickResult{
			NorthTick: rdf.NorthTick{HasLockQuality: true, LockQuality: 0.91},
			Bearing: &rdf.BearingMeasurement{
				BearingDegrees: 123.45,
				RawBearing:     120.0,
				Confidence:     0.8,
				Metrics: rdf.BearingMetrics{
					SNRDb:          20,
					Coherence:      0.7,
					SignalStrength: 0.6,
				},
			},
		},
		PhaseErrorVariance:  0.002,
		HasPhaseErrVariance: true,
	}
}

func TestCSVFormatterHeaderAndRow(t *testing.T) {
	f := bearingfmt.CSVFormatter{}
	header := f.Header()
	assert.Equal(t, "ts,bearing,raw,confidence,snr_db,coherence,signal_strength,lock_quality,phase_error_variance", header)

	row := f.Format(sampleRecord())
	fields := strings.Split(row, ",")
	assert.Len(t, fields, strings.Count(header, ",")+1)
	assert.Contains(t, row, "123.45")
}

func TestCSVFormatterEmptyFieldsWhenNoBearing(t *testing.T) {
	f := bearingfmt.CSVFormatter{}
	rec := bearingfmt.Record{Timestamp: time.Unix(0, 0).UTC()}
	row := f.Format(rec)
	parts := strings.SplitN(row, ",", 2)
	assert.Equal(t, ",,,,,,,", parts[1])
}

func TestJSONFormatterProducesValidLine(t *testing.T) {
	f := bearingfmt.JSONFormatter{}
	line := f.Format(sampleRecord())
	assert.Contains(t, line, `"bearing":123.45`)
	assert.Contains(t, line, `"lock_quality":0.91`)
}

func TestKN5RFormatterFrameWidth(t *testing.T) {
	f := bearingfmt.KN5RFormatter{}
	line := f.Format(sampleRecord())
	assert.Len(t, line, 26)
	assert.True(t, strings.HasPrefix(line, "C"))
}

func TestKN5RFormatterWorkedExample(t *testing.T) {
	f := bearingfmt.KN5RFormatter{}
	rec := bearingfmt.Record{
		Timestamp: time.UnixMilli(117493011).UTC(),
		Result: rdf.TickResult{
			Bearing: &rdf.BearingMeasurement{
				BearingDegrees: 346.9,
				Metrics: rdf.BearingMetrics{
					SignalStrength: 0.961, // rounds to magnitude 960
					Coherence:      0.084, // rounds to tone peak 084
				},
			},
		},
	}
	assert.Equal(t, "C3469960084000000117493011", f.Format(rec))
}

func TestTextFormatterVerboseIncludesMetrics(t *testing.T) {
	f := bearingfmt.TextFormatter{Verbose: true}
	line := f.Format(sampleRecord())
	assert.Contains(t, line, "snr_db=")
	assert.Contains(t, line, "phase_error_variance=")
}
