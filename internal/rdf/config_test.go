package rdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValidates(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestConfigValidateCatchesBadFields(t *testing.T) {
	base := DefaultConfig()

	t.Run("non-positive sample rate", func(t *testing.T) {
		c := base
		c.Audio.SampleRate = 0
		var cfgErr *ConfigError
		err := c.Validate()
		require.Error(t, err)
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "audio.sample_rate", cfgErr.Field)
	})

	t.Run("bandpass high below low", func(t *testing.T) {
		c := base
		c.Doppler.BandpassHighHz = c.Doppler.BandpassLowHz - 1
		err := c.Validate()
		require.Error(t, err)
	})

	t.Run("even highpass taps", func(t *testing.T) {
		c := base
		c.NorthTick.HighpassTaps = 64
		err := c.Validate()
		require.Error(t, err)
	})

	t.Run("pll min >= max", func(t *testing.T) {
		c := base
		c.NorthTick.PLL.MinHz = c.NorthTick.PLL.MaxHz
		err := c.Validate()
		require.Error(t, err)
	})

	t.Run("negative damping", func(t *testing.T) {
		c := base
		c.NorthTick.PLL.Damping = -0.1
		err := c.Validate()
		require.Error(t, err)
	})
}
