package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Console)
	assert.Equal(t, 4, cfg.Recommend.MinRating)
	assert.Equal(t, 1.0, cfg.Recommend.TrackWeight)
	assert.Equal(t, 10, cfg.Recommend.DefaultLimit)
	assert.Equal(t, 500, cfg.Ingest.DebounceMS)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"negative max size", func(c *Config) { c.Logging.MaxSize = -1 }, "logging.max_size"},
		{"min rating too low", func(c *Config) { c.Recommend.MinRating = 0 }, "recommend.min_rating"},
		{"min rating too high", func(c *Config) { c.Recommend.MinRating = 6 }, "recommend.min_rating"},
		{"negative weight", func(c *Config) { c.Recommend.TagWeight = -0.5 }, "recommend.tag_weight"},
		{"negative debounce", func(c *Config) { c.Ingest.DebounceMS = -1 }, "ingest.debounce_ms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			require.Len(t, vErr.Fields, 1)
			assert.Equal(t, tt.field, vErr.Fields[0].Field)
			assert.Contains(t, err.Error(), tt.field)
		})
	}

	t.Run("zero weights are allowed", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Recommend.TrackWeight = 0
		cfg.Recommend.TagWeight = 0
		cfg.Recommend.InterestWeight = 0
		assert.NoError(t, cfg.Validate())
	})
}

func TestConfigString(t *testing.T) {
	s := DefaultConfig().String()
	assert.Contains(t, s, `"min_rating": 4`)
	assert.Contains(t, s, `"debounce_ms": 500`)
}

func TestConfigSetDataDir(t *testing.T) {
	t.Run("default log file follows the data dir", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.DataDir = "/home/u/.agenda"
		cfg.Logging.File = "/home/u/.agenda/agenda.log"

		cfg.SetDataDir("/tmp/elsewhere")
		assert.Equal(t, "/tmp/elsewhere", cfg.DataDir)
		assert.Equal(t, "/tmp/elsewhere/agenda.log", cfg.Logging.File)
	})

	t.Run("custom log file is kept", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.DataDir = "/home/u/.agenda"
		cfg.Logging.File = "/var/log/agenda.log"

		cfg.SetDataDir("/tmp/elsewhere")
		assert.Equal(t, "/var/log/agenda.log", cfg.Logging.File)
	})
}
