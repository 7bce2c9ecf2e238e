package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidator(t *testing.T) {
	v := NewValidator()

	t.Run("log level", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error"} {
			assert.NoError(t, v.ValidateLogLevel(level), level)
		}
		err := v.ValidateLogLevel("trace")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "must be one of: debug, info, warn, error")
	})

	t.Run("min rating", func(t *testing.T) {
		assert.NoError(t, v.ValidateMinRating(1))
		assert.NoError(t, v.ValidateMinRating(5))
		assert.Error(t, v.ValidateMinRating(0))
		assert.Error(t, v.ValidateMinRating(6))
	})
}
