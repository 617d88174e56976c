package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("CONFIG_TEST_KEY", "value")
	assert.Equal(t, "value", getEnvOrDefault("CONFIG_TEST_KEY", "fallback"))

	t.Setenv("CONFIG_TEST_KEY", "  ")
	assert.Equal(t, "fallback", getEnvOrDefault("CONFIG_TEST_KEY", "fallback"))

	assert.Equal(t, "fallback", getEnvOrDefault("CONFIG_TEST_MISSING", "fallback"))
}

func TestGetDurationEnv(t *testing.T) {
	t.Setenv("CONFIG_TEST_TTL", "45")
	assert.Equal(t, 45*time.Minute, getDurationEnv("CONFIG_TEST_TTL", 20, time.Minute))

	t.Setenv("CONFIG_TEST_TTL", "not-a-number")
	assert.Equal(t, 20*time.Minute, getDurationEnv("CONFIG_TEST_TTL", 20, time.Minute))

	t.Setenv("CONFIG_TEST_TTL", "-5")
	assert.Equal(t, 20*time.Minute, getDurationEnv("CONFIG_TEST_TTL", 20, time.Minute))
}
