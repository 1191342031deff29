package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PLATFORM_FEE_PERCENT", "")
	t.Setenv("OTP_TTL", "")
	t.Setenv("UPI_ID", "")
	t.Setenv("APP_ENV", "")

	cfg := Load()
	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, int64(20), cfg.PlatformFeePercent)
	assert.Equal(t, 10*time.Minute, cfg.OTPTTL)
	assert.Equal(t, "prhallad2@ybl", cfg.UPIID)
	assert.False(t, cfg.CreateAdmin)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PLATFORM_FEE_PERCENT", "15")
	t.Setenv("OTP_TTL", "90s")
	t.Setenv("CREATE_ADMIN", "true")
	t.Setenv("MQTT_BROKER", "tcp://broker:1883")
	t.Setenv("APP_ENV", "dev")

	cfg := Load()
	assert.Equal(t, int64(15), cfg.PlatformFeePercent)
	assert.Equal(t, 90*time.Second, cfg.OTPTTL)
	assert.True(t, cfg.CreateAdmin)
	assert.Equal(t, "tcp://broker:1883", cfg.MQTTBroker)
	assert.Equal(t, "dev", cfg.Env)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("PLATFORM_FEE_PERCENT", "lots")
	t.Setenv("OTP_TTL", "-5m")
	t.Setenv("CREATE_ADMIN", "maybe")

	cfg := Load()
	assert.Equal(t, int64(20), cfg.PlatformFeePercent)
	assert.Equal(t, 10*time.Minute, cfg.OTPTTL)
	assert.False(t, cfg.CreateAdmin)
}
