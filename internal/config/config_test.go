package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "QUEUE_REFRESH_INTERVAL", "RELAY_BUFFER", "REDIS_ADDR", "ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()

	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, time.Minute, cfg.Queue.RefreshInterval)
	assert.Equal(t, 256, cfg.Relay.Buffer)
	assert.Empty(t, cfg.Relay.Redis.Addr)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CORS.AllowedOrigins)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("QUEUE_REFRESH_INTERVAL", "0s")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("MQTT_QOS", "2")
	t.Setenv("ALLOWED_ORIGINS", " * , ")

	cfg := LoadConfig()

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, time.Duration(0), cfg.Queue.RefreshInterval)
	assert.Equal(t, "localhost:6379", cfg.Relay.Redis.Addr)
	assert.Equal(t, byte(2), cfg.Relay.MQTT.QoS)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
}

func TestParseDuration_InvalidFallsBack(t *testing.T) {
	assert.Equal(t, 3*time.Second, parseDuration("soon", 3*time.Second))
	assert.Equal(t, 3*time.Second, parseDuration("-1s", 3*time.Second))
}

func TestLoadLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.yaml")
	yml := `
wards:
  - ward: ICU
    beds:
      - distance: 5
      - distance: 2
  - ward: general
    beds:
      - distance: 1
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	layout, err := LoadLayout(path)
	require.NoError(t, err)
	require.Len(t, layout.Wards, 2)
	assert.Equal(t, "ICU", layout.Wards[0].Ward)
	assert.Equal(t, []BedLayout{{Distance: 5}, {Distance: 2}}, layout.Wards[0].Beds)
	assert.Equal(t, "general", layout.Wards[1].Ward)
}

func TestParseLayout_Errors(t *testing.T) {
	_, err := ParseLayout([]byte("wards: [oops"))
	assert.Error(t, err)

	_, err = ParseLayout([]byte("wards:\n  - beds:\n      - distance: 1\n"))
	assert.Error(t, err)

	_, err = LoadLayout(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
