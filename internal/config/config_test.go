package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
api:
  port: "9090"
  jwt_signing_key: secret
  allowed_cors_domains: ["http://a.test"]
hotel_api:
  base_url: http://hotels.test
  cache_ttl: 1h
`)

	conf, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", conf.API.Port)
	assert.Equal(t, EnvDevelopment, conf.API.Environment)
	assert.Equal(t, 24*time.Hour, conf.API.TokenTTL)
	assert.Equal(t, []string{"http://a.test"}, conf.API.AllowedCORSDomains)
	assert.Equal(t, "http://hotels.test", conf.HotelAPI.BaseURL)
	assert.Equal(t, time.Hour, conf.HotelAPI.CacheTTL)
	assert.Equal(t, 15*time.Second, conf.FlightAPI.Timeout)
	assert.NotNil(t, conf.Postgres)
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, `
api:
  port: "9090"
  jwt_signing_key: secret
`)
	t.Setenv("API_PORT", "7070")

	conf, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7070", conf.API.Port)
}

func TestLoad_MissingSigningKey(t *testing.T) {
	path := writeConfig(t, `
api:
  port: "9090"
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}
