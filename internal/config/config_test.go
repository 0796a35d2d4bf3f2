package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
api:
  environment: local
  port: "9090"
  jwt_signing_key: secret
  allowed_cors_domains:
    - http://dashboard.local
gin:
  mode: release
postgres:
  host: db
  user: hajj
  password: pw
  db: pilgrims
redis:
  addr: cache:6379
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	conf, err := Load(writeConfig(t, testYAML))
	require.NoError(t, err)

	assert.Equal(t, "local", conf.API.Environment)
	assert.Equal(t, "9090", conf.API.Port)
	assert.Equal(t, []string{"http://dashboard.local"}, conf.API.AllowedCORSDomains)
	assert.Equal(t, 15*time.Minute, conf.API.AccessTokenTTL)
	assert.Equal(t, "release", conf.Gin.Mode)
	assert.Equal(t, "host=db port=5432 user=hajj password=pw dbname=pilgrims sslmode=disable", conf.Postgres.DSN())
	assert.Equal(t, "cache:6379", conf.Redis.Addr)
	assert.Empty(t, conf.S3.Bucket)
	assert.Equal(t, "/metrics", conf.Metrics.Path)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("APP_API_PORT", "7000")
	t.Setenv("APP_S3_BUCKET", "photos")

	conf, err := Load(writeConfig(t, testYAML))
	require.NoError(t, err)
	assert.Equal(t, "7000", conf.API.Port)
	assert.Equal(t, "photos", conf.S3.Bucket)
}

func TestLoad_MissingSigningKey(t *testing.T) {
	_, err := Load(writeConfig(t, "api:\n  port: \"1\"\n"))
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}
