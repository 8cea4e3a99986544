package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadExpandsEnvAndDefaults(t *testing.T) {
	t.Setenv("TEST_GROQ_KEY", "gsk-secret")

	path := writeConfig(t, `
server:
  port: 8080
database:
  host: 127.0.0.1
  port: 3306
  user: app
  password: pw
  name: consult
providers:
  groq:
    enabled: true
    apiKey: ${TEST_GROQ_KEY}
    model: llama-3.1-70b-versatile
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "gsk-secret", cfg.Providers["groq"].APIKey)
	// defaults fill in what the file omits
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 8000, cfg.Limits.MaxInputChars)
	assert.Equal(t, 300, cfg.Limits.ProviderTimeoutSeconds)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDSNHelpers(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: postgres
  host: db.internal
  port: 5432
  user: app
  password: pw
  name: consult
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "host=db.internal port=5432 user=app password=pw dbname=consult sslmode=disable", cfg.PostgresDSN())
	assert.Equal(t, "app:pw@tcp(db.internal:5432)/consult?parseTime=true&charset=utf8mb4&loc=UTC", cfg.MySQLDSN())
}
