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

	path := filepath.Join(t.TempDir(), "local.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
env: "dev"
storage_path: "storage/test.db"
http_server:
  address: "localhost:9000"
backend:
  base_url: "http://localhost:9000/api"
  resource: "Restaurants"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "storage/test.db", cfg.StoragePath)
	assert.Equal(t, "localhost:9000", cfg.Addr)
	assert.Equal(t, "http://localhost:9000/api", cfg.Backend.BaseURL)
	assert.Equal(t, "Restaurants", cfg.Backend.Resource)
	assert.Equal(t, "/api/Restaurants", cfg.ResourcePath())
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "env: prod\n"))
	require.NoError(t, err)

	assert.Equal(t, "localhost:5112", cfg.Addr)
	assert.Equal(t, "http://localhost:5112/api", cfg.Backend.BaseURL)
	assert.Equal(t, "RestaurantWithLocation", cfg.Backend.Resource)
	assert.Equal(t, "storage/restaurants.db", cfg.StoragePath)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "http://backend.internal/api")

	cfg, err := Load(writeConfig(t, "env: dev\nbackend:\n  base_url: http://localhost/api\n"))
	require.NoError(t, err)
	assert.Equal(t, "http://backend.internal/api", cfg.Backend.BaseURL)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load("")
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	if _, set := os.LookupEnv("ENV"); !set {
		_, err = Load(writeConfig(t, "storage_path: x.db\n"))
		assert.Error(t, err, "env is required")
	}
}

func TestPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	assert.Equal(t, "flag.yaml", Path("flag.yaml"))

	t.Setenv("CONFIG_PATH", "env.yaml")
	assert.Equal(t, "env.yaml", Path("flag.yaml"))
}
