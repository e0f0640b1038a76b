package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) string { return "" }

func envMap(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestParseMissingFile(t *testing.T) {
	config, err := Parse(filepath.Join(t.TempDir(), "nope.toml"), noEnv)
	require.NoError(t, err)

	expected := defaults()
	assert.Equal(t, &expected, config)
	assert.Equal(t, "0.0.0.0:80", config.PortalAddr())
	assert.Equal(t, "0.0.0.0:8080", config.StatusAddr())
	assert.Equal(t, 6, config.Portal.MinPasswordLength)
	assert.Equal(t, "/tmp/runtipios-config.json", config.ConfigFile)
	assert.Equal(t, "/var/lib/runtipios/wifi-connect-state", config.StateFile)
}

func TestParseFull(t *testing.T) {
	config, err := Parse("testdata/full.toml", noEnv)
	require.NoError(t, err)

	assert.Equal(t, "/run/runtipios/config.json", config.ConfigFile)
	assert.Equal(t, "/run/runtipios/state", config.StateFile)
	assert.Equal(t, 8081, config.Portal.Port)
	assert.Equal(t, "", config.Portal.Socket)
	assert.Equal(t, 8, config.Portal.MinPasswordLength)
	assert.True(t, config.Portal.Metrics)
	assert.Equal(t, "127.0.0.1:8080", config.StatusAddr())
	assert.Equal(t, "/srv/runtipi", config.Status.AppDir)
	assert.Equal(t, 5*time.Second, config.Status.RefreshInterval)
	assert.Equal(t, "status", config.Status.Socket)
	assert.Equal(t, 8*time.Second, config.Scan.Timeout)
	assert.Len(t, config.Scan.Command, 9)
}

func TestParseBroken(t *testing.T) {
	_, err := Parse("testdata/broken.toml", noEnv)
	assert.Error(t, err)

	_, err = Parse("testdata/bad-timeout.toml", noEnv)
	assert.ErrorContains(t, err, "scan timeout")
}

func TestEnvOverrides(t *testing.T) {
	config, err := Parse("testdata/full.toml", envMap(map[string]string{
		"STATUS_PAGE_PORT":      "9000",
		"PORTAL_PORT":           "8000",
		"RUNTIPIOS_CONFIG_FILE": "/tmp/other.json",
		"RUNTIPIOS_STATE_FILE":  "/tmp/other-state",
	}))
	require.NoError(t, err)

	assert.Equal(t, 9000, config.Status.Port)
	assert.Equal(t, 8000, config.Portal.Port)
	assert.Equal(t, "/tmp/other.json", config.ConfigFile)
	assert.Equal(t, "/tmp/other-state", config.StateFile)
}

func TestEnvOverrideInvalid(t *testing.T) {
	_, err := Parse("testdata/full.toml", envMap(map[string]string{"STATUS_PAGE_PORT": "http"}))
	assert.ErrorContains(t, err, "STATUS_PAGE_PORT")

	_, err = Parse("testdata/full.toml", envMap(map[string]string{"PORTAL_PORT": "70000"}))
	assert.ErrorContains(t, err, "invalid portal port")
}

func TestEnvLookup(t *testing.T) {
	getenv, err := EnvLookup("testdata/firstboot.env", envMap(map[string]string{
		"RUNTIPIOS_STATE_FILE": "/from/process",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9090", getenv("STATUS_PAGE_PORT"))
	assert.Equal(t, "/from/process", getenv("RUNTIPIOS_STATE_FILE"))
	assert.Equal(t, "", getenv("PORTAL_PORT"))

	config, err := Parse(filepath.Join(t.TempDir(), "nope.toml"), getenv)
	require.NoError(t, err)
	assert.Equal(t, 9090, config.Status.Port)
}

func TestEnvLookupMissingFile(t *testing.T) {
	getenv, err := EnvLookup(filepath.Join(t.TempDir(), "missing.env"), envMap(map[string]string{"PORTAL_PORT": "81"}))
	require.NoError(t, err)
	assert.Equal(t, "81", getenv("PORTAL_PORT"))
}
