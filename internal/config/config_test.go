package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRelay(t *testing.T) {
	cfg := Default()
	cfg.Role = RoleRelay
	cfg.Secret = "hunter2"

	require.NoError(t, cfg.Validate())

	cfg.Secret = ""
	assert.ErrorContains(t, cfg.Validate(), "secret")

	cfg.Secret = "hunter2"
	cfg.ConnectBurst = 0
	assert.ErrorContains(t, cfg.Validate(), "admission")
}

func TestValidateClient(t *testing.T) {
	cfg := Default()
	cfg.Role = RoleClient
	cfg.Secret = "hunter2"
	cfg.ServerURL = "wss://relay.example.com/tunnel"
	cfg.LocalPort = 8080
	cfg.Target = "10.0.0.1:443"

	require.NoError(t, cfg.Validate())

	cfg.LocalPort = 70000
	assert.ErrorContains(t, cfg.Validate(), "local_port")

	cfg.LocalPort = 8080
	cfg.Target = ""
	assert.ErrorContains(t, cfg.Validate(), "target")
}

func TestValidateRole(t *testing.T) {
	cfg := Default()
	cfg.Secret = "hunter2"
	cfg.Role = "proxy"

	assert.ErrorContains(t, cfg.Validate(), "invalid role")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wtun.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
role: client
secret: hunter2
server_url: wss://relay.example.com/tunnel
local_port: 8080
target: 10.0.0.1:443
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, RoleClient, cfg.Role)
	assert.Equal(t, "hunter2", cfg.Secret)
	assert.Equal(t, "wss://relay.example.com/tunnel", cfg.ServerURL)
	assert.Equal(t, 8080, cfg.LocalPort)
	assert.Equal(t, "10.0.0.1:443", cfg.Target)

	// Defaults survive for fields the file does not set.
	assert.Equal(t, 32.0, cfg.ConnectRate)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("role: [unclosed"), 0o600))

	_, err := Load(path)
	assert.ErrorContains(t, err, "parse config")
}
