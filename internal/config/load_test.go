// internal/config/load_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "node.yaml", `
node:
  id: 42
  name: org.uavcan.example.sensor
  interface: vcan0
  profile: inline
  interval_ms: 250
  vendor_status: 48879
log:
  level: debug
  format: json
export:
  modbus:
    endpoint: 127.0.0.1:502
    unit_id: 3
    base_slot: 2
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 42, cfg.Node.ID)
	assert.Equal(t, "vcan0", cfg.Node.Interface)
	assert.Equal(t, "inline", cfg.Node.Profile)
	assert.Equal(t, 250, cfg.Node.IntervalMs)
	require.NotNil(t, cfg.Node.VendorStatus)
	assert.Equal(t, 0xBEEF, *cfg.Node.VendorStatus)
	assert.Equal(t, "json", cfg.Log.Format)
	require.NotNil(t, cfg.Export.Modbus)
	assert.Equal(t, 3, cfg.Export.Modbus.UnitID)
	assert.Equal(t, 2, cfg.Export.Modbus.BaseSlot)

	require.NoError(t, Validate(cfg))
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, "node.toml", `
[node]
id = 7
interface = "can0"
profile = "tail"

[log]
level = "warn"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Node.ID)
	assert.Equal(t, "can0", cfg.Node.Interface)
	assert.Nil(t, cfg.Node.VendorStatus)
	assert.Nil(t, cfg.Export.Modbus)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	_, err := Load(writeFile(t, "node.yaml", "node:\n  idd: 1\n"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "node.toml", "[node]\nidd = 1\n"))
	assert.Error(t, err)
}

func TestLoad_EmptyYAML(t *testing.T) {
	cfg, err := Load(writeFile(t, "empty.yml", ""))
	require.NoError(t, err)
	assert.Zero(t, cfg.Node.ID)
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	_, err := Load(writeFile(t, "node.json", "{}"))
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
