// internal/config/config.go
package config

type Config struct {
	Node   NodeConfig   `yaml:"node" toml:"node"`
	Log    LogConfig    `yaml:"log" toml:"log"`
	Export ExportConfig `yaml:"export" toml:"export"`
}

// ---- NODE ----

type NodeConfig struct {
	ID         int    `yaml:"id" toml:"id"`
	Name       string `yaml:"name" toml:"name"`
	Interface  string `yaml:"interface" toml:"interface"`
	Profile    string `yaml:"profile" toml:"profile"` // tail | inline
	IntervalMs int    `yaml:"interval_ms" toml:"interval_ms"`

	// Fixed vendor status code (optional). Random per heartbeat when nil.
	VendorStatus *int `yaml:"vendor_status" toml:"vendor_status"`
}

// ---- LOG ----

type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"` // console | json
}

// ---- EXPORT ----

type ExportConfig struct {
	// Status mirror into a Modbus holding-register block (optional, opt-in)
	Modbus *ModbusExportConfig `yaml:"modbus" toml:"modbus"`
}

type ModbusExportConfig struct {
	Endpoint  string `yaml:"endpoint" toml:"endpoint"`
	UnitID    int    `yaml:"unit_id" toml:"unit_id"`
	BaseSlot  int    `yaml:"base_slot" toml:"base_slot"`
	TimeoutMs int    `yaml:"timeout_ms" toml:"timeout_ms"`
}
