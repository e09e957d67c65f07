// internal/config/validate.go
package config

import (
	"fmt"

	"github.com/tamzrod/canode/internal/uavcan"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil config")
	}

	// ------------------------------------------------------------
	// NODE IDENTITY
	// ------------------------------------------------------------

	n := cfg.Node

	if n.ID < 1 || n.ID > int(uavcan.MaxNodeID) {
		return fmt.Errorf("node.id %d is not a valid node ID (1..%d)", n.ID, uavcan.MaxNodeID)
	}

	if n.Interface == "" {
		return fmt.Errorf("node.interface is required")
	}

	if n.Profile != "" {
		if _, err := uavcan.ParseProfile(n.Profile); err != nil {
			return fmt.Errorf("node.profile: %w", err)
		}
	}

	if n.IntervalMs < 0 {
		return fmt.Errorf("node.interval_ms must be >= 0, got %d", n.IntervalMs)
	}

	if n.VendorStatus != nil && (*n.VendorStatus < 0 || *n.VendorStatus > 0xFFFF) {
		return fmt.Errorf("node.vendor_status %d out of range (0..65535)", *n.VendorStatus)
	}

	// node name sanity (ASCII only)
	for i := 0; i < len(n.Name); i++ {
		if n.Name[i] > 0x7F {
			return fmt.Errorf("node.name must contain ASCII characters only")
		}
	}

	// ------------------------------------------------------------
	// LOGGING
	// ------------------------------------------------------------

	switch cfg.Log.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("log.format %q must be console or json", cfg.Log.Format)
	}

	// ------------------------------------------------------------
	// STATUS MIRROR (OPT-IN)
	// ------------------------------------------------------------

	m := cfg.Export.Modbus
	if m == nil {
		return nil
	}

	if m.Endpoint == "" {
		return fmt.Errorf("export.modbus.endpoint is required when export.modbus is set")
	}
	if m.UnitID < 0 || m.UnitID > 255 {
		return fmt.Errorf("export.modbus.unit_id %d out of range (0..255)", m.UnitID)
	}
	// Each block is 20 registers; the last block must end inside the 16-bit address space.
	if m.BaseSlot < 0 || m.BaseSlot > 3275 {
		return fmt.Errorf("export.modbus.base_slot %d out of range (0..3275)", m.BaseSlot)
	}
	if m.TimeoutMs < 0 {
		return fmt.Errorf("export.modbus.timeout_ms must be >= 0, got %d", m.TimeoutMs)
	}
	// A mirror write runs inside the publish loop and must fit in one interval.
	if interval := effectiveIntervalMs(n); m.TimeoutMs >= interval {
		return fmt.Errorf("export.modbus.timeout_ms %d must be below node.interval_ms %d", m.TimeoutMs, interval)
	}

	return nil
}

func effectiveIntervalMs(n NodeConfig) int {
	if n.IntervalMs == 0 {
		return DefaultIntervalMs
	}
	return n.IntervalMs
}
