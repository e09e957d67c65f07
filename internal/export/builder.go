// internal/export/builder.go
package export

import (
	"time"

	cfg "github.com/tamzrod/canode/internal/config"
	"github.com/tamzrod/canode/internal/export/modbus"
	"github.com/tamzrod/canode/internal/uavcan"
)

// Build connects the status mirror described by c.
// Returns (nil, no-op closer, nil) when the mirror is not configured.
// Assumes config has already passed Validate and Normalize.
func Build(c *cfg.Config, profile uavcan.Profile, nodeID uavcan.NodeID) (StatusWriter, func() error, error) {
	noop := func() error { return nil }

	if c == nil || c.Export.Modbus == nil {
		return nil, noop, nil
	}
	m := c.Export.Modbus

	cli, err := modbus.Dial(modbus.Config{
		Endpoint: m.Endpoint,
		Timeout:  time.Duration(m.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return nil, noop, err
	}

	w := NewStatusWriter(Plan{
		Profile:  profile,
		NodeID:   nodeID,
		NodeName: c.Node.Name,
		UnitID:   uint8(m.UnitID),
		BaseSlot: uint16(m.BaseSlot),
	}, cli)

	return w, cli.Close, nil
}
