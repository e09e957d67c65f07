// internal/config/normalize.go
package config

// Defaults applied by Normalize.
const (
	DefaultProfile         = "tail"
	DefaultIntervalMs      = 500
	DefaultNodeName        = "org.uavcan.canode"
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "console"
	DefaultExportTimeoutMs = 200
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	n := &cfg.Node
	if n.Profile == "" {
		n.Profile = DefaultProfile
	}
	if n.IntervalMs == 0 {
		n.IntervalMs = DefaultIntervalMs
	}
	if n.Name == "" {
		n.Name = DefaultNodeName
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	// ------------------------------------------------------------
	// STATUS MIRROR NORMALIZATION (OPT-IN)
	// ------------------------------------------------------------

	if cfg.Export.Modbus == nil {
		return
	}

	// Never longer than half an interval.
	if cfg.Export.Modbus.TimeoutMs == 0 {
		t := DefaultExportTimeoutMs
		if half := n.IntervalMs / 2; half < t {
			t = max(half, 1)
		}
		cfg.Export.Modbus.TimeoutMs = t
	}
}
