// internal/status/snapshot.go
package status

// Snapshot is the heartbeat content at one instant.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	UptimeSec     uint32
	Health        Health
	Mode          Mode
	VendorStatus  uint16
	LastErrorCode uint16
}
