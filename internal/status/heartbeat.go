// internal/status/heartbeat.go
package status

import (
	"errors"
	"time"

	"github.com/tamzrod/canode/internal/uavcan"
)

// Clock yields the current time. Only the monotonic reading is used.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the process clock.
var SystemClock Clock = systemClock{}

// Coder lets failures report their own last-error code.
type Coder interface {
	Code() uint16
}

// Heartbeat is the node's health and uptime model.
// Owned by the scheduler goroutine; no locking.
type Heartbeat struct {
	profile uavcan.Profile
	clock   Clock

	origin  time.Time
	started bool

	health  Health
	mode    Mode
	lastErr uint16
}

// NewHeartbeat starts in the profile's initial health and Initialization mode.
func NewHeartbeat(p uavcan.Profile, clock Clock) *Heartbeat {
	if clock == nil {
		clock = SystemClock
	}
	return &Heartbeat{
		profile: p,
		clock:   clock,
		health:  InitialHealth(p),
		mode:    ModeInitialization,
	}
}

func (hb *Heartbeat) Profile() uavcan.Profile { return hb.profile }
func (hb *Heartbeat) Health() Health          { return hb.health }
func (hb *Heartbeat) Mode() Mode              { return hb.mode }

func (hb *Heartbeat) SetMode(m Mode) { hb.mode = m }

// Record applies the outcome of the last measurement publish.
// One step of memory: the newest outcome alone decides health.
func (hb *Heartbeat) Record(err error) {
	if err == nil {
		hb.health = HealthOK
		hb.lastErr = ErrorCodeNone
		return
	}
	hb.health = DegradedHealth(hb.profile)
	hb.lastErr = errorCode(err)
}

// Snapshot captures the uptime origin on its first call and reuses it after.
func (hb *Heartbeat) Snapshot(vendorStatus uint16) Snapshot {
	now := hb.clock.Now()
	if !hb.started {
		hb.origin = now
		hb.started = true
	}

	up := now.Sub(hb.origin) / time.Second
	if up < 0 {
		up = 0
	}

	return Snapshot{
		UptimeSec:     uint32(up),
		Health:        hb.health,
		Mode:          hb.mode,
		VendorStatus:  vendorStatus,
		LastErrorCode: hb.lastErr,
	}
}

// errorCode extracts a best-effort code without assuming concrete types.
// Errors that do not expose a code count as transport failures.
func errorCode(err error) uint16 {
	var c Coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return ErrorCodeTransport
}
