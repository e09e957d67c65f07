// internal/status/heartbeat_test.go
package status

import (
	"errors"
	"testing"
	"time"

	"github.com/tamzrod/canode/internal/uavcan"
)

type fakeClock struct {
	now   time.Time
	calls int
}

func (c *fakeClock) Now() time.Time {
	c.calls++
	return c.now
}

type codedErr struct{ code uint16 }

func (e codedErr) Error() string { return "coded" }
func (e codedErr) Code() uint16  { return e.code }

func TestHeartbeat_InitialState(t *testing.T) {
	tail := NewHeartbeat(uavcan.ProfileTail, &fakeClock{})
	if tail.Health() != HealthOK {
		t.Fatalf("tail initial health: got=%s want=ok", tail.Health())
	}
	if tail.Mode() != ModeInitialization {
		t.Fatalf("initial mode: got=%s want=initialization", tail.Mode())
	}

	inline := NewHeartbeat(uavcan.ProfileInline, &fakeClock{})
	if inline.Health() != HealthInitializing {
		t.Fatalf("inline initial health: got=%s want=initializing", inline.Health())
	}
}

func TestHeartbeat_UptimeOriginFirstCallWins(t *testing.T) {
	clk := &fakeClock{now: time.Unix(1000, 0)}
	hb := NewHeartbeat(uavcan.ProfileTail, clk)

	// Time passing before the first snapshot does not count.
	clk.now = clk.now.Add(90 * time.Second)

	if s := hb.Snapshot(0); s.UptimeSec != 0 {
		t.Fatalf("first snapshot uptime: got=%d want=0", s.UptimeSec)
	}

	clk.now = clk.now.Add(1500 * time.Millisecond)
	if s := hb.Snapshot(0); s.UptimeSec != 1 {
		t.Fatalf("uptime after 1.5s: got=%d want=1", s.UptimeSec)
	}

	clk.now = clk.now.Add(3 * time.Hour)
	if s := hb.Snapshot(0); s.UptimeSec != 3*3600+1 {
		t.Fatalf("uptime after 3h: got=%d", s.UptimeSec)
	}
}

func TestHeartbeat_RecordIsOneStep(t *testing.T) {
	cases := []struct {
		profile  uavcan.Profile
		degraded Health
	}{
		{uavcan.ProfileTail, HealthError},
		{uavcan.ProfileInline, HealthWarning},
	}

	for _, tc := range cases {
		hb := NewHeartbeat(tc.profile, &fakeClock{})

		hb.Record(errors.New("bus off"))
		if hb.Health() != tc.degraded {
			t.Fatalf("%s: after failure got=%s want=%s", tc.profile, hb.Health(), tc.degraded)
		}
		if s := hb.Snapshot(0); s.LastErrorCode != ErrorCodeTransport {
			t.Fatalf("%s: last error code got=%d", tc.profile, s.LastErrorCode)
		}

		hb.Record(nil)
		if hb.Health() != HealthOK {
			t.Fatalf("%s: after success got=%s want=ok", tc.profile, hb.Health())
		}
		if s := hb.Snapshot(0); s.LastErrorCode != ErrorCodeNone {
			t.Fatalf("%s: last error code not reset: %d", tc.profile, s.LastErrorCode)
		}
	}
}

func TestHeartbeat_RecordUsesErrorCode(t *testing.T) {
	hb := NewHeartbeat(uavcan.ProfileTail, &fakeClock{})
	hb.Record(codedErr{code: ErrorCodeCompute})

	if s := hb.Snapshot(9); s.LastErrorCode != ErrorCodeCompute || s.VendorStatus != 9 {
		t.Fatalf("unexpected snapshot: %+v", s)
	}
}
