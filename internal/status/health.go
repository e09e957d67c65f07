// internal/status/health.go
package status

import (
	"errors"
	"fmt"

	"github.com/tamzrod/canode/internal/uavcan"
)

var ErrHealthNotRepresentable = errors.New("status: health not representable in profile")

// Health is the logical node health. Wire codes depend on the profile.
type Health uint8

const (
	HealthOK Health = iota
	HealthInitializing
	HealthWarning
	HealthError
	HealthCritical
	// HealthOffline is only ever assigned by receivers to silent nodes.
	HealthOffline
)

func (h Health) String() string {
	switch h {
	case HealthOK:
		return "ok"
	case HealthInitializing:
		return "initializing"
	case HealthWarning:
		return "warning"
	case HealthError:
		return "error"
	case HealthCritical:
		return "critical"
	case HealthOffline:
		return "offline"
	default:
		return fmt.Sprintf("health(%d)", uint8(h))
	}
}

// Mode is the operating mode. Values are wire codes on both profiles.
type Mode uint8

const (
	ModeOperational    Mode = 0
	ModeInitialization Mode = 1
	ModeMaintenance    Mode = 2
	ModeSoftwareUpdate Mode = 3
	ModeOffline        Mode = 7
)

func (m Mode) String() string {
	switch m {
	case ModeOperational:
		return "operational"
	case ModeInitialization:
		return "initialization"
	case ModeMaintenance:
		return "maintenance"
	case ModeSoftwareUpdate:
		return "software_update"
	case ModeOffline:
		return "offline"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// tail: 2-bit code. inline: 4-bit code.
var (
	tailHealthCodes = map[Health]uint8{
		HealthOK:       0,
		HealthWarning:  1,
		HealthError:    2,
		HealthCritical: 3,
	}
	inlineHealthCodes = map[Health]uint8{
		HealthOK:           0,
		HealthInitializing: 1,
		HealthWarning:      2,
		HealthCritical:     3,
		HealthOffline:      15,
	}
)

func healthCodes(p uavcan.Profile) (map[Health]uint8, error) {
	switch p {
	case uavcan.ProfileTail:
		return tailHealthCodes, nil
	case uavcan.ProfileInline:
		return inlineHealthCodes, nil
	default:
		return nil, fmt.Errorf("%w: %s", uavcan.ErrUnknownProfile, p)
	}
}

// HealthCode returns the wire code of h in profile p.
func HealthCode(p uavcan.Profile, h Health) (uint8, error) {
	codes, err := healthCodes(p)
	if err != nil {
		return 0, err
	}
	c, ok := codes[h]
	if !ok {
		return 0, fmt.Errorf("%w: %s in %s", ErrHealthNotRepresentable, h, p)
	}
	return c, nil
}

// HealthFromCode is the receive-side inverse of HealthCode.
func HealthFromCode(p uavcan.Profile, code uint8) (Health, error) {
	codes, err := healthCodes(p)
	if err != nil {
		return 0, err
	}
	for h, c := range codes {
		if c == code {
			return h, nil
		}
	}
	return 0, fmt.Errorf("%w: code %d in %s", ErrHealthNotRepresentable, code, p)
}

// InitialHealth is the state reported before the first tick.
func InitialHealth(p uavcan.Profile) Health {
	if p == uavcan.ProfileInline {
		return HealthInitializing
	}
	return HealthOK
}

// DegradedHealth is the state reported after a failed measurement publish.
func DegradedHealth(p uavcan.Profile) Health {
	if p == uavcan.ProfileInline {
		return HealthWarning
	}
	return HealthError
}
