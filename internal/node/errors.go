// internal/node/errors.go
package node

import (
	"fmt"

	"github.com/tamzrod/canode/internal/status"
)

// Stage names the step of a publish that failed.
type Stage uint8

const (
	StageCompute Stage = iota + 1
	StageEncode
	StageTransport
)

func (s Stage) String() string {
	switch s {
	case StageCompute:
		return "compute"
	case StageEncode:
		return "encode"
	case StageTransport:
		return "transport"
	default:
		return fmt.Sprintf("stage(%d)", uint8(s))
	}
}

// PublishError wraps a failed publish with the stage it failed in.
// Its Code is what the heartbeat reports as the last error.
type PublishError struct {
	Stage      Stage
	DataTypeID uint16
	Err        error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("node: %s failed (dtid=%d): %v", e.Stage, e.DataTypeID, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }

// Code maps the stage onto the last error taxonomy.
func (e *PublishError) Code() uint16 {
	switch e.Stage {
	case StageCompute:
		return status.ErrorCodeCompute
	case StageEncode:
		return status.ErrorCodeEncode
	default:
		return status.ErrorCodeTransport
	}
}
