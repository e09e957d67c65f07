// internal/uavcan/errors.go
package uavcan

import "errors"

var (
	ErrInvalidNodeID   = errors.New("uavcan: node id must be in 1..127")
	ErrPayloadTooLarge = errors.New("uavcan: payload exceeds single-frame capacity")
	ErrPriorityRange   = errors.New("uavcan: priority out of range")
	ErrDataTypeRange   = errors.New("uavcan: data type id out of range")
	ErrTransferIDRange = errors.New("uavcan: transfer id out of range")
	ErrNotSingleFrame  = errors.New("uavcan: frame is not a single-frame broadcast")
	ErrUnknownProfile  = errors.New("uavcan: unknown wire profile")
	ErrProfileMismatch = errors.New("uavcan: components use different wire profiles")
)
