// internal/uavcan/inline.go
package uavcan

import (
	"fmt"

	"github.com/tamzrod/canode/internal/can"
)

// Inline profile identifier, no tail byte:
//
//	28..26 priority (3)
//	25..16 data type id (10)
//	15..9  source node id (7)
//	8..4   frame index (5, always 0)
//	3      last frame (1)
//	2..0   transfer id (3)
const (
	inlineOffsetPriority   = 26
	inlineOffsetDataTypeID = 16
	inlineOffsetSource     = 9
	inlineOffsetFrameIndex = 4
	inlineFlagLastFrame    = 1 << 3
	inlineTransferIDMask   = 0x07
)

type inlineLayout struct{}

func (inlineLayout) Profile() Profile      { return ProfileInline }
func (inlineLayout) MaxPayload() int       { return can.MaxDataLength }
func (inlineLayout) TransferIDBits() uint  { return 3 }
func (inlineLayout) MaxPriority() uint8    { return 7 }
func (inlineLayout) MaxDataTypeID() uint16 { return 0x3FF }

func (inlineLayout) Priority(c PriorityClass) uint8 {
	switch c {
	case PriorityHighest:
		return 0
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 4
	case PriorityLow:
		return 6
	default:
		return 7
	}
}

func (l inlineLayout) Pack(t Transfer) (can.Frame, error) {
	if err := checkTransfer(l, t); err != nil {
		return can.Frame{}, err
	}

	var f can.Frame
	f.ID = uint32(t.Priority)<<inlineOffsetPriority |
		uint32(t.DataTypeID)<<inlineOffsetDataTypeID |
		uint32(t.Source)<<inlineOffsetSource |
		inlineFlagLastFrame |
		uint32(t.TransferID&inlineTransferIDMask)

	f.Length = uint8(copy(f.Data[:], t.Payload))
	return f, nil
}

func (inlineLayout) Unpack(f *can.Frame) (Transfer, error) {
	if f.ID&inlineFlagLastFrame == 0 || (f.ID>>inlineOffsetFrameIndex)&0x1F != 0 {
		return Transfer{}, fmt.Errorf("%w: id 0x%08X", ErrNotSingleFrame, f.ID)
	}

	return Transfer{
		Priority:   uint8(f.ID>>inlineOffsetPriority) & 0x07,
		DataTypeID: uint16(f.ID>>inlineOffsetDataTypeID) & 0x3FF,
		Source:     NodeID(f.ID>>inlineOffsetSource) & 0x7F,
		TransferID: uint8(f.ID) & inlineTransferIDMask,
		Payload:    f.Data[:f.Length],
	}, nil
}
