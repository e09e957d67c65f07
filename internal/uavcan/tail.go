// internal/uavcan/tail.go
package uavcan

import (
	"fmt"

	"github.com/tamzrod/canode/internal/can"
)

// Tail profile identifier:
//
//	28..24 priority (5)
//	23..8  data type id (16)
//	7      service-not-message (0)
//	6..0   source node id (7)
//
// Payload is followed by one tail byte:
//
//	7 start-of-transfer, 6 end-of-transfer, 5 toggle, 4..0 transfer id
const (
	tailOffsetPriority   = 24
	tailOffsetDataTypeID = 8
	tailFlagService      = 1 << 7

	tailStartOfTransfer = 0x80
	tailEndOfTransfer   = 0x40
	tailToggle          = 0x20
	tailTransferIDMask  = 0x1F

	tailSingleFrame = tailStartOfTransfer | tailEndOfTransfer
)

type tailLayout struct{}

func (tailLayout) Profile() Profile      { return ProfileTail }
func (tailLayout) MaxPayload() int       { return can.MaxDataLength - 1 }
func (tailLayout) TransferIDBits() uint  { return 5 }
func (tailLayout) MaxPriority() uint8    { return 31 }
func (tailLayout) MaxDataTypeID() uint16 { return 0xFFFF }

func (tailLayout) Priority(c PriorityClass) uint8 {
	switch c {
	case PriorityHighest:
		return 0
	case PriorityHigh:
		return 8
	case PriorityMedium:
		return 16
	case PriorityLow:
		return 24
	default:
		return 31
	}
}

func (l tailLayout) Pack(t Transfer) (can.Frame, error) {
	if err := checkTransfer(l, t); err != nil {
		return can.Frame{}, err
	}

	var f can.Frame
	f.ID = uint32(t.Priority)<<tailOffsetPriority |
		uint32(t.DataTypeID)<<tailOffsetDataTypeID |
		uint32(t.Source)

	n := copy(f.Data[:], t.Payload)
	f.Data[n] = tailSingleFrame | (t.TransferID & tailTransferIDMask)
	f.Length = uint8(n + 1)
	return f, nil
}

func (tailLayout) Unpack(f *can.Frame) (Transfer, error) {
	if f.Length == 0 {
		return Transfer{}, fmt.Errorf("%w: missing tail byte", ErrNotSingleFrame)
	}
	if f.ID&tailFlagService != 0 {
		return Transfer{}, fmt.Errorf("%w: service frame", ErrNotSingleFrame)
	}

	tail := f.Data[f.Length-1]
	if tail&tailSingleFrame != tailSingleFrame {
		return Transfer{}, fmt.Errorf("%w: tail 0x%02X", ErrNotSingleFrame, tail)
	}

	return Transfer{
		Priority:   uint8(f.ID>>tailOffsetPriority) & 0x1F,
		DataTypeID: uint16(f.ID >> tailOffsetDataTypeID),
		Source:     NodeID(f.ID & 0x7F),
		TransferID: tail & tailTransferIDMask,
		Payload:    f.Data[:f.Length-1],
	}, nil
}
