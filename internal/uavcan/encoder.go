// internal/uavcan/encoder.go
package uavcan

import (
	"fmt"

	"github.com/tamzrod/canode/internal/can"
)

// FrameEncoder builds addressed, sequenced broadcast frames.
type FrameEncoder interface {
	Layout() Layout
	NodeID() NodeID
	Broadcast(priority uint8, dataTypeID uint16, payload []byte) (can.Frame, error)
	TransferID(dataTypeID uint16) uint8
}

// Encoder owns one transfer counter per data type id.
// Counters track attempts: they advance on every successful encode, whether or
// not the frame later reaches the bus. Not safe for concurrent use.
type Encoder struct {
	layout   Layout
	nodeID   NodeID
	mask     uint8
	counters map[uint16]uint8
}

// NewEncoder binds a layout to this node's identity.
func NewEncoder(layout Layout, nodeID NodeID) (*Encoder, error) {
	if layout == nil {
		return nil, fmt.Errorf("%w: nil layout", ErrUnknownProfile)
	}
	if !nodeID.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidNodeID, nodeID)
	}
	return &Encoder{
		layout:   layout,
		nodeID:   nodeID,
		mask:     uint8(1<<layout.TransferIDBits() - 1),
		counters: make(map[uint16]uint8, 4),
	}, nil
}

func (e *Encoder) Layout() Layout { return e.layout }
func (e *Encoder) NodeID() NodeID { return e.nodeID }

// TransferID returns the id the next Broadcast of dataTypeID will carry.
func (e *Encoder) TransferID(dataTypeID uint16) uint8 {
	return e.counters[dataTypeID]
}

// Broadcast packs payload into one frame. Rejected transfers leave the
// counter untouched; accepted ones advance it by one, modulo its width.
func (e *Encoder) Broadcast(priority uint8, dataTypeID uint16, payload []byte) (can.Frame, error) {
	tid := e.counters[dataTypeID]

	f, err := e.layout.Pack(Transfer{
		Priority:   priority,
		DataTypeID: dataTypeID,
		Source:     e.nodeID,
		TransferID: tid,
		Payload:    payload,
	})
	if err != nil {
		return can.Frame{}, err
	}

	e.counters[dataTypeID] = (tid + 1) & e.mask
	return f, nil
}
