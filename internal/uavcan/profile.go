// internal/uavcan/profile.go
package uavcan

import (
	"fmt"
	"strings"

	"github.com/tamzrod/canode/internal/can"
)

// Profile names one of the two wire-format revisions.
// They are not interoperable: pick one per bus.
type Profile uint8

const (
	// ProfileTail appends a tail byte carrying a 5-bit transfer id.
	ProfileTail Profile = iota + 1
	// ProfileInline folds a 3-bit transfer id into the CAN identifier.
	ProfileInline
)

func (p Profile) String() string {
	switch p {
	case ProfileTail:
		return "tail"
	case ProfileInline:
		return "inline"
	default:
		return fmt.Sprintf("profile(%d)", uint8(p))
	}
}

// ParseProfile accepts "tail" or "inline" (case-insensitive).
func ParseProfile(s string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tail":
		return ProfileTail, nil
	case "inline":
		return ProfileInline, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownProfile, s)
	}
}

// PriorityClass is a profile-independent priority mnemonic.
type PriorityClass uint8

const (
	PriorityHighest PriorityClass = iota
	PriorityHigh
	PriorityMedium
	PriorityLow
	PriorityLowest
)

// NodeID identifies a bus participant. Valid range is 1..127.
type NodeID uint8

const MaxNodeID NodeID = 127

// Valid reports whether id may be used as a source address.
func (id NodeID) Valid() bool {
	return id >= 1 && id <= MaxNodeID
}

// Transfer is one single-frame broadcast as seen on the wire.
type Transfer struct {
	Priority   uint8
	DataTypeID uint16
	Source     NodeID
	TransferID uint8
	Payload    []byte
}

// Layout packs and unpacks single-frame broadcasts for one profile.
type Layout interface {
	Profile() Profile
	// MaxPayload is the largest application payload that fits one frame.
	MaxPayload() int
	TransferIDBits() uint
	MaxPriority() uint8
	MaxDataTypeID() uint16
	Priority(c PriorityClass) uint8
	Pack(t Transfer) (can.Frame, error)
	// Unpack returns a Transfer whose Payload aliases f's data.
	Unpack(f *can.Frame) (Transfer, error)
}

// LayoutFor returns the layout of a profile.
func LayoutFor(p Profile) (Layout, error) {
	switch p {
	case ProfileTail:
		return tailLayout{}, nil
	case ProfileInline:
		return inlineLayout{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProfile, p)
	}
}

func checkTransfer(l Layout, t Transfer) error {
	if t.Priority > l.MaxPriority() {
		return fmt.Errorf("%w: %d > %d", ErrPriorityRange, t.Priority, l.MaxPriority())
	}
	if t.DataTypeID > l.MaxDataTypeID() {
		return fmt.Errorf("%w: %d > %d", ErrDataTypeRange, t.DataTypeID, l.MaxDataTypeID())
	}
	if !t.Source.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidNodeID, t.Source)
	}
	if t.TransferID >= 1<<l.TransferIDBits() {
		return fmt.Errorf("%w: %d", ErrTransferIDRange, t.TransferID)
	}
	if len(t.Payload) > l.MaxPayload() {
		return fmt.Errorf("%w: %d > %d bytes", ErrPayloadTooLarge, len(t.Payload), l.MaxPayload())
	}
	return nil
}
