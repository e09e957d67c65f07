// internal/can/frame.go
package can

import (
	"errors"
	"fmt"
)

// MaxDataLength is the classic CAN payload limit.
const MaxDataLength = 8

// MaxExtendedID is the largest 29-bit extended identifier.
const MaxExtendedID uint32 = 0x1FFFFFFF

var (
	ErrShortWrite  = errors.New("can: short write")
	ErrShortRead   = errors.New("can: short read")
	ErrUnsupported = errors.New("can: socketcan not supported on this platform")
	ErrIDRange     = errors.New("can: identifier exceeds 29 bits")
	ErrLength      = errors.New("can: data length exceeds 8 bytes")
	ErrTimeout     = errors.New("can: receive timed out")
)

// Frame is one classic CAN frame with an extended identifier.
// Data is a fixed array so frames can be built without heap allocation.
type Frame struct {
	ID     uint32
	Length uint8
	Data   [MaxDataLength]byte
}

// Payload returns the used part of Data.
func (f *Frame) Payload() []byte {
	return f.Data[:f.Length]
}

// Validate checks the frame invariants.
func (f Frame) Validate() error {
	if f.ID > MaxExtendedID {
		return fmt.Errorf("%w: 0x%X", ErrIDRange, f.ID)
	}
	if f.Length > MaxDataLength {
		return fmt.Errorf("%w: %d", ErrLength, f.Length)
	}
	return nil
}

// String renders the frame in cansend notation (ID#DATA).
func (f Frame) String() string {
	return fmt.Sprintf("%08X#%X", f.ID, f.Data[:f.Length])
}
