// internal/can/wire.go
package can

import (
	"encoding/binary"
	"fmt"
)

// Kernel struct can_frame geometry:
//
//	can_id(4, host order) can_dlc(1) pad(3) data(8)
const wireFrameSize = 16

const (
	flagEFF uint32 = 0x80000000 // extended frame format
	flagRTR uint32 = 0x40000000 // remote transmission request
	flagERR uint32 = 0x20000000 // error frame
)

// marshalFrame encodes f as a struct can_frame with the extended flag set.
func marshalFrame(f Frame) [wireFrameSize]byte {
	var b [wireFrameSize]byte
	binary.NativeEndian.PutUint32(b[0:4], (f.ID&MaxExtendedID)|flagEFF)
	b[4] = f.Length
	copy(b[8:], f.Data[:f.Length])
	return b
}

// unmarshalFrame decodes a struct can_frame.
// ok is false for frames this package does not deliver (standard, RTR, error).
func unmarshalFrame(b []byte) (f Frame, ok bool, err error) {
	if len(b) < wireFrameSize {
		return Frame{}, false, fmt.Errorf("%w: %d bytes", ErrShortRead, len(b))
	}

	raw := binary.NativeEndian.Uint32(b[0:4])
	if raw&flagEFF == 0 || raw&(flagRTR|flagERR) != 0 {
		return Frame{}, false, nil
	}

	dlc := b[4]
	if dlc > MaxDataLength {
		return Frame{}, false, fmt.Errorf("%w: %d", ErrLength, dlc)
	}

	f.ID = raw & MaxExtendedID
	f.Length = dlc
	copy(f.Data[:], b[8:8+int(dlc)])
	return f, true, nil
}
