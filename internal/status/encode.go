// internal/status/encode.go
package status

import (
	"encoding/binary"
	"fmt"

	"github.com/tamzrod/canode/internal/uavcan"
)

// Payload is a heartbeat payload in a fixed buffer.
type Payload struct {
	buf [TailPayloadSize]byte
	n   int
}

// Bytes returns the encoded payload. It aliases p.
func (p *Payload) Bytes() []byte { return p.buf[:p.n] }

// EncodeHeartbeat packs s for profile p.
// Layout is protocol-locked. No IO. No side effects.
//
// tail (7 bytes):
//
//	0-3 uptime seconds (LE)
//	4   health<<6 | mode<<3
//	5-6 vendor status (LE)
//
// inline (6 bytes):
//
//	0-3 uptime seconds & 0x0FFFFFFF | health<<28 (LE)
//	4-5 vendor status (LE)
func EncodeHeartbeat(p uavcan.Profile, s Snapshot) (Payload, error) {
	var out Payload

	code, err := HealthCode(p, s.Health)
	if err != nil {
		return out, err
	}

	switch p {
	case uavcan.ProfileTail:
		binary.LittleEndian.PutUint32(out.buf[0:4], s.UptimeSec)
		out.buf[4] = code<<6 | (uint8(s.Mode)&0x07)<<3
		binary.LittleEndian.PutUint16(out.buf[5:7], s.VendorStatus)
		out.n = TailPayloadSize

	case uavcan.ProfileInline:
		word := s.UptimeSec&InlineUptimeMask | uint32(code&0x0F)<<28
		binary.LittleEndian.PutUint32(out.buf[0:4], word)
		binary.LittleEndian.PutUint16(out.buf[4:6], s.VendorStatus)
		out.n = InlinePayloadSize

	default:
		return out, fmt.Errorf("%w: %s", uavcan.ErrUnknownProfile, p)
	}

	return out, nil
}

// DecodeHeartbeat is the receive-side inverse of EncodeHeartbeat.
// The inline profile carries no mode; it decodes as Operational.
func DecodeHeartbeat(p uavcan.Profile, b []byte) (Snapshot, error) {
	var s Snapshot

	switch p {
	case uavcan.ProfileTail:
		if len(b) != TailPayloadSize {
			return s, fmt.Errorf("status: heartbeat length %d, want %d", len(b), TailPayloadSize)
		}
		h, err := HealthFromCode(p, b[4]>>6)
		if err != nil {
			return s, err
		}
		s.UptimeSec = binary.LittleEndian.Uint32(b[0:4])
		s.Health = h
		s.Mode = Mode(b[4]>>3) & 0x07
		s.VendorStatus = binary.LittleEndian.Uint16(b[5:7])

	case uavcan.ProfileInline:
		if len(b) != InlinePayloadSize {
			return s, fmt.Errorf("status: heartbeat length %d, want %d", len(b), InlinePayloadSize)
		}
		word := binary.LittleEndian.Uint32(b[0:4])
		h, err := HealthFromCode(p, uint8(word>>28))
		if err != nil {
			return s, err
		}
		s.UptimeSec = word & InlineUptimeMask
		s.Health = h
		s.Mode = ModeOperational
		s.VendorStatus = binary.LittleEndian.Uint16(b[4:6])

	default:
		return s, fmt.Errorf("%w: %s", uavcan.ErrUnknownProfile, p)
	}

	return s, nil
}
