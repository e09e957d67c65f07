// internal/export/status_writer.go
package export

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/tamzrod/canode/internal/status"
	"github.com/tamzrod/canode/internal/uavcan"
)

// StatusWriter is the delivery-only contract for node status.
// It receives a snapshot and writes it verbatim.
type StatusWriter interface {
	WriteStatus(s status.Snapshot) error
}

// registerClient is the exact contract the writer uses.
type registerClient interface {
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
}

// Plan is where and as whom the node status is mirrored.
type Plan struct {
	Profile  uavcan.Profile
	NodeID   uavcan.NodeID
	NodeName string
	UnitID   uint8
	BaseSlot uint16
}

// liveField is a run of slots written as one unit.
// Uptime spans two registers and is never written by halves.
type liveField struct {
	name  string
	slot  int
	width int
}

var liveFields = []liveField{
	{"health", SlotHealthCode, 1},
	{"mode", SlotMode, 1},
	{"uptime", SlotUptimeHi, 2},
	{"vendor_status", SlotVendorStatus, 1},
	{"last_error", SlotLastErrorCode, 1},
	{"node_id", SlotNodeID, 1},
}

// blockWriter mirrors snapshots into one register block.
type blockWriter struct {
	plan Plan
	cli  registerClient

	needFull bool
	last     [SlotsPerNode]uint16
	nameRegs [SlotNodeNameSlots]uint16
}

// NewStatusWriter builds a writer that re-asserts the full block first.
func NewStatusWriter(plan Plan, cli registerClient) StatusWriter {
	return &blockWriter{
		plan:     plan,
		cli:      cli,
		needFull: true, // full re-assert on first successful write
		nameRegs: encodeNodeNameRegs(plan.NodeName),
	}
}

// WriteStatus delivers one snapshot.
// On any write failure, the next successful call re-asserts the full block.
func (sw *blockWriter) WriteStatus(s status.Snapshot) error {
	if sw == nil || sw.cli == nil {
		return errors.New("status mirror: disabled")
	}

	regs, err := sw.fullBlockRegs(s)
	if err != nil {
		return fmt.Errorf("status mirror: %w", err)
	}

	baseAddr := sw.baseAddr()

	// ------------------------------------------------------------
	// Full block write (identity re-assert)
	// ------------------------------------------------------------
	if sw.needFull {
		if err := sw.cli.WriteRegisters(sw.plan.UnitID, baseAddr, regs[:]); err != nil {
			sw.needFull = true
			return fmt.Errorf("status mirror: full block write failed: %w", err)
		}
		sw.needFull = false
		sw.last = regs
		return nil
	}

	// ------------------------------------------------------------
	// Incremental: only live fields that changed.
	// Stops at the first failure; the next call re-asserts the block.
	// ------------------------------------------------------------
	for _, f := range liveFields {
		cur := regs[f.slot : f.slot+f.width]
		if equalRegs(sw.last[f.slot:f.slot+f.width], cur) {
			continue
		}
		if err := sw.cli.WriteRegisters(sw.plan.UnitID, baseAddr+uint16(f.slot), cur); err != nil {
			sw.needFull = true
			return fmt.Errorf("status mirror: slot%d %s write failed: %w", f.slot, f.name, err)
		}
		copy(sw.last[f.slot:f.slot+f.width], cur)
	}

	return nil
}

func (sw *blockWriter) baseAddr() uint16 {
	// Each node owns a fixed SlotsPerNode block.
	return sw.plan.BaseSlot * SlotsPerNode
}

func (sw *blockWriter) fullBlockRegs(s status.Snapshot) ([SlotsPerNode]uint16, error) {
	var regs [SlotsPerNode]uint16

	code, err := status.HealthCode(sw.plan.Profile, s.Health)
	if err != nil {
		return regs, err
	}

	// Slots 0–6: live status
	regs[SlotHealthCode] = uint16(code)
	regs[SlotMode] = uint16(s.Mode)
	regs[SlotUptimeHi] = uint16(s.UptimeSec >> 16)
	regs[SlotUptimeLo] = uint16(s.UptimeSec)
	regs[SlotVendorStatus] = s.VendorStatus
	regs[SlotLastErrorCode] = s.LastErrorCode
	regs[SlotNodeID] = uint16(sw.plan.NodeID)

	// Slots 7–10 are RESERVED → left as zero

	copy(regs[SlotNodeNameStart:SlotNodeNameEnd+1], sw.nameRegs[:])

	return regs, nil
}

// encodeNodeNameRegs stores the node name in the block's name slots.
// Names longer than NodeNameMaxChars are cut, bytes outside printable ASCII
// become '?', and the tail is zero-padded.
func encodeNodeNameRegs(name string) [SlotNodeNameSlots]uint16 {
	var text [NodeNameMaxChars]byte
	n := copy(text[:], name)
	for i, c := range text[:n] {
		if c < ' ' || c > '~' {
			text[i] = '?'
		}
	}

	var regs [SlotNodeNameSlots]uint16
	for i := range regs {
		regs[i] = binary.BigEndian.Uint16(text[2*i:])
	}
	return regs
}

func equalRegs(a, b []uint16) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
