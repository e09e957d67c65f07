// internal/node/node.go

// Package node drives one broadcast node: it publishes a measurement and a
// heartbeat once per interval over a single transport.
package node

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/tamzrod/canode/internal/can"
	"github.com/tamzrod/canode/internal/export"
	"github.com/tamzrod/canode/internal/measure"
	"github.com/tamzrod/canode/internal/status"
	"github.com/tamzrod/canode/internal/uavcan"
)

// DefaultInterval is the publish period when none is configured.
const DefaultInterval = 500 * time.Millisecond

// Config is the minimal runtime config the node needs.
type Config struct {
	Interval time.Duration
}

// Deps are the collaborators a node drives. Mirror and VendorStatus are
// optional; everything else is required.
type Deps struct {
	Encoder   uavcan.FrameEncoder
	Sender    can.Sender
	Heartbeat *status.Heartbeat
	Source    measure.Source

	// VendorStatus yields the vendor code for each heartbeat.
	// Defaults to RandomVendorStatus.
	VendorStatus func() uint16

	// Mirror receives every heartbeat snapshot. Nil disables mirroring.
	Mirror export.StatusWriter

	Logger *zap.Logger
}

// Report is the outcome of one tick.
type Report struct {
	Measurement measure.Measurement
	Snapshot    status.Snapshot

	// PublishErr is the measurement outcome fed into the heartbeat.
	PublishErr error
	// HeartbeatErr and MirrorErr are logged only.
	HeartbeatErr error
	MirrorErr    error
}

// Node is a clock-driven publisher. Owned by one goroutine.
type Node struct {
	cfg  Config
	deps Deps
	log  *zap.Logger
}

// New validates deps and switches the heartbeat to Operational.
// Callers build a node only once the transport is open.
func New(cfg Config, deps Deps) (*Node, error) {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if deps.Encoder == nil {
		return nil, errors.New("node: encoder required")
	}
	if deps.Sender == nil {
		return nil, errors.New("node: sender required")
	}
	if deps.Heartbeat == nil {
		return nil, errors.New("node: heartbeat required")
	}
	if deps.Source == nil {
		return nil, errors.New("node: measurement source required")
	}
	if hp, ep := deps.Heartbeat.Profile(), deps.Encoder.Layout().Profile(); hp != ep {
		return nil, fmt.Errorf("node: heartbeat %s, encoder %s: %w", hp, ep, uavcan.ErrProfileMismatch)
	}
	if deps.VendorStatus == nil {
		deps.VendorStatus = RandomVendorStatus
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	deps.Heartbeat.SetMode(status.ModeOperational)

	return &Node{
		cfg:  cfg,
		deps: deps,
		log: deps.Logger.With(
			zap.Uint8("node_id", uint8(deps.Encoder.NodeID())),
			zap.Stringer("profile", deps.Encoder.Layout().Profile()),
		),
	}, nil
}

// Interval is the configured publish period.
func (n *Node) Interval() time.Duration { return n.cfg.Interval }

// Tick performs exactly one publish cycle.
// The measurement frame always precedes the heartbeat frame.
func (n *Node) Tick() Report {
	var rep Report

	// ---- measurement ----
	m, err := n.measure()
	rep.Measurement = m
	if err == nil {
		payload := measure.Encode(m)
		err = n.publish(uavcan.PriorityMedium, measure.DataTypeTrueAirspeed, payload[:])
	}
	rep.PublishErr = err
	if err != nil {
		n.log.Warn("measurement publish failed", zap.Error(err))
	}

	// ---- health ----
	n.deps.Heartbeat.Record(err)

	// ---- heartbeat ----
	snap := n.deps.Heartbeat.Snapshot(n.deps.VendorStatus())
	rep.Snapshot = snap

	hb, err := status.EncodeHeartbeat(n.deps.Heartbeat.Profile(), snap)
	if err != nil {
		err = &PublishError{Stage: StageEncode, DataTypeID: status.DataTypeNodeStatus, Err: err}
	} else {
		err = n.publish(uavcan.PriorityLow, status.DataTypeNodeStatus, hb.Bytes())
	}
	rep.HeartbeatErr = err
	if err != nil {
		n.log.Warn("heartbeat publish failed", zap.Error(err))
	}

	// ---- status mirror ----
	if n.deps.Mirror != nil {
		if err := n.deps.Mirror.WriteStatus(snap); err != nil {
			rep.MirrorErr = err
			n.log.Warn("status mirror write failed", zap.Error(err))
		}
	}

	n.log.Debug("tick",
		zap.Float32("mean", m.Mean),
		zap.Float32("variance", m.Variance),
		zap.Uint32("uptime_sec", snap.UptimeSec),
		zap.Stringer("health", snap.Health),
		zap.Uint16("vendor_status", snap.VendorStatus),
	)

	return rep
}

func (n *Node) measure() (measure.Measurement, error) {
	m, err := n.deps.Source.Measure()
	if err != nil {
		return m, &PublishError{Stage: StageCompute, DataTypeID: measure.DataTypeTrueAirspeed, Err: err}
	}
	return m, nil
}

// publish encodes and sends one single-frame broadcast. Nothing is retried.
func (n *Node) publish(class uavcan.PriorityClass, dataTypeID uint16, payload []byte) error {
	enc := n.deps.Encoder

	f, err := enc.Broadcast(enc.Layout().Priority(class), dataTypeID, payload)
	if err != nil {
		return &PublishError{Stage: StageEncode, DataTypeID: dataTypeID, Err: err}
	}
	if err := n.deps.Sender.Send(f); err != nil {
		return &PublishError{Stage: StageTransport, DataTypeID: dataTypeID, Err: err}
	}
	return nil
}

// RandomVendorStatus returns an arbitrary vendor code per call.
func RandomVendorStatus() uint16 {
	return uint16(rand.Uint32())
}

// FixedVendorStatus always reports code.
func FixedVendorStatus(code uint16) func() uint16 {
	return func() uint16 { return code }
}
