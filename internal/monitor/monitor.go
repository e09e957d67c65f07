// internal/monitor/monitor.go

// Package monitor decodes broadcasts seen on the bus and prints them as a
// stream of YAML documents.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/tamzrod/canode/internal/can"
	"github.com/tamzrod/canode/internal/measure"
	"github.com/tamzrod/canode/internal/status"
	"github.com/tamzrod/canode/internal/uavcan"
)

// ErrUnknownDataType is returned by Decode for data types it cannot read.
var ErrUnknownDataType = errors.New("monitor: unknown data type")

// Record is one decoded broadcast.
type Record struct {
	Source     uint8  `yaml:"source"`
	DataType   uint16 `yaml:"data_type"`
	Priority   uint8  `yaml:"priority"`
	TransferID uint8  `yaml:"transfer_id"`

	NodeStatus *NodeStatus `yaml:"node_status,omitempty"`
	Airspeed   *Airspeed   `yaml:"true_airspeed,omitempty"`
}

type NodeStatus struct {
	UptimeSec    uint32 `yaml:"uptime_sec"`
	Health       string `yaml:"health"`
	Mode         string `yaml:"mode"`
	VendorStatus uint16 `yaml:"vendor_status"`
}

// Airspeed omits variance when the sender marked it unknown.
type Airspeed struct {
	Mean     float32  `yaml:"mean"`
	Variance *float32 `yaml:"variance,omitempty"`
}

// Decode interprets one frame under layout.
func Decode(layout uavcan.Layout, f can.Frame) (Record, error) {
	tr, err := layout.Unpack(&f)
	if err != nil {
		return Record{}, err
	}

	rec := Record{
		Source:     uint8(tr.Source),
		DataType:   tr.DataTypeID,
		Priority:   tr.Priority,
		TransferID: tr.TransferID,
	}

	switch tr.DataTypeID {
	case status.DataTypeNodeStatus:
		s, err := status.DecodeHeartbeat(layout.Profile(), tr.Payload)
		if err != nil {
			return rec, err
		}
		rec.NodeStatus = &NodeStatus{
			UptimeSec:    s.UptimeSec,
			Health:       s.Health.String(),
			Mode:         s.Mode.String(),
			VendorStatus: s.VendorStatus,
		}

	case measure.DataTypeTrueAirspeed:
		m, err := measure.Decode(tr.Payload)
		if err != nil {
			return rec, err
		}
		rec.Airspeed = &Airspeed{Mean: m.Mean}
		if m.VarianceKnown() {
			v := m.Variance
			rec.Airspeed.Variance = &v
		}

	default:
		return rec, fmt.Errorf("%w: %d", ErrUnknownDataType, tr.DataTypeID)
	}

	return rec, nil
}

// Monitor writes every decodable frame as its own YAML document.
type Monitor struct {
	layout uavcan.Layout
	enc    *yaml.Encoder
	log    *zap.Logger
	docs   int
}

func New(layout uavcan.Layout, w io.Writer, log *zap.Logger) *Monitor {
	if log == nil {
		log = zap.NewNop()
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	return &Monitor{layout: layout, enc: enc, log: log}
}

// Handle decodes and prints f. Frames that do not decode are logged and
// dropped; only output errors are returned.
func (m *Monitor) Handle(f can.Frame) error {
	rec, err := Decode(m.layout, f)
	switch {
	case errors.Is(err, ErrUnknownDataType), errors.Is(err, uavcan.ErrNotSingleFrame):
		m.log.Debug("frame skipped", zap.Stringer("frame", f), zap.Error(err))
		return nil
	case err != nil:
		m.log.Warn("frame not decodable", zap.Stringer("frame", f), zap.Error(err))
		return nil
	}

	if err := m.enc.Encode(rec); err != nil {
		return fmt.Errorf("monitor: write: %w", err)
	}
	m.docs++
	return nil
}

type received struct {
	f   can.Frame
	err error
}

// Run receives until ctx is cancelled or the receiver fails.
// Receive runs on its own goroutine, so cancellation is observed even while
// a read is blocked; that goroutine exits once its pending Receive returns.
func (m *Monitor) Run(ctx context.Context, r can.Receiver) error {
	defer m.close()

	rx := make(chan received)
	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			f, err := r.Receive()
			if errors.Is(err, can.ErrTimeout) {
				if ctx.Err() != nil {
					return
				}
				continue
			}
			select {
			case rx <- received{f: f, err: err}:
				if err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	for {
		if ctx.Err() != nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case in := <-rx:
			if in.err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("monitor: receive: %w", in.err)
			}
			if err := m.Handle(in.f); err != nil {
				return err
			}
		}
	}
}

func (m *Monitor) close() {
	if m.docs > 0 {
		_ = m.enc.Close()
	}
}
