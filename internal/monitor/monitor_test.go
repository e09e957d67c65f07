// internal/monitor/monitor_test.go
package monitor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gopkg.in/yaml.v3"

	"github.com/tamzrod/canode/internal/can"
	"github.com/tamzrod/canode/internal/measure"
	"github.com/tamzrod/canode/internal/status"
	"github.com/tamzrod/canode/internal/uavcan"
)

type sliceReceiver struct {
	frames []can.Frame
}

func (r *sliceReceiver) Receive() (can.Frame, error) {
	if len(r.frames) == 0 {
		return can.Frame{}, io.EOF
	}
	f := r.frames[0]
	r.frames = r.frames[1:]
	return f, nil
}

// blockingReceiver never yields a frame, like a quiet bus without a read timeout.
type blockingReceiver struct {
	release chan struct{}
}

func (r *blockingReceiver) Receive() (can.Frame, error) {
	<-r.release
	return can.Frame{}, errors.New("socket closed")
}

// timeoutReceiver reports a read timeout on every call.
type timeoutReceiver struct{}

func (timeoutReceiver) Receive() (can.Frame, error) {
	time.Sleep(time.Millisecond)
	return can.Frame{}, can.ErrTimeout
}

func busFrames(t *testing.T, p uavcan.Profile) []can.Frame {
	t.Helper()

	layout, err := uavcan.LayoutFor(p)
	require.NoError(t, err)
	enc, err := uavcan.NewEncoder(layout, 42)
	require.NoError(t, err)

	m := measure.Encode(measure.Measurement{Mean: 12.5, Variance: 0.25})
	mf, err := enc.Broadcast(layout.Priority(uavcan.PriorityMedium), measure.DataTypeTrueAirspeed, m[:])
	require.NoError(t, err)

	hb, err := status.EncodeHeartbeat(p, status.Snapshot{
		UptimeSec:    17,
		Health:       status.DegradedHealth(p),
		Mode:         status.ModeOperational,
		VendorStatus: 0xBEEF,
	})
	require.NoError(t, err)
	hf, err := enc.Broadcast(layout.Priority(uavcan.PriorityLow), status.DataTypeNodeStatus, hb.Bytes())
	require.NoError(t, err)

	// unknown data type, dropped by the monitor
	xf, err := enc.Broadcast(layout.Priority(uavcan.PriorityLow), 100, []byte{1})
	require.NoError(t, err)

	return []can.Frame{mf, xf, hf}
}

func decodeAll(t *testing.T, out []byte) []Record {
	t.Helper()

	var recs []Record
	dec := yaml.NewDecoder(bytes.NewReader(out))
	for {
		var r Record
		err := dec.Decode(&r)
		if errors.Is(err, io.EOF) {
			return recs
		}
		require.NoError(t, err)
		recs = append(recs, r)
	}
}

func TestRun_PrintsDecodedRecords(t *testing.T) {
	for _, p := range []uavcan.Profile{uavcan.ProfileTail, uavcan.ProfileInline} {
		t.Run(p.String(), func(t *testing.T) {
			layout, err := uavcan.LayoutFor(p)
			require.NoError(t, err)

			var out bytes.Buffer
			mon := New(layout, &out, zaptest.NewLogger(t))

			err = mon.Run(context.Background(), &sliceReceiver{frames: busFrames(t, p)})
			require.ErrorIs(t, err, io.EOF)

			recs := decodeAll(t, out.Bytes())
			require.Len(t, recs, 2)

			air := recs[0]
			assert.Equal(t, uint8(42), air.Source)
			assert.Equal(t, measure.DataTypeTrueAirspeed, air.DataType)
			assert.Equal(t, layout.Priority(uavcan.PriorityMedium), air.Priority)
			require.NotNil(t, air.Airspeed)
			assert.Equal(t, float32(12.5), air.Airspeed.Mean)
			require.NotNil(t, air.Airspeed.Variance)
			assert.Equal(t, float32(0.25), *air.Airspeed.Variance)
			assert.Nil(t, air.NodeStatus)

			ns := recs[1]
			assert.Equal(t, status.DataTypeNodeStatus, ns.DataType)
			assert.Equal(t, uint8(0), ns.TransferID)
			require.NotNil(t, ns.NodeStatus)
			assert.Equal(t, uint32(17), ns.NodeStatus.UptimeSec)
			assert.Equal(t, status.DegradedHealth(p).String(), ns.NodeStatus.Health)
			assert.Equal(t, "operational", ns.NodeStatus.Mode)
			assert.Equal(t, uint16(0xBEEF), ns.NodeStatus.VendorStatus)
		})
	}
}

func TestDecode_UnknownVarianceOmitted(t *testing.T) {
	layout, err := uavcan.LayoutFor(uavcan.ProfileTail)
	require.NoError(t, err)
	enc, err := uavcan.NewEncoder(layout, 5)
	require.NoError(t, err)

	m := measure.Encode(measure.Measurement{Mean: 3})
	f, err := enc.Broadcast(layout.Priority(uavcan.PriorityMedium), measure.DataTypeTrueAirspeed, m[:])
	require.NoError(t, err)

	rec, err := Decode(layout, f)
	require.NoError(t, err)
	require.NotNil(t, rec.Airspeed)
	assert.Nil(t, rec.Airspeed.Variance)

	var out bytes.Buffer
	require.NoError(t, New(layout, &out, nil).Handle(f))
	assert.NotContains(t, out.String(), "variance")
}

func TestDecode_UnknownDataType(t *testing.T) {
	layout, err := uavcan.LayoutFor(uavcan.ProfileTail)
	require.NoError(t, err)
	enc, err := uavcan.NewEncoder(layout, 5)
	require.NoError(t, err)

	f, err := enc.Broadcast(0, 999, nil)
	require.NoError(t, err)

	_, err = Decode(layout, f)
	assert.ErrorIs(t, err, ErrUnknownDataType)
}

func TestRun_StopsWhenCancelled(t *testing.T) {
	layout, err := uavcan.LayoutFor(uavcan.ProfileTail)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err = New(layout, &out, nil).Run(ctx, &sliceReceiver{frames: busFrames(t, uavcan.ProfileTail)})
	require.NoError(t, err)
	assert.Zero(t, out.Len())
}

func TestRun_CancelUnblocksQuietBus(t *testing.T) {
	layout, err := uavcan.LayoutFor(uavcan.ProfileTail)
	require.NoError(t, err)

	recv := &blockingReceiver{release: make(chan struct{})}
	defer close(recv.release)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		var out bytes.Buffer
		done <- New(layout, &out, zaptest.NewLogger(t)).Run(ctx, recv)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run still blocked in Receive after cancel")
	}
}

func TestRun_ReceiveTimeoutsKeepWaiting(t *testing.T) {
	layout, err := uavcan.LayoutFor(uavcan.ProfileTail)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	var out bytes.Buffer
	require.NoError(t, New(layout, &out, nil).Run(ctx, timeoutReceiver{}))
	assert.Zero(t, out.Len())
}
