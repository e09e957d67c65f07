// internal/export/modbus/client.go

// Package modbus carries the status mirror to a Modbus TCP server.
package modbus

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goburrow/modbus"
)

// MaxWriteRegisters is the FC 16 quantity limit.
const MaxWriteRegisters = 123

var ErrRegisterCount = errors.New("export modbus: register count out of range")

type Config struct {
	Endpoint string
	// Timeout bounds each request. The node calls the mirror inside its
	// publish loop, so this is also the longest a tick can stall on it.
	Timeout time.Duration
}

// MirrorClient owns the TCP connection to the mirror server.
// The unit id lives on the shared handler, so requests are serialized.
type MirrorClient struct {
	mu      sync.Mutex
	handler *modbus.TCPClientHandler
	client  modbus.Client
}

// Dial connects once; later requests reuse the handler's connection.
func Dial(cfg Config) (*MirrorClient, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("export modbus: endpoint required")
	}

	h := modbus.NewTCPClientHandler(cfg.Endpoint)
	h.Timeout = cfg.Timeout

	if err := h.Connect(); err != nil {
		return nil, fmt.Errorf("export modbus: connect %s: %w", cfg.Endpoint, err)
	}

	return &MirrorClient{handler: h, client: modbus.NewClient(h)}, nil
}

func (c *MirrorClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handler.Close()
}

// WriteRegisters stores regs as holding registers starting at addr.
func (c *MirrorClient) WriteRegisters(unitID uint8, addr uint16, regs []uint16) error {
	payload, err := registerBytes(regs)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.handler.SlaveId = unitID
	if _, err := c.client.WriteMultipleRegisters(addr, uint16(len(regs)), payload); err != nil {
		return fmt.Errorf("export modbus: write unit=%d addr=%d qty=%d: %w", unitID, addr, len(regs), err)
	}
	return nil
}

// registerBytes lays registers out high byte first, as Modbus does.
func registerBytes(regs []uint16) ([]byte, error) {
	if len(regs) == 0 || len(regs) > MaxWriteRegisters {
		return nil, fmt.Errorf("%w: %d", ErrRegisterCount, len(regs))
	}
	out := make([]byte, 2*len(regs))
	for i, r := range regs {
		binary.BigEndian.PutUint16(out[2*i:], r)
	}
	return out, nil
}
