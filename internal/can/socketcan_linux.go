// internal/can/socketcan_linux.go

//go:build linux

package can

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// ReceiveTimeout bounds each blocking read so callers can observe
// cancellation on a quiet bus.
const ReceiveTimeout = 250 * time.Millisecond

// Socket is a raw SocketCAN socket bound to one interface.
// Send and Receive are each owned by a single goroutine. Close may be
// called from any goroutine.
type Socket struct {
	fd    int
	iface string

	closeOnce sync.Once
	closeErr  error
}

// Open creates a CAN_RAW socket and binds it to iface.
// One attempt, no retries: failure here is fatal to the caller.
func Open(iface string) (*Socket, error) {
	ifi, err := net.InterfaceByName(iface)
	if err != nil {
		return nil, fmt.Errorf("can: resolve interface %q: %w", iface, err)
	}

	fd, err := unix.Socket(unix.AF_CAN, unix.SOCK_RAW, unix.CAN_RAW)
	if err != nil {
		return nil, fmt.Errorf("can: socket: %w", err)
	}

	if err := unix.Bind(fd, &unix.SockaddrCAN{Ifindex: ifi.Index}); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("can: bind %q: %w", iface, err)
	}

	tv := unix.NsecToTimeval(ReceiveTimeout.Nanoseconds())
	if err := unix.SetsockoptTimeval(fd, unix.SOL_SOCKET, unix.SO_RCVTIMEO, &tv); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("can: set receive timeout: %w", err)
	}

	return &Socket{fd: fd, iface: iface}, nil
}

// Interface returns the bound interface name.
func (s *Socket) Interface() string { return s.iface }

// Send writes exactly one frame. Short writes and OS errors are reported, never retried.
func (s *Socket) Send(f Frame) error {
	if err := f.Validate(); err != nil {
		return err
	}

	b := marshalFrame(f)
	n, err := unix.Write(s.fd, b[:])
	if err != nil {
		return fmt.Errorf("can: write %s: %w", s.iface, err)
	}
	if n != wireFrameSize {
		return fmt.Errorf("%w: %d of %d bytes", ErrShortWrite, n, wireFrameSize)
	}
	return nil
}

// Receive blocks until an extended data frame arrives or ReceiveTimeout
// passes, in which case it returns ErrTimeout.
func (s *Socket) Receive() (Frame, error) {
	var b [wireFrameSize]byte
	for {
		n, err := unix.Read(s.fd, b[:])
		if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR) {
			return Frame{}, ErrTimeout
		}
		if err != nil {
			return Frame{}, fmt.Errorf("can: read %s: %w", s.iface, err)
		}
		f, ok, err := unmarshalFrame(b[:n])
		if err != nil {
			return Frame{}, err
		}
		if ok {
			return f, nil
		}
	}
}

// Close releases the socket. Later calls return the first result.
func (s *Socket) Close() error {
	if s == nil {
		return nil
	}
	s.closeOnce.Do(func() {
		s.closeErr = unix.Close(s.fd)
	})
	return s.closeErr
}
