// internal/can/socketcan_other.go

//go:build !linux

package can

// Socket is unavailable outside Linux.
type Socket struct{}

func Open(iface string) (*Socket, error) { return nil, ErrUnsupported }

func (s *Socket) Interface() string       { return "" }
func (s *Socket) Send(f Frame) error      { return ErrUnsupported }
func (s *Socket) Receive() (Frame, error) { return Frame{}, ErrUnsupported }
func (s *Socket) Close() error            { return nil }
