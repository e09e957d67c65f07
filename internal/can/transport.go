// internal/can/transport.go
package can

// Sender transmits frames. Implementations copy the frame and never retain it.
type Sender interface {
	Send(f Frame) error
}

// Receiver yields inbound frames. Receive blocks until a frame or an error.
// ErrTimeout means nothing arrived yet and the caller may try again.
type Receiver interface {
	Receive() (Frame, error)
}
