package transport

import "errors"

var (
	// ErrListenerClosed is returned by Accept once the Listener was closed.
	ErrListenerClosed = errors.New("transport: listener closed")

	// ErrNoPort is returned when a SerialListener has no port name.
	//
	// This indicates a configuration error.
	ErrNoPort = errors.New("transport: serial port name is required")

	// ErrNilContext is returned when Accept is called with a nil context.
	ErrNilContext = errors.New("transport: context is nil")
)
