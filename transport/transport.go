package transport

//go:generate go tool mockgen -source=transport.go -destination=mock_transport.go -package=transport

import (
	"context"
	"io"
)

// Transport represents an established, bidirectional byte stream to one
// client of the emulator.
//
// Typical implementations include accepted TCP connections, an opened serial
// port or in-memory fakes used for testing.
type Transport interface {
	io.ReadWriteCloser
}

// Listener hands out client Transports one at a time.
//
// Listener abstracts where clients come from (a TCP port, a serial line, a
// test double). Accept blocks until a client is available, the context is
// done or the listener is closed.
type Listener interface {
	// Accept waits for the next client. It returns ctx.Err() when the
	// context ends first and ErrListenerClosed after Close.
	Accept(ctx context.Context) (Transport, error)
	// Addr describes where the listener accepts clients.
	Addr() string
	// Close stops accepting clients.
	Close() error
}
