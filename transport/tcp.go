package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// DefaultTCPAddress is where the emulator listens unless configured
// otherwise.
const DefaultTCPAddress = "0.0.0.0:12345"

// TCPListener accepts emulator clients over TCP.
type TCPListener struct {
	ln *net.TCPListener
}

// ListenTCP binds a TCPListener to address.
func ListenTCP(ctx context.Context, address string) (*TCPListener, error) {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", address, err)
	}
	return &TCPListener{ln: ln.(*net.TCPListener)}, nil
}

// Accept waits for the next TCP client.
func (l *TCPListener) Accept(ctx context.Context) (Transport, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Unblock Accept when the context ends
	stop := context.AfterFunc(ctx, func() {
		l.ln.SetDeadline(time.Now())
	})
	defer stop()

	conn, err := l.ln.AcceptTCP()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, net.ErrClosed) {
			return nil, ErrListenerClosed
		}
		return nil, fmt.Errorf("accept: %w", err)
	}
	return conn, nil
}

// Addr returns the bound address, including the port actually chosen when
// listening on port 0.
func (l *TCPListener) Addr() string {
	return l.ln.Addr().String()
}

// Close stops listening.
func (l *TCPListener) Close() error {
	return l.ln.Close()
}
