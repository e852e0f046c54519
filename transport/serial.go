package transport

import (
	"context"
	"fmt"
	"sync"

	"go.bug.st/serial"
)

// DefaultMode is used when a SerialListener has no Mode: 115200 8N1.
var DefaultMode = serial.Mode{
	BaudRate: 115200,
	Parity:   serial.NoParity,
	DataBits: 8,
	StopBits: serial.OneStopBit,
}

// SerialListener serves the emulator on a serial line, for example one end
// of a virtual null-modem pair. The line has no notion of connections: each
// Accept opens the port and hands it out as the next client, so after the
// previous client was closed the port is simply reopened.
type SerialListener struct {
	// PortName is the device path, e.g. "/dev/ttyUSB0" or "/dev/pts/3".
	PortName string
	// Mode is the line configuration; nil selects DefaultMode.
	Mode *serial.Mode

	mu     sync.Mutex
	closed bool
}

// Accept opens the serial port.
func (l *SerialListener) Accept(ctx context.Context) (Transport, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l.PortName == "" {
		return nil, ErrNoPort
	}

	l.mu.Lock()
	closed := l.closed
	l.mu.Unlock()
	if closed {
		return nil, ErrListenerClosed
	}

	mode := l.Mode
	if mode == nil {
		m := DefaultMode
		mode = &m
	}

	port, err := serial.Open(l.PortName, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", l.PortName, err)
	}
	return port, nil
}

// Addr returns the port name.
func (l *SerialListener) Addr() string {
	return l.PortName
}

// Close makes further Accept calls fail. An opened port is owned by the
// caller of Accept and is not affected.
func (l *SerialListener) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}
