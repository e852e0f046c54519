package transport

import (
	"io"
	"sync"
)

// TestTransport is a test helper that simulates a blocking client connection
// using channels. Reads block until data is queued with SendData (like a
// real socket would) and return io.EOF once the transport is closed. Every
// Write is forwarded to the channel returned by Written.
type TestTransport struct {
	mu       sync.Mutex
	readChan chan []byte
	written  chan []byte
	closed   bool

	// pending holds the part of a queued chunk a short Read left behind.
	pending []byte
}

// NewTestTransport creates a new test transport for testing.
// Exported for use in tests.
func NewTestTransport() *TestTransport {
	return &TestTransport{
		readChan: make(chan []byte, 10),
		written:  make(chan []byte, 100),
	}
}

func (t *TestTransport) Write(p []byte) (n int, err error) {
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return 0, io.ErrClosedPipe
	}

	b := make([]byte, len(p))
	copy(b, p)
	t.written <- b
	return len(p), nil
}

func (t *TestTransport) Read(p []byte) (n int, err error) {
	if len(t.pending) == 0 {
		data, ok := <-t.readChan
		if !ok {
			return 0, io.EOF
		}
		t.pending = data
	}
	n = copy(p, t.pending)
	t.pending = t.pending[n:]
	return n, nil
}

func (t *TestTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	close(t.readChan)
	return nil
}

// SendData queues data to be read by the transport.
// This simulates bytes arriving from the client.
func (t *TestTransport) SendData(data string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.closed {
		t.readChan <- []byte(data)
	}
}

// Written returns the channel receiving a copy of every Write.
func (t *TestTransport) Written() <-chan []byte {
	return t.written
}
