package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"i4.energy/across/tbsim/transport"
)

// AcceptRetryDelay is the pause after a failed Accept, e.g. while a serial
// port is not present yet.
var AcceptRetryDelay = time.Second

// Serve is the actor owning the client connection. It serves one client at
// a time: every read is forwarded as a Chunk, the end of the stream as an
// EOF Chunk, and outbound buffers are written verbatim to the current
// client. Buffers arriving while no client is connected are dropped.
//
// Serve returns when ctx ends, the listener is closed or the outbound queue
// is closed. Failures of a single connection only end that connection.
func Serve(
	ctx context.Context,
	listener transport.Listener,
	inbound chan<- Chunk,
	outbound <-chan []byte,
	logger *slog.Logger,
) error {
	s := &server{
		listener: listener,
		inbound:  inbound,
		outbound: outbound,
		logger:   logger,
	}
	return s.run(ctx)
}

type server struct {
	listener transport.Listener
	inbound  chan<- Chunk
	outbound <-chan []byte
	logger   *slog.Logger
}

type accepted struct {
	conn transport.Transport
	err  error
}

func (s *server) run(ctx context.Context) error {
	s.logger.Info("Listening", "address", s.listener.Addr())

	for {
		conn, err := s.accept(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, transport.ErrListenerClosed) || errors.Is(err, ErrQueueClosed) {
				return err
			}
			s.logger.Error("Failed to accept client", "error", err)
			if err := s.pause(ctx, AcceptRetryDelay); err != nil {
				return err
			}
			continue
		}

		s.logger.Info("New connection", "address", s.listener.Addr())
		if err := s.serveConn(ctx, conn); err != nil {
			return err
		}
	}
}

// accept waits for the next client while discarding outbound buffers.
func (s *server) accept(ctx context.Context) (transport.Transport, error) {
	result := make(chan accepted, 1)
	go func() {
		conn, err := s.listener.Accept(ctx)
		result <- accepted{conn: conn, err: err}
	}()

	for {
		select {
		case a := <-result:
			return a.conn, a.err
		case b, ok := <-s.outbound:
			if !ok {
				go func() {
					if a := <-result; a.conn != nil {
						a.conn.Close()
					}
				}()
				return nil, ErrQueueClosed
			}
			s.logger.Warn("Dropping response, no client connected", "len", len(b))
		}
	}
}

// pause waits for d while discarding outbound buffers.
func (s *server) pause(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return nil
		case b, ok := <-s.outbound:
			if !ok {
				return ErrQueueClosed
			}
			s.logger.Warn("Dropping response, no client connected", "len", len(b))
		}
	}
}

// serveConn pumps one client until its stream ends. The reader goroutine is
// the only sender on inbound, so the EOF marker always follows every chunk
// read from the connection. The connection is closed on return.
func (s *server) serveConn(ctx context.Context, conn transport.Transport) error {
	done := make(chan struct{})
	defer close(done)

	closed := false
	closeConn := func() {
		if closed {
			return
		}
		closed = true
		if err := conn.Close(); err != nil {
			s.logger.Debug("Failed to close connection", "error", err)
		}
	}
	defer closeConn()

	readErr := make(chan error, 1)
	go s.readLoop(conn, done, readErr)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-readErr:
			switch {
			case closed:
				s.logger.Debug("Reader stopped", "error", err)
			case errors.Is(err, io.EOF):
				s.logger.Info("Client closed the connection")
			default:
				s.logger.Warn("Read failed, closing the connection", "error", err)
			}
			return nil

		case b, ok := <-s.outbound:
			if !ok {
				s.logger.Info("Outbound queue closed, exiting")
				return ErrQueueClosed
			}
			if closed {
				s.logger.Warn("Dropping response, client disconnected", "len", len(b))
				continue
			}
			if _, err := conn.Write(b); err != nil {
				// Closing fails the pending Read, the reader then ends the stream
				s.logger.Warn("Write failed, closing the connection", "error", err)
				closeConn()
			}
		}
	}
}

// readLoop forwards everything read from conn to inbound, followed by the
// EOF marker once Read fails. It reports the read error on readErr.
func (s *server) readLoop(conn transport.Transport, done <-chan struct{}, readErr chan<- error) {
	buf := make([]byte, ReadSize)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			if !s.forward(done, Chunk{Data: data}) {
				return
			}
		}
		if err != nil {
			if s.forward(done, Chunk{EOF: true}) {
				readErr <- err
			}
			return
		}
	}
}

// forward sends c to inbound unless the connection was abandoned.
func (s *server) forward(done <-chan struct{}, c Chunk) bool {
	select {
	case <-done:
		return false
	default:
	}
	select {
	case s.inbound <- c:
		return true
	case <-done:
		return false
	}
}
