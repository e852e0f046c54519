package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"i4.energy/across/tbsim/proto"
)

// RunProtocol is the actor owning the line buffer. It frames inbound chunks
// into lines, forwards decoded requests to the engine and encodes responses
// for the transport. Lines that fail to decode are answered directly with
// an ERR response.
//
// Responses leave in the order their requests arrived: an ERR answer waits
// until every request ahead of it has been answered by the engine.
func RunProtocol(
	ctx context.Context,
	frameSize int,
	inbound <-chan Chunk,
	outbound chan<- []byte,
	requests chan<- proto.Request,
	responses <-chan proto.Response,
	logger *slog.Logger,
) error {
	p := &protocol{
		framer:    proto.NewFramer(frameSize),
		inbound:   inbound,
		outbound:  outbound,
		requests:  requests,
		responses: responses,
		logger:    logger,
	}
	return p.run(ctx)
}

type protocol struct {
	framer    *proto.Framer
	inbound   <-chan Chunk
	outbound  chan<- []byte
	requests  chan<- proto.Request
	responses <-chan proto.Response
	logger    *slog.Logger

	// inflight counts requests handed to the engine and not yet answered.
	inflight int
}

func (p *protocol) run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case c, ok := <-p.inbound:
			if !ok {
				p.logger.Info("Inbound queue closed, exiting")
				return ErrQueueClosed
			}
			if c.EOF {
				p.logger.Info("Client disconnected, clearing buffer", "discarded", p.framer.Buffered())
				p.framer.Reset()
				continue
			}

			p.logger.Debug("Received bytes to be parsed", "len", len(c.Data), "data", string(c.Data))
			for _, line := range p.framer.Feed(c.Data) {
				if err := p.handleLine(ctx, line); err != nil {
					return err
				}
			}

		case r, ok := <-p.responses:
			if !ok {
				p.logger.Info("Response queue closed, exiting")
				return ErrQueueClosed
			}
			if err := p.forward(ctx, r); err != nil {
				return err
			}
		}
	}
}

func (p *protocol) handleLine(ctx context.Context, line []byte) error {
	req, err := proto.Decode(line)
	if err != nil {
		var perr proto.ProtocolError
		if !errors.As(err, &perr) {
			perr = proto.BadSyntax
		}
		p.logger.Debug("Rejected line", "line", string(line), "error", perr.Code())

		for p.inflight > 0 {
			if err := p.awaitResponse(ctx); err != nil {
				return err
			}
		}
		return send(ctx, p.outbound, proto.Encode(proto.ErrorResponse{Err: perr}))
	}

	p.logger.Debug("Decoded request", "request", req.String())

	// Keep draining responses while the engine queue is full, otherwise
	// both actors could wait on each other.
	for {
		select {
		case p.requests <- req:
			p.inflight++
			return nil
		case r, ok := <-p.responses:
			if !ok {
				return ErrQueueClosed
			}
			if err := p.forward(ctx, r); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (p *protocol) awaitResponse(ctx context.Context) error {
	select {
	case r, ok := <-p.responses:
		if !ok {
			return ErrQueueClosed
		}
		return p.forward(ctx, r)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *protocol) forward(ctx context.Context, r proto.Response) error {
	if p.inflight > 0 {
		p.inflight--
	}
	b := proto.Encode(r)
	p.logger.Debug("Sending response", "data", string(b))
	return send(ctx, p.outbound, b)
}
