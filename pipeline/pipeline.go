// Package pipeline connects a client transport, the line protocol and the
// device engine.
//
// Three actors run concurrently, each owning one piece of state and talking
// to the others only through bounded channels:
//
//	transport ──Chunk──▶ protocol ──Request──▶ engine ──State──▶ display
//	transport ◀─[]byte── protocol ◀─Response── engine
//
// The engine actor is the only goroutine touching the device. The protocol
// actor owns the line buffer. The transport actor owns the connection.
package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"i4.energy/across/tbsim/device"
	"i4.energy/across/tbsim/proto"
)

// Chunk is one transport read. A Chunk with EOF set marks the end of the
// current client's stream and carries no data.
type Chunk struct {
	Data []byte
	EOF  bool
}

// Pipeline runs the emulator for one device.
type Pipeline struct {
	config Config
}

// New returns a Pipeline for config.
func New(config Config) (*Pipeline, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	config.setDefaults()
	return &Pipeline{config: config}, nil
}

// Run starts all actors and blocks until ctx ends or one of them fails.
// Messages still queued at that point are abandoned. The engine must not be
// used by anything else while Run is active.
func (p *Pipeline) Run(ctx context.Context) error {
	c := p.config

	inbound := make(chan Chunk, c.queueSize)
	outbound := make(chan []byte, c.queueSize)
	requests := make(chan proto.Request, c.queueSize)
	responses := make(chan proto.Response, c.queueSize)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return Serve(ctx, c.listener, inbound, outbound, c.logger.With("component", "transport"))
	})
	g.Go(func() error {
		return RunProtocol(ctx, c.frameSize, inbound, outbound, requests, responses, c.logger.With("component", "protocol"))
	})
	g.Go(func() error {
		return RunEngine(ctx, c.engine, c.tickInterval, requests, responses, c.snapshots, c.logger.With("component", "engine"))
	})

	return g.Wait()
}

func send[T any](ctx context.Context, ch chan<- T, v T) error {
	select {
	case ch <- v:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// publish hands a snapshot to the display without ever waiting for it.
func publish(snapshots chan<- device.State, s device.State) bool {
	if snapshots == nil {
		return false
	}
	select {
	case snapshots <- s:
		return true
	default:
		return false
	}
}
