package pipeline

import (
	"context"
	"log/slog"
	"time"

	"i4.energy/across/tbsim/device"
	"i4.energy/across/tbsim/proto"
)

// RunEngine is the actor owning the device. It alternates between ticks
// every interval and requests, running each to completion before taking the
// next event, and publishes a snapshot after every request and after every
// tick that changed the device. The first snapshot is published on start.
func RunEngine(
	ctx context.Context,
	engine *device.Engine,
	interval time.Duration,
	requests <-chan proto.Request,
	responses chan<- proto.Response,
	snapshots chan<- device.State,
	logger *slog.Logger,
) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	update := func() {
		if !publish(snapshots, engine.Snapshot()) && snapshots != nil {
			logger.Debug("Display queue full, dropping snapshot")
		}
	}
	update()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case now := <-ticker.C:
			if engine.Tick(now) {
				update()
			}

		case req, ok := <-requests:
			if !ok {
				logger.Info("Request queue closed, exiting")
				return ErrQueueClosed
			}

			resp := engine.Apply(req)
			logger.Debug("Applied request", "request", req.String(), "response", resp)

			if err := send(ctx, responses, resp); err != nil {
				return err
			}
			update()
		}
	}
}
