// Package display presents device snapshots to the outside world.
package display

//go:generate go tool mockgen -source=sink.go -destination=mock_sink.go -package=display

import (
	"context"
	"log/slog"

	"i4.energy/across/tbsim/device"
)

// Sink consumes device snapshots.
type Sink interface {
	Show(s device.State) error
}

// Run hands every snapshot received on snapshots to all sinks until ctx
// ends or snapshots is closed. When snapshots pile up only the newest is
// shown. A failing sink is logged and does not stop the others.
func Run(ctx context.Context, snapshots <-chan device.State, logger *slog.Logger, sinks ...Sink) error {
	for {
		var s device.State
		select {
		case <-ctx.Done():
			return ctx.Err()
		case v, ok := <-snapshots:
			if !ok {
				logger.Info("Snapshot queue closed, exiting")
				return nil
			}
			s = v
		}

	latest:
		for {
			select {
			case v, ok := <-snapshots:
				if !ok {
					break latest
				}
				s = v
			default:
				break latest
			}
		}

		for _, sink := range sinks {
			if err := sink.Show(s); err != nil {
				logger.Warn("Display sink failed", "sink", sinkName(sink), "error", err)
			}
		}
	}
}

func sinkName(s Sink) string {
	switch s.(type) {
	case *StatusLine:
		return "status"
	case *MQTTPublisher:
		return "mqtt"
	case *Latest:
		return "latest"
	}
	return "custom"
}
