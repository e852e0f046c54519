package display

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"go.uber.org/mock/gomock"
	"i4.energy/across/tbsim/device"
)

var discard = slog.New(slog.DiscardHandler)

func TestRun(t *testing.T) {
	t.Run("Failing sink does not stop the others", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		first := device.State{Servo: 1}
		second := device.State{Servo: 2}

		shown := make(chan struct{})
		failing := NewMockSink(ctrl)
		healthy := NewMockSink(ctrl)
		gomock.InOrder(
			failing.EXPECT().Show(first).Return(errors.New("broker gone")),
			healthy.EXPECT().Show(first).DoAndReturn(func(device.State) error {
				close(shown)
				return nil
			}),
			failing.EXPECT().Show(second).Return(errors.New("broker gone")),
			healthy.EXPECT().Show(second).Return(nil),
		)

		snapshots := make(chan device.State)
		done := make(chan error, 1)
		go func() {
			done <- Run(context.Background(), snapshots, discard, failing, healthy)
		}()

		snapshots <- first
		<-shown
		snapshots <- second
		close(snapshots)

		select {
		case err := <-done:
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("Run did not return after the queue was closed")
		}
	})

	t.Run("Only the newest queued snapshot is shown", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		snapshots := make(chan device.State, 3)
		snapshots <- device.State{GreenLed: 1}
		snapshots <- device.State{GreenLed: 2}
		snapshots <- device.State{GreenLed: 3}
		close(snapshots)

		sink := NewMockSink(ctrl)
		sink.EXPECT().Show(device.State{GreenLed: 3}).Return(nil)

		if err := Run(context.Background(), snapshots, discard, sink); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("Stops with the context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := Run(ctx, make(chan device.State), discard)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got: %v", err)
		}
	})
}

func TestStatusLine(t *testing.T) {
	tests := []struct {
		name     string
		state    device.State
		expected string
	}{
		{
			name: "Power on",
			state: device.State{
				Servo:  90,
				Sensor: device.SensorState{Status: "OK", Temperature: 20, Humidity: 50},
			},
			expected: "RED:    0   YLW:    0   GRN:    0  Servo:  90  TEMP: 20.00  HUM: 50.00  SlfTst:  0%",
		},
		{
			name: "Self test running",
			state: device.State{
				RedLed:    1023,
				YellowLed: 0,
				GreenLed:  512,
				Servo:     180,
				Sensor:    device.SensorState{Status: "OK", Temperature: 27.456, Humidity: 31.004},
				SelfTest:  device.SelfTestState{Active: true, Progress: 60},
			},
			expected: "RED: 1023   YLW:    0   GRN:  512  Servo: 180  TEMP: 27.46  HUM: 31.00  SlfTst: 60%",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.state); got != tt.expected {
				t.Errorf("Format() = %q, want %q", got, tt.expected)
			}

			var buf bytes.Buffer
			l := NewStatusLine(&buf)
			if err := l.Show(tt.state); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := buf.String(); got != "\r\x1b[2K"+tt.expected {
				t.Errorf("Show() wrote %q", got)
			}
		})
	}
}
