package display

import (
	"fmt"
	"io"
	"sync"

	"i4.energy/across/tbsim/device"
)

// StatusLine redraws a single terminal line with the device state.
type StatusLine struct {
	mu sync.Mutex
	w  io.Writer
}

// NewStatusLine returns a StatusLine drawing on w.
func NewStatusLine(w io.Writer) *StatusLine {
	return &StatusLine{w: w}
}

// Format renders s the way the status line shows it.
func Format(s device.State) string {
	return fmt.Sprintf("RED: %4d   YLW: %4d   GRN: %4d  Servo: %3d  TEMP: %2.2f  HUM: %2.2f  SlfTst:%3d%%",
		s.RedLed, s.YellowLed, s.GreenLed, s.Servo,
		s.Sensor.Temperature, s.Sensor.Humidity, s.SelfTest.Progress)
}

// Show overwrites the current line with s.
func (l *StatusLine) Show(s device.State) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Return to column zero and clear the line
	_, err := io.WriteString(l.w, "\r\x1b[2K"+Format(s))
	return err
}

// Close moves the cursor past the status line.
func (l *StatusLine) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, err := io.WriteString(l.w, "\n")
	return err
}
