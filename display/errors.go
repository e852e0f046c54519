package display

import "errors"

var (
	// ErrNoBroker is returned by DialMQTT when no broker URL is configured.
	ErrNoBroker = errors.New("display: no MQTT broker configured")

	// ErrPublishTimeout is returned when the broker does not acknowledge a
	// snapshot in time.
	ErrPublishTimeout = errors.New("display: publish timed out")
)
