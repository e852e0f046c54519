package pipeline

import "errors"

var (
	// ErrNoListener is returned when a Pipeline is built without a Listener.
	ErrNoListener = errors.New("pipeline: no listener configured")

	// ErrNoEngine is returned when a Pipeline is built without an Engine.
	ErrNoEngine = errors.New("pipeline: no engine configured")

	// ErrQueueClosed is returned by an actor whose inbound queue was closed.
	ErrQueueClosed = errors.New("pipeline: queue closed")
)
