package pipeline

import (
	"log/slog"
	"time"

	"i4.energy/across/tbsim/device"
	"i4.energy/across/tbsim/proto"
	"i4.energy/across/tbsim/transport"
)

const (
	// QueueSize bounds every queue between two actors. A full queue stalls
	// the sender.
	QueueSize = 10

	// TickInterval is the granularity of time driven device behaviour.
	TickInterval = 100 * time.Millisecond

	// ReadSize is the size of a single transport read.
	ReadSize = proto.DefaultFrameSize
)

// Config describes a Pipeline.
type Config struct {
	listener     transport.Listener
	engine       *device.Engine
	snapshots    chan<- device.State
	tickInterval time.Duration
	frameSize    int
	queueSize    int
	logger       *slog.Logger
}

func (c *Config) validate() error {
	if c.listener == nil {
		return ErrNoListener
	}
	if c.engine == nil {
		return ErrNoEngine
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.tickInterval <= 0 {
		c.tickInterval = TickInterval
	}
	if c.frameSize <= 0 {
		c.frameSize = proto.DefaultFrameSize
	}
	if c.queueSize <= 0 {
		c.queueSize = QueueSize
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
}

// ConfigBuilder assembles a Config.
type ConfigBuilder struct {
	config Config
}

// NewConfigBuilder returns a builder with no listener and no engine.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{}
}

// WithListener sets where clients are accepted. Required.
func (b *ConfigBuilder) WithListener(l transport.Listener) *ConfigBuilder {
	b.config.listener = l
	return b
}

// WithEngine sets the device served to clients. Required.
func (b *ConfigBuilder) WithEngine(e *device.Engine) *ConfigBuilder {
	b.config.engine = e
	return b
}

// WithSnapshots sets the display queue receiving device snapshots.
// Snapshots are dropped while the queue is full.
func (b *ConfigBuilder) WithSnapshots(ch chan<- device.State) *ConfigBuilder {
	b.config.snapshots = ch
	return b
}

// WithTickInterval overrides TickInterval.
func (b *ConfigBuilder) WithTickInterval(d time.Duration) *ConfigBuilder {
	b.config.tickInterval = d
	return b
}

// WithFrameSize overrides the line buffer capacity.
func (b *ConfigBuilder) WithFrameSize(n int) *ConfigBuilder {
	b.config.frameSize = n
	return b
}

// WithQueueSize overrides QueueSize.
func (b *ConfigBuilder) WithQueueSize(n int) *ConfigBuilder {
	b.config.queueSize = n
	return b
}

// WithLogger sets the logger shared by all actors.
func (b *ConfigBuilder) WithLogger(l *slog.Logger) *ConfigBuilder {
	b.config.logger = l
	return b
}

// Build validates the configuration and fills in defaults.
func (b *ConfigBuilder) Build() (Config, error) {
	c := b.config
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	c.setDefaults()
	return c, nil
}
