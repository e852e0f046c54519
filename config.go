package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"i4.energy/across/tbsim/display"
	"i4.energy/across/tbsim/pipeline"
	"i4.energy/across/tbsim/transport"
)

// Config holds the application configuration
type Config struct {
	// ListenAddress is the TCP address clients connect to (e.g. "0.0.0.0:12345")
	ListenAddress string
	// SerialPort serves the emulator on a serial line instead of TCP when set (e.g. "/dev/pts/3")
	SerialPort string
	// BaudRate is the baud rate of the serial line (e.g. 115200)
	BaudRate int
	// HTTPAddress is the address of the status server, empty disables it (e.g. "127.0.0.1:8080")
	HTTPAddress string
	// MQTTBroker is the broker snapshots are published to, empty disables publishing (e.g. "tcp://localhost:1883")
	MQTTBroker string
	// MQTTTopic is the topic snapshots are published on
	MQTTTopic string
	// MQTTClientID identifies the emulator at the broker
	MQTTClientID string
	// StatusLine enables the terminal status line on stdout
	StatusLine bool
	// LogLevel sets the logging level (e.g. "debug", "info", "warn", "error")
	LogLevel string
	// TickInterval is the granularity of time driven device behaviour
	TickInterval time.Duration
}

// ConfigOption is a function that modifies a Config
type ConfigOption func(*Config) error

// LoadConfig creates a new config by applying the given options in order
func LoadConfig(opts ...ConfigOption) (*Config, error) {
	config := &Config{}

	for _, opt := range opts {
		if err := opt(config); err != nil {
			return nil, err
		}
	}

	return config, nil
}

// WithDefaults applies default configuration values
func WithDefaults() ConfigOption {
	return func(c *Config) error {
		c.ListenAddress = transport.DefaultTCPAddress
		c.BaudRate = transport.DefaultMode.BaudRate
		c.MQTTTopic = display.DefaultTopic
		c.MQTTClientID = display.DefaultClientID
		c.StatusLine = true
		c.LogLevel = "info"
		c.TickInterval = pipeline.TickInterval
		return nil
	}
}

// WithEnv loads configuration from environment variables
func WithEnv() ConfigOption {
	return func(c *Config) error {
		if addr := os.Getenv("LISTEN_ADDRESS"); addr != "" {
			c.ListenAddress = addr
		}

		if serial := os.Getenv("SERIAL_PORT"); serial != "" {
			c.SerialPort = serial
		}

		if baud := os.Getenv("BAUD_RATE"); baud != "" {
			b, err := strconv.Atoi(baud)
			if err != nil {
				return fmt.Errorf("invalid BAUD_RATE %q: %w", baud, err)
			}
			c.BaudRate = b
		}

		if addr := os.Getenv("HTTP_ADDRESS"); addr != "" {
			c.HTTPAddress = addr
		}

		if broker := os.Getenv("MQTT_BROKER"); broker != "" {
			c.MQTTBroker = broker
		}

		if topic := os.Getenv("MQTT_TOPIC"); topic != "" {
			c.MQTTTopic = topic
		}

		if id := os.Getenv("MQTT_CLIENT_ID"); id != "" {
			c.MQTTClientID = id
		}

		if status := os.Getenv("STATUS_LINE"); status != "" {
			s, err := strconv.ParseBool(status)
			if err != nil {
				return fmt.Errorf("invalid STATUS_LINE %q: %w", status, err)
			}
			c.StatusLine = s
		}

		if level := os.Getenv("LOG_LEVEL"); level != "" {
			c.LogLevel = level
		}

		if tick := os.Getenv("TICK_INTERVAL"); tick != "" {
			d, err := time.ParseDuration(tick)
			if err != nil {
				return fmt.Errorf("invalid TICK_INTERVAL %q: %w", tick, err)
			}
			c.TickInterval = d
		}

		return nil
	}
}

// WithFlags loads configuration from command-line flags
func WithFlags(fSet *flag.FlagSet) ConfigOption {
	return func(c *Config) error {
		var err error
		fSet.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "listen-address":
				c.ListenAddress = f.Value.String()
			case "serial-port":
				c.SerialPort = f.Value.String()
			case "baud-rate":
				if b, perr := strconv.Atoi(f.Value.String()); perr == nil {
					c.BaudRate = b
				}
			case "http-address":
				c.HTTPAddress = f.Value.String()
			case "mqtt-broker":
				c.MQTTBroker = f.Value.String()
			case "mqtt-topic":
				c.MQTTTopic = f.Value.String()
			case "mqtt-client-id":
				c.MQTTClientID = f.Value.String()
			case "status-line":
				if s, perr := strconv.ParseBool(f.Value.String()); perr == nil {
					c.StatusLine = s
				}
			case "log-level":
				c.LogLevel = f.Value.String()
			case "tick-interval":
				d, perr := time.ParseDuration(f.Value.String())
				if perr != nil {
					err = fmt.Errorf("invalid -tick-interval %q: %w", f.Value.String(), perr)
					return
				}
				c.TickInterval = d
			}
		})
		return err
	}
}
