package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"golang.org/x/sync/errgroup"

	"i4.energy/across/tbsim/device"
	"i4.energy/across/tbsim/display"
	"i4.energy/across/tbsim/pipeline"
	"i4.energy/across/tbsim/transport"
)

func main() {
	flag.String("listen-address", transport.DefaultTCPAddress, "TCP address clients connect to")
	flag.String("serial-port", "", "Serve on this serial port instead of TCP")
	flag.Int("baud-rate", 115200, "Baud rate for serial communication")
	flag.String("http-address", "", "Bind address for the HTTP status server (empty disables)")
	flag.String("mqtt-broker", "", "MQTT broker to publish device state to (empty disables)")
	flag.String("mqtt-topic", display.DefaultTopic, "MQTT topic for device state")
	flag.String("mqtt-client-id", display.DefaultClientID, "MQTT client id")
	flag.Bool("status-line", true, "Show the device state on stdout")
	flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Duration("tick-interval", pipeline.TickInterval, "Granularity of time driven device behaviour")
	flag.Parse()

	config, err := LoadConfig(WithDefaults(), WithEnv(), WithFlags(flag.CommandLine))
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logLevel := slog.LevelInfo
	switch config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, config, logger); err != nil {
		logger.Error("Test box emulator failed", "error", err)
		stop()
		os.Exit(1)
	}
	logger.Info("Test box emulator stopped")
}

func newListener(ctx context.Context, config *Config) (transport.Listener, error) {
	if config.SerialPort != "" {
		mode := transport.DefaultMode
		mode.BaudRate = config.BaudRate
		return &transport.SerialListener{PortName: config.SerialPort, Mode: &mode}, nil
	}
	return transport.ListenTCP(ctx, config.ListenAddress)
}

func run(ctx context.Context, config *Config, logger *slog.Logger) error {
	listener, err := newListener(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}
	defer listener.Close()

	engine := device.NewEngine(device.WithLogger(logger.With("component", "device")))

	latest := display.NewLatest()
	sinks := []display.Sink{latest}

	if config.StatusLine {
		status := display.NewStatusLine(os.Stdout)
		defer status.Close()
		sinks = append(sinks, status)
	}

	if config.MQTTBroker != "" {
		client, err := display.DialMQTT(config.MQTTBroker, config.MQTTClientID, logger.With("component", "mqtt"))
		if err != nil {
			return fmt.Errorf("failed to connect to MQTT broker: %w", err)
		}
		publisher := display.NewMQTTPublisher(client, config.MQTTTopic)
		defer publisher.Close()
		sinks = append(sinks, publisher)
	}

	snapshots := make(chan device.State, pipeline.QueueSize)

	pipelineConfig, err := pipeline.NewConfigBuilder().
		WithListener(listener).
		WithEngine(engine).
		WithSnapshots(snapshots).
		WithTickInterval(config.TickInterval).
		WithLogger(logger).
		Build()
	if err != nil {
		return fmt.Errorf("failed to create pipeline config: %w", err)
	}

	p, err := pipeline.New(pipelineConfig)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	logger.Info("Starting test box emulator", "address", listener.Addr(), "identity", device.Identity)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return p.Run(ctx)
	})
	g.Go(func() error {
		return display.Run(ctx, snapshots, logger.With("component", "display"), sinks...)
	})

	if config.HTTPAddress != "" {
		httpServer := &http.Server{
			Addr: config.HTTPAddress,
			Handler: handlers.LoggingHandler(os.Stderr, &Server{
				Logger: logger.With("component", "server"),
				Latest: latest,
			}),
		}

		g.Go(func() error {
			logger.Info("Starting HTTP server", "address", httpServer.Addr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("HTTP server failed: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			logger.Info("Closing HTTP server")
			return httpServer.Shutdown(shutdownCtx)
		})
	}

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		logger.Info("Received shutdown signal")
		return nil
	}
	return err
}
