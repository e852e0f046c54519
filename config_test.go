package main

import (
	"flag"
	"testing"
	"time"
)

func newFlagSet(args ...string) *flag.FlagSet {
	fs := flag.NewFlagSet("tbsim", flag.ContinueOnError)
	fs.String("listen-address", "", "")
	fs.String("serial-port", "", "")
	fs.Int("baud-rate", 0, "")
	fs.String("http-address", "", "")
	fs.String("mqtt-broker", "", "")
	fs.String("mqtt-topic", "", "")
	fs.String("mqtt-client-id", "", "")
	fs.Bool("status-line", true, "")
	fs.String("log-level", "", "")
	fs.Duration("tick-interval", 0, "")
	fs.Parse(args)
	return fs
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		args     []string
		expected Config
		wantErr  bool
	}{
		{
			name: "Defaults",
			expected: Config{
				ListenAddress: "0.0.0.0:12345",
				BaudRate:      115200,
				MQTTTopic:     "testbox/state",
				MQTTClientID:  "tbsim",
				StatusLine:    true,
				LogLevel:      "info",
				TickInterval:  100 * time.Millisecond,
			},
		},
		{
			name: "Environment overrides defaults",
			env: map[string]string{
				"LISTEN_ADDRESS": "127.0.0.1:4000",
				"SERIAL_PORT":    "/dev/pts/3",
				"BAUD_RATE":      "9600",
				"HTTP_ADDRESS":   ":8080",
				"MQTT_BROKER":    "tcp://broker:1883",
				"MQTT_TOPIC":     "lab/box",
				"MQTT_CLIENT_ID": "box-1",
				"STATUS_LINE":    "false",
				"LOG_LEVEL":      "debug",
				"TICK_INTERVAL":  "20ms",
			},
			expected: Config{
				ListenAddress: "127.0.0.1:4000",
				SerialPort:    "/dev/pts/3",
				BaudRate:      9600,
				HTTPAddress:   ":8080",
				MQTTBroker:    "tcp://broker:1883",
				MQTTTopic:     "lab/box",
				MQTTClientID:  "box-1",
				StatusLine:    false,
				LogLevel:      "debug",
				TickInterval:  20 * time.Millisecond,
			},
		},
		{
			name: "Flags override environment",
			env:  map[string]string{"LISTEN_ADDRESS": "127.0.0.1:4000", "LOG_LEVEL": "debug"},
			args: []string{"-listen-address", ":5000", "-status-line=false", "-tick-interval", "1s", "-baud-rate", "57600"},
			expected: Config{
				ListenAddress: ":5000",
				BaudRate:      57600,
				MQTTTopic:     "testbox/state",
				MQTTClientID:  "tbsim",
				StatusLine:    false,
				LogLevel:      "debug",
				TickInterval:  time.Second,
			},
		},
		{
			name:    "Invalid tick interval",
			env:     map[string]string{"TICK_INTERVAL": "often"},
			wantErr: true,
		},
		{
			name:    "Invalid baud rate",
			env:     map[string]string{"BAUD_RATE": "fast"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{
				"LISTEN_ADDRESS", "SERIAL_PORT", "BAUD_RATE", "HTTP_ADDRESS", "MQTT_BROKER",
				"MQTT_TOPIC", "MQTT_CLIENT_ID", "STATUS_LINE", "LOG_LEVEL", "TICK_INTERVAL",
			} {
				t.Setenv(key, tt.env[key])
			}

			config, err := LoadConfig(WithDefaults(), WithEnv(), WithFlags(newFlagSet(tt.args...)))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if *config != tt.expected {
				t.Errorf("LoadConfig() = %+v, want %+v", *config, tt.expected)
			}
		})
	}
}
