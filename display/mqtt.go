package display

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"i4.energy/across/tbsim/device"
)

const (
	// DefaultTopic is where snapshots are published unless configured.
	DefaultTopic = "testbox/state"

	// DefaultClientID identifies the emulator at the broker.
	DefaultClientID = "tbsim"

	// PublishTimeout bounds the wait for a broker acknowledgement.
	PublishTimeout = 2 * time.Second

	disconnectQuiesce = 250 // milliseconds
)

// publisher is the part of mqtt.Client used to publish snapshots.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// MQTTPublisher publishes every snapshot as JSON to a topic.
type MQTTPublisher struct {
	client  publisher
	topic   string
	timeout time.Duration
}

// NewMQTTPublisher returns a sink publishing on client. An empty topic
// selects DefaultTopic.
func NewMQTTPublisher(client mqtt.Client, topic string) *MQTTPublisher {
	return newMQTTPublisher(client, topic)
}

func newMQTTPublisher(client publisher, topic string) *MQTTPublisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &MQTTPublisher{
		client:  client,
		topic:   topic,
		timeout: PublishTimeout,
	}
}

// Show publishes s. Snapshots are retained so late subscribers immediately
// see the current state.
func (p *MQTTPublisher) Show(s device.State) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	token := p.client.Publish(p.topic, 0, true, payload)
	if !token.WaitTimeout(p.timeout) {
		return ErrPublishTimeout
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", p.topic, err)
	}
	return nil
}

// Close disconnects from the broker.
func (p *MQTTPublisher) Close() error {
	p.client.Disconnect(disconnectQuiesce)
	return nil
}

// DialMQTT connects to broker. The client reconnects on its own after the
// connection is lost.
func DialMQTT(broker, clientID string, logger *slog.Logger) (mqtt.Client, error) {
	if broker == "" {
		return nil, ErrNoBroker
	}
	if clientID == "" {
		clientID = DefaultClientID
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(10 * time.Second)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Warn("MQTT connection lost", "error", err)
	})
	opts.SetOnConnectHandler(func(_ mqtt.Client) {
		logger.Info("MQTT connected", "broker", broker)
	})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", broker, err)
	}
	return client, nil
}
