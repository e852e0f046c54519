package display

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"i4.energy/across/tbsim/device"
)

// fakeToken is an mqtt.Token that completes immediately unless stuck.
type fakeToken struct {
	err   error
	stuck bool
}

func (t *fakeToken) Wait() bool { return !t.stuck }

func (t *fakeToken) WaitTimeout(time.Duration) bool { return !t.stuck }

func (t *fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	if !t.stuck {
		close(ch)
	}
	return ch
}

func (t *fakeToken) Error() error { return t.err }

type published struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

type fakePublisher struct {
	token        *fakeToken
	messages     []published
	disconnected bool
}

func (p *fakePublisher) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	p.messages = append(p.messages, published{topic, qos, retained, payload.([]byte)})
	return p.token
}

func (p *fakePublisher) Disconnect(uint) {
	p.disconnected = true
}

func TestMQTTPublisher(t *testing.T) {
	state := device.State{
		RedLed:   5,
		Servo:    90,
		Sensor:   device.SensorState{Status: "OK", Temperature: 21.5, Humidity: 48},
		SelfTest: device.SelfTestState{Active: true, Progress: 40},
	}

	tests := []struct {
		name    string
		token   *fakeToken
		wantErr error
	}{
		{name: "Published", token: &fakeToken{}},
		{name: "Broker error", token: &fakeToken{err: errors.New("not connected")}, wantErr: errors.New("not connected")},
		{name: "No acknowledgement", token: &fakeToken{stuck: true}, wantErr: ErrPublishTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakePublisher{token: tt.token}
			p := newMQTTPublisher(client, "")

			err := p.Show(state)
			switch {
			case tt.wantErr == nil && err != nil:
				t.Fatalf("unexpected error: %v", err)
			case tt.wantErr == ErrPublishTimeout && !errors.Is(err, ErrPublishTimeout):
				t.Fatalf("expected ErrPublishTimeout, got: %v", err)
			case tt.wantErr != nil && err == nil:
				t.Fatalf("expected error %v", tt.wantErr)
			}

			if len(client.messages) != 1 {
				t.Fatalf("expected one message, got %d", len(client.messages))
			}
			m := client.messages[0]
			if m.topic != DefaultTopic || m.qos != 0 || !m.retained {
				t.Errorf("unexpected message header %+v", m)
			}

			var got device.State
			if err := json.Unmarshal(m.payload, &got); err != nil {
				t.Fatalf("payload is not JSON: %v", err)
			}
			if got.RedLed != 5 || got.Sensor.Temperature != 21.5 || got.SelfTest.Progress != 40 {
				t.Errorf("unexpected payload %s", m.payload)
			}
		})
	}
}

func TestMQTTPublisherClose(t *testing.T) {
	client := &fakePublisher{token: &fakeToken{}}
	p := newMQTTPublisher(client, "lab/box1")

	if err := p.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !client.disconnected {
		t.Error("Close() did not disconnect the client")
	}
	if p.topic != "lab/box1" {
		t.Errorf("unexpected topic %q", p.topic)
	}
}

func TestDialMQTTWithoutBroker(t *testing.T) {
	if _, err := DialMQTT("", "", discard); !errors.Is(err, ErrNoBroker) {
		t.Errorf("expected ErrNoBroker, got: %v", err)
	}
}
