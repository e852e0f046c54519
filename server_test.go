package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"i4.energy/across/tbsim/device"
	"i4.energy/across/tbsim/display"
)

func newTestServer(t *testing.T) (*httptest.Server, *display.Latest) {
	t.Helper()
	latest := display.NewLatest()
	srv := httptest.NewServer(&Server{
		Logger: slog.New(slog.DiscardHandler),
		Latest: latest,
	})
	t.Cleanup(srv.Close)
	return srv, latest
}

func TestServerHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestServerState(t *testing.T) {
	srv, latest := newTestServer(t)

	t.Run("Unavailable before the first snapshot", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/state")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusServiceUnavailable {
			t.Errorf("expected 503, got %d", resp.StatusCode)
		}
	})

	latest.Show(device.State{RedLed: 1023, Servo: 45, Sensor: device.SensorState{Status: "OK", Temperature: 20, Humidity: 50}})

	t.Run("Returns the newest snapshot", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/state")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}

		var got device.State
		if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if got.RedLed != 1023 || got.Servo != 45 || got.Sensor.Status != "OK" {
			t.Errorf("unexpected state %+v", got)
		}
	})

	t.Run("Read only", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/state", "application/json", strings.NewReader(`{"servo":0}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", resp.StatusCode)
		}
	})
}

func TestServerWebSocket(t *testing.T) {
	srv, latest := newTestServer(t)
	latest.Show(device.State{Servo: 90})

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var got device.State
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("failed to read initial snapshot: %v", err)
	}
	if got.Servo != 90 {
		t.Errorf("unexpected initial snapshot %+v", got)
	}

	latest.Show(device.State{Servo: 180, SelfTest: device.SelfTestState{Active: true, Progress: 20}})
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("failed to read update: %v", err)
	}
	if got.Servo != 180 || got.SelfTest.Progress != 20 {
		t.Errorf("unexpected update %+v", got)
	}
}
