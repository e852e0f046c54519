package device

import "time"

// State is an immutable point-in-time copy of the whole device.
type State struct {
	Time      time.Time     `json:"time"`
	RedLed    int64         `json:"redLed"`
	YellowLed int64         `json:"yellowLed"`
	GreenLed  int64         `json:"greenLed"`
	Servo     int64         `json:"servo"`
	Sensor    SensorState   `json:"sensor"`
	SelfTest  SelfTestState `json:"selfTest"`
}

// SensorState is a sensor reading.
type SensorState struct {
	Status      string  `json:"status"`
	Temperature float64 `json:"temperatureC"`
	Humidity    float64 `json:"humidityPct"`
}

// SelfTestState reports whether the self-test runs and how far it got.
type SelfTestState struct {
	Active   bool  `json:"active"`
	Progress int64 `json:"progress"`
}
