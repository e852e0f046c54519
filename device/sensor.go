package device

import "time"

const (
	// SensorInterval is the minimum time between two sensor readings.
	SensorInterval = 2000 * time.Millisecond

	initialStatus      = "OK"
	initialTemperature = 20.0
	initialHumidity    = 50.0

	temperatureBase, temperatureSpan = 20.0, 10.0 // [20, 30)
	humidityBase, humiditySpan       = 30.0, 40.0 // [30, 70)
)

// Sensor models the temperature and humidity sensor.
type Sensor struct {
	status      string
	temperature float64
	humidity    float64
	lastUpdate  time.Time
	rand        Rand
}

// NewSensor returns a sensor with its power-on reading, stamped at now.
func NewSensor(now time.Time, r Rand) *Sensor {
	return &Sensor{
		status:      initialStatus,
		temperature: initialTemperature,
		humidity:    initialHumidity,
		lastUpdate:  now,
		rand:        r,
	}
}

// Get returns the current reading.
func (s *Sensor) Get() SensorState {
	return SensorState{
		Status:      s.status,
		Temperature: s.temperature,
		Humidity:    s.humidity,
	}
}

// Update takes a new reading if SensorInterval has elapsed since the last
// one and reports whether the reading changed.
func (s *Sensor) Update(now time.Time) bool {
	if now.Sub(s.lastUpdate) < SensorInterval {
		return false
	}
	s.lastUpdate = now
	s.temperature = s.rand.Float64()*temperatureSpan + temperatureBase
	s.humidity = s.rand.Float64()*humiditySpan + humidityBase
	return true
}
