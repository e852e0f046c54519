package device

import (
	"log/slog"
	"time"

	"i4.energy/across/tbsim/proto"
)

// Identity is the string answered to ID.
const Identity = "ESP8266_WEMOS_D1MINI"

// Positioner ranges of the emulated board.
const (
	LedMin, LedMax, LedDefault       = 0, 1023, 0
	ServoMin, ServoMax, ServoDefault = 0, 180, 90
)

// Engine owns the complete state of the emulated test box.
//
// An Engine is not safe for concurrent use. It is meant to be owned by a
// single goroutine which serialises requests and ticks; other parties see
// the device only through Snapshot values.
type Engine struct {
	redLed    *Positioner
	yellowLed *Positioner
	greenLed  *Positioner
	servo     *Positioner
	sensor    *Sensor
	selfTest  *sequencer

	identity string
	now      func() time.Time
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the source of sensor noise.
func WithRand(r Rand) Option {
	return func(e *Engine) { e.sensor.rand = r }
}

// WithClock sets the clock used when a request needs the current time.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIdentity overrides the ID answer.
func WithIdentity(id string) Option {
	return func(e *Engine) { e.identity = id }
}

// WithLogger sets the logger used for state transitions.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithSteps replaces the self-test script.
func WithSteps(steps []Step) Option {
	return func(e *Engine) { e.selfTest = newSequencer(steps) }
}

// NewEngine returns an Engine in its power-on state.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		redLed:    NewPositioner(LedMin, LedMax, LedDefault),
		yellowLed: NewPositioner(LedMin, LedMax, LedDefault),
		greenLed:  NewPositioner(LedMin, LedMax, LedDefault),
		servo:     NewPositioner(ServoMin, ServoMax, ServoDefault),
		selfTest:  newSequencer(SelfTestSteps),
		identity:  Identity,
		now:       time.Now,
		logger:    slog.New(slog.DiscardHandler),
	}
	e.sensor = NewSensor(time.Time{}, defaultRand{})

	for _, opt := range opts {
		opt(e)
	}
	e.sensor.lastUpdate = e.now()

	return e
}

func (e *Engine) positioner(n proto.Noun) *Positioner {
	switch n {
	case proto.RedLed:
		return e.redLed
	case proto.YellowLed:
		return e.yellowLed
	case proto.GreenLed:
		return e.greenLed
	case proto.Servo:
		return e.servo
	}
	return nil
}

// Apply executes a request against the device and returns its response.
func (e *Engine) Apply(req proto.Request) proto.Response {
	switch req.Verb {
	case proto.VerbID:
		return proto.IDResponse{ID: e.identity}

	case proto.VerbGet:
		if p := e.positioner(req.Noun); p != nil {
			return proto.ValueResponse{Value: p.Get()}
		}
		switch req.Noun {
		case proto.TempAndHum:
			s := e.sensor.Get()
			return proto.TempAndHumResponse{Status: s.Status, Temperature: s.Temperature, Humidity: s.Humidity}
		case proto.SelfTest:
			return selfTestResponse(e.selfTest.state())
		}

	case proto.VerbSet:
		if p := e.positioner(req.Noun); p != nil {
			return proto.ValueResponse{Value: p.Set(req.Value)}
		}
		switch req.Noun {
		case proto.TempAndHum:
			return proto.ErrorResponse{Err: proto.BadNoun}
		case proto.SelfTest:
			switch req.Value {
			case 1:
				if !e.selfTest.active() {
					e.logger.Debug("Starting self test")
				}
				return selfTestResponse(e.selfTest.start(e.now()))
			case 0:
				if e.selfTest.active() {
					e.logger.Debug("Stopping self test", "stage", e.selfTest.stage)
				}
				return selfTestResponse(e.selfTest.stop())
			default:
				return proto.ErrorResponse{Err: proto.BadValue}
			}
		}
	}

	return proto.ErrorResponse{Err: proto.BadNoun}
}

func selfTestResponse(s SelfTestState) proto.Response {
	return proto.SelfTestResponse{Active: s.Active, Progress: s.Progress}
}

// Tick advances time driven behaviour to now: the sensor takes a new reading
// when due and the self-test executes its next step when due. It reports
// whether any state changed.
func (e *Engine) Tick(now time.Time) bool {
	sensorChanged := e.sensor.Update(now)
	if sensorChanged {
		s := e.sensor.Get()
		e.logger.Debug("New sensor reading", "temperature", s.Temperature, "humidity", s.Humidity)
	}

	return e.stepSelfTest(now) || sensorChanged
}

func (e *Engine) stepSelfTest(now time.Time) bool {
	stage := e.selfTest.stage
	step, ok := e.selfTest.next(now)
	if !ok {
		return false
	}
	e.logger.Debug("Executing self test step", "stage", stage)

	positioners := [4]*Positioner{e.redLed, e.yellowLed, e.greenLed, e.servo}
	for i, p := range positioners {
		switch step.Actions[i] {
		case ActionMin:
			p.SetMin()
		case ActionMax:
			p.SetMax()
		case ActionDefault:
			p.Reset()
		}
	}
	return true
}

// Snapshot returns a copy of the full device state.
func (e *Engine) Snapshot() State {
	return State{
		Time:      e.now(),
		RedLed:    e.redLed.Get(),
		YellowLed: e.yellowLed.Get(),
		GreenLed:  e.greenLed.Get(),
		Servo:     e.servo.Get(),
		Sensor:    e.sensor.Get(),
		SelfTest:  e.selfTest.state(),
	}
}
