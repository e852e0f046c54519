package device

import "time"

// Action is what a self-test step does to one positioner.
type Action int

const (
	ActionDefault Action = iota
	ActionMin
	ActionMax
)

// Step is one entry of the self-test script. Actions apply to the red,
// yellow and green LEDs and the servo, in that order.
type Step struct {
	Actions  [4]Action
	Duration time.Duration
}

// SelfTestSteps is the scripted self-test sequence.
var SelfTestSteps = []Step{
	{Actions: [4]Action{ActionDefault, ActionDefault, ActionDefault, ActionDefault}, Duration: 500 * time.Millisecond},
	{Actions: [4]Action{ActionMax, ActionMin, ActionMin, ActionMin}, Duration: 500 * time.Millisecond},
	{Actions: [4]Action{ActionMin, ActionMax, ActionMin, ActionDefault}, Duration: 500 * time.Millisecond},
	{Actions: [4]Action{ActionMin, ActionMin, ActionMax, ActionMax}, Duration: 500 * time.Millisecond},
	{Actions: [4]Action{ActionDefault, ActionDefault, ActionDefault, ActionDefault}, Duration: 500 * time.Millisecond},
}

// SelfTestDuration is the total hold time of SelfTestSteps.
func SelfTestDuration() time.Duration {
	var d time.Duration
	for _, s := range SelfTestSteps {
		d += s.Duration
	}
	return d
}

// sequencer walks a step script. stage == len(steps) means idle.
type sequencer struct {
	steps    []Step
	stage    int
	deadline time.Time
}

func newSequencer(steps []Step) *sequencer {
	return &sequencer{steps: steps, stage: len(steps)}
}

func (s *sequencer) active() bool {
	return s.stage < len(s.steps)
}

func (s *sequencer) state() SelfTestState {
	if !s.active() {
		return SelfTestState{}
	}
	return SelfTestState{
		Active:   true,
		Progress: int64(100 * s.stage / len(s.steps)),
	}
}

// start arms the sequence unless it is already running.
func (s *sequencer) start(now time.Time) SelfTestState {
	if !s.active() && len(s.steps) > 0 {
		s.stage = 0
		s.deadline = now.Add(s.steps[0].Duration)
	}
	return s.state()
}

func (s *sequencer) stop() SelfTestState {
	s.stage = len(s.steps)
	return s.state()
}

// next returns the step due at now and advances past it.
func (s *sequencer) next(now time.Time) (Step, bool) {
	if !s.active() || !now.After(s.deadline) {
		return Step{}, false
	}
	step := s.steps[s.stage]
	s.stage++
	s.deadline = now.Add(step.Duration)
	return step, true
}
