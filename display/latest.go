package display

import (
	"sync"

	"i4.energy/across/tbsim/device"
)

// Latest remembers the newest snapshot and passes it on to subscribers.
// Slow subscribers skip intermediate snapshots rather than block Show.
type Latest struct {
	mu     sync.Mutex
	state  device.State
	valid  bool
	nextID int
	subs   map[int]chan device.State
}

// NewLatest returns an empty Latest.
func NewLatest() *Latest {
	return &Latest{subs: make(map[int]chan device.State)}
}

// Show records s and notifies subscribers.
func (l *Latest) Show(s device.State) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.state = s
	l.valid = true
	for _, ch := range l.subs {
		// Replace a snapshot the subscriber has not picked up yet
		select {
		case <-ch:
		default:
		}
		ch <- s
	}
	return nil
}

// Get returns the newest snapshot. ok is false until the first Show.
func (l *Latest) Get() (s device.State, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state, l.valid
}

// Subscribe returns a channel receiving snapshots, primed with the current
// one if any, and a function ending the subscription.
func (l *Latest) Subscribe() (<-chan device.State, func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.nextID
	l.nextID++
	ch := make(chan device.State, 1)
	if l.valid {
		ch <- l.state
	}
	l.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			delete(l.subs, id)
		})
	}
}
