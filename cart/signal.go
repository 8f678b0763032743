package cart

import (
	"sync"
	"time"
)

// DefaultBounceDuration is how long the cart badge keeps bouncing after an
// item is added.
const DefaultBounceDuration = 600 * time.Millisecond

// Signal is a flag that lowers itself a fixed time after being raised.
// It carries no cart data.
type Signal struct {
	mu       sync.Mutex
	duration time.Duration
	raised   bool
	gen      uint64
	timer    *time.Timer
}

func NewSignal(d time.Duration) *Signal {
	if d <= 0 {
		d = DefaultBounceDuration
	}
	return &Signal{duration: d}
}

// Trigger raises the flag and schedules it to be lowered. Triggering again
// while raised restarts the window.
func (s *Signal) Trigger() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.raised = true
	s.gen++
	gen := s.gen
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.duration, func() {
		s.lower(gen)
	})
}

func (s *Signal) lower(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// a timer that lost the race with a newer Trigger must not lower the flag
	if gen != s.gen {
		return
	}
	s.raised = false
	s.timer = nil
}

func (s *Signal) Raised() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.raised
}

// Stop cancels a pending timer and lowers the flag.
func (s *Signal) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
	s.raised = false
}
