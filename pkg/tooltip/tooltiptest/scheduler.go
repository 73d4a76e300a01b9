package tooltiptest

import (
	"sort"
	"sync"
	"time"
)

// ManualScheduler is a tooltip.Scheduler driven by a virtual clock.
// Callbacks only run from Advance or Flush, never from AfterFunc itself.
type ManualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	seq    uint64
	timers []*manualTimer
}

type manualTimer struct {
	at        time.Duration
	seq       uint64
	fn        func()
	cancelled bool
}

// NewManualScheduler returns a scheduler with its clock at zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// AfterFunc implements tooltip.Scheduler.
func (s *ManualScheduler) AfterFunc(d time.Duration, fn func()) func() {
	if d < 0 {
		d = 0
	}
	s.mu.Lock()
	s.seq++
	t := &manualTimer{at: s.now + d, seq: s.seq, fn: fn}
	s.timers = append(s.timers, t)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		t.cancelled = true
		s.mu.Unlock()
	}
}

// Now returns the virtual time elapsed since creation.
func (s *ManualScheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Pending returns the number of armed timers.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.cancelled {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d and runs every timer that falls
// due, in deadline order. Timers armed by callbacks run too if they fall
// within the window.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	end := s.now + d
	s.mu.Unlock()

	for {
		t := s.popDue(end)
		if t == nil {
			break
		}
		t.fn()
	}

	s.mu.Lock()
	if end > s.now {
		s.now = end
	}
	s.mu.Unlock()
}

// Flush runs timers due at the current time.
func (s *ManualScheduler) Flush() { s.Advance(0) }

// popDue removes and returns the earliest live timer due at or before end,
// moving the clock to its deadline.
func (s *ManualScheduler) popDue(end time.Duration) *manualTimer {
	s.mu.Lock()
	defer s.mu.Unlock()

	live := s.timers[:0]
	for _, t := range s.timers {
		if !t.cancelled {
			live = append(live, t)
		}
	}
	s.timers = live

	sort.SliceStable(s.timers, func(i, j int) bool {
		if s.timers[i].at != s.timers[j].at {
			return s.timers[i].at < s.timers[j].at
		}
		return s.timers[i].seq < s.timers[j].seq
	})
	if len(s.timers) == 0 || s.timers[0].at > end {
		return nil
	}

	t := s.timers[0]
	s.timers = s.timers[1:]
	if t.at > s.now {
		s.now = t.at
	}
	return t
}
