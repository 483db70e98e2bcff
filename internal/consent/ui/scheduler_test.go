package ui

import (
	"slices"
	"sync"
	"time"
)

// ManualScheduler fires callbacks only when Advance moves its clock past their deadline.
type ManualScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	pending []*manualTask
}

type manualTask struct {
	at      time.Duration
	f       func()
	stopped bool
}

func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) func() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	task := &manualTask{at: s.now + d, f: f}
	s.pending = append(s.pending, task)
	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		if task.stopped || !slices.Contains(s.pending, task) {
			return false
		}
		task.stopped = true
		return true
	}
}

// Advance moves the clock by d and runs due callbacks in deadline order.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	var due, rest []*manualTask
	for _, t := range s.pending {
		switch {
		case t.stopped:
		case t.at <= s.now:
			due = append(due, t)
		default:
			rest = append(rest, t)
		}
	}
	s.pending = rest
	s.mu.Unlock()

	slices.SortStableFunc(due, func(a, b *manualTask) int { return int(a.at - b.at) })
	for _, t := range due {
		t.f()
	}
}

// Pending reports how many callbacks are waiting.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.pending {
		if !t.stopped {
			n++
		}
	}
	return n
}

var _ Scheduler = (*ManualScheduler)(nil)
