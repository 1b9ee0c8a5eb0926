package service

import (
	"context"
	"log"
	"sync"
	"time"
)

// Scheduler fires the lifecycle sweep on a fixed interval. It owns its
// goroutine and exposes an explicit start/stop lifecycle; overlapping ticks
// are harmless because the sweep passes are idempotent. No cross-instance
// coordination is attempted.
type Scheduler struct {
	lifecycle *LifecycleService
	interval  time.Duration

	mu   sync.Mutex
	stop chan struct{}

	// newTicker is swappable so tests can drive ticks deterministically.
	newTicker func(time.Duration) (<-chan time.Time, func())
}

// NewScheduler returns a scheduler that sweeps every interval.
func NewScheduler(lifecycle *LifecycleService, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{
		lifecycle: lifecycle,
		interval:  interval,
		newTicker: func(d time.Duration) (<-chan time.Time, func()) {
			t := time.NewTicker(d)
			return t.C, t.Stop
		},
	}
}

// Start launches the sweep loop. Calling Start on a running scheduler is a
// no-op. One sweep runs immediately so a freshly booted instance does not
// wait a full interval to catch up on overdue articles.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stop != nil {
		return
	}

	s.stop = make(chan struct{})
	stop := s.stop
	ticks, cancel := s.newTicker(s.interval)

	go func() {
		defer cancel()

		s.runOnce()
		for {
			select {
			case <-ticks:
				s.runOnce()
			case <-ctx.Done():
				return
			case <-stop:
				return
			}
		}
	}()
}

// Stop halts the sweep loop. Safe to call on a stopped scheduler.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stop == nil {
		return
	}
	close(s.stop)
	s.stop = nil
}

func (s *Scheduler) runOnce() {
	result := s.lifecycle.RunSweep()
	if result.Published > 0 || result.Archived > 0 {
		log.Printf("[lifecycle] sweep published=%d archived=%d", result.Published, result.Archived)
	}
}
