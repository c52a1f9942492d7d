// Package progress produces the locally simulated upload progress signal.
// The remote transfer itself is not instrumented; this gives the user
// continuous feedback between file acceptance and analysis.
package progress

import (
	"context"
	"sync"
	"time"
)

// DefaultStep and DefaultPeriod drive the simulation: +10 every 500ms
// until the signal reaches exactly 100.
const (
	DefaultStep   = 10
	DefaultPeriod = 500 * time.Millisecond
)

// Simulator runs at most one interval task. Starting a new run cancels
// any previous one first, so a replaced file never leaves an orphaned
// task ticking against a stale session.
type Simulator struct {
	step   int
	period time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewSimulator creates a simulator with the given step and period.
// Non-positive arguments fall back to the defaults.
func NewSimulator(step int, period time.Duration) *Simulator {
	if step <= 0 {
		step = DefaultStep
	}
	if period <= 0 {
		period = DefaultPeriod
	}
	return &Simulator{step: step, period: period}
}

// Start cancels any running task and begins a fresh one. onTick is called
// with each new progress value, monotonically increasing in fixed steps
// until it reaches exactly 100, after which the task stops itself.
func (s *Simulator) Start(onTick func(progress int)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	go s.run(ctx, onTick)
}

// Stop cancels the running task, if any. Safe to call repeatedly.
func (s *Simulator) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Simulator) run(ctx context.Context, onTick func(progress int)) {
	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	progress := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			progress += s.step
			if progress > 100 {
				progress = 100
			}
			onTick(progress)
			if progress >= 100 {
				return
			}
		}
	}
}
