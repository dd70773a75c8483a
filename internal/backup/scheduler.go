// Package backup runs the periodic snapshot loop of a store.
package backup

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/wizardsarehere/LumeDB/internal/logging"
)

var (
	// ErrInvalidInterval rejects non-positive backup intervals.
	ErrInvalidInterval = errors.New("backup interval must be positive")
)

// SnapshotFunc writes one backup of the current document.
type SnapshotFunc func() error

// Scheduler fires a snapshot on a fixed interval until stopped. Snapshot
// failures are logged and the loop keeps going.
type Scheduler struct {
	snapshot SnapshotFunc

	mu       sync.Mutex
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool

	log zerolog.Logger
}

// NewScheduler creates a scheduler that fires snapshot every interval.
func NewScheduler(interval time.Duration, snapshot SnapshotFunc) (*Scheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInterval, interval)
	}
	return &Scheduler{
		snapshot: snapshot,
		interval: interval,
		log:      logging.Component("backup"),
	}, nil
}

// Start launches the snapshot loop. Starting a running scheduler is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.launchLocked()
}

func (s *Scheduler) launchLocked() {
	if s.running {
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	go s.run(s.interval, s.stopCh, s.doneCh)
}

// run owns its channels so a restart never races a previous loop.
func (s *Scheduler) run(interval time.Duration, stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if err := s.snapshot(); err != nil {
				s.log.Warn().Err(err).Msg("scheduled backup failed")
			} else {
				s.log.Debug().Msg("scheduled backup written")
			}
		}
	}
}

// Stop halts the loop and waits for it to finish. Safe to call repeatedly
// and before Start.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Scheduler) stopLocked() {
	if !s.running {
		return
	}
	close(s.stopCh)
	<-s.doneCh
	s.running = false
}

// Reconfigure changes the interval, restarting the loop when it is running.
// An invalid interval is rejected and the existing loop keeps its period.
func (s *Scheduler) Reconfigure(interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInterval, interval)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.interval = interval
	if s.running {
		s.stopLocked()
		s.launchLocked()
	}
	return nil
}

// Interval returns the configured interval.
func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// Running reports whether the loop is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
