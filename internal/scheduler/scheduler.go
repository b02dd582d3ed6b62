package scheduler

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/duongtapcode03/lmobile-flashsale/internal/clock"
)

// Activator drives time-gated sale transitions.
type Activator interface {
	ActivateDue(ctx context.Context) (int, error)
	CloseDue(ctx context.Context) (int, error)
}

// Cleaner expires stale reservations.
type Cleaner interface {
	CleanupExpired(ctx context.Context) (int, error)
}

// Result aggregates one pass of the periodic driver.
type Result struct {
	Activated int       `json:"activated"`
	Closed    int       `json:"closed"`
	Cleaned   int       `json:"cleaned"`
	Timestamp time.Time `json:"timestamp"`
}

const defaultInterval = 60 * time.Second

// Scheduler periodically runs activation, closing and cleanup, in that
// order. A campaign that starts and ends within one interval still passes
// through active before ended.
type Scheduler struct {
	activation   Activator
	reservations Cleaner
	clock        clock.Clock
	interval     time.Duration
	logger       *log.Logger
}

func New(activation Activator, reservations Cleaner, clk clock.Clock, interval time.Duration, logger *log.Logger) *Scheduler {
	if interval <= 0 {
		interval = defaultInterval
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Scheduler{
		activation:   activation,
		reservations: reservations,
		clock:        clk,
		interval:     interval,
		logger:       logger,
	}
}

// RunOnce executes a single pass. Each step runs even when an earlier one
// failed; counts reflect what actually happened and errors are joined.
func (s *Scheduler) RunOnce(ctx context.Context) (Result, error) {
	res := Result{Timestamp: s.clock.Now()}
	var errs []error

	n, err := s.activation.ActivateDue(ctx)
	res.Activated = n
	if err != nil {
		errs = append(errs, err)
	}

	n, err = s.activation.CloseDue(ctx)
	res.Closed = n
	if err != nil {
		errs = append(errs, err)
	}

	n, err = s.reservations.CleanupExpired(ctx)
	res.Cleaned = n
	if err != nil {
		errs = append(errs, err)
	}

	return res, errors.Join(errs...)
}

// Start launches the periodic loop: one pass immediately, then one per
// interval until ctx is cancelled. A failed pass is logged and the ticker
// keeps going.
func (s *Scheduler) Start(ctx context.Context) {
	go func() {
		s.runAndLog(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.logger.Printf("flash sale scheduler stopped")
				return
			case <-ticker.C:
				s.runAndLog(ctx)
			}
		}
	}()
}

func (s *Scheduler) runAndLog(ctx context.Context) {
	res, err := s.RunOnce(ctx)
	if err != nil {
		s.logger.Printf("scheduler pass error: %v", err)
	}
	if res.Activated > 0 || res.Closed > 0 || res.Cleaned > 0 {
		s.logger.Printf("scheduler pass activated=%d closed=%d cleaned=%d", res.Activated, res.Closed, res.Cleaned)
	}
}
