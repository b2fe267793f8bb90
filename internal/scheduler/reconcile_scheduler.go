package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/chitram/chitram-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// runTimeout caps a single reconciliation pass.
const runTimeout = 5 * time.Minute

// CounterReconciler recomputes the materialized artist counters and reports
// how many rows were corrected.
type CounterReconciler interface {
	ReconcileCounters(ctx context.Context) (int64, error)
}

// CounterReconcileScheduler periodically repairs counter drift.
type CounterReconcileScheduler struct {
	cron       *cron.Cron
	spec       string
	reconciler CounterReconciler

	mu      sync.Mutex
	running bool
}

func NewCounterReconcileScheduler(reconciler CounterReconciler, spec string) *CounterReconcileScheduler {
	return &CounterReconcileScheduler{
		cron:       cron.New(),
		spec:       spec,
		reconciler: reconciler,
	}
}

// Start registers the job and starts the cron loop.
func (s *CounterReconcileScheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		if _, err := s.RunOnce(context.Background()); err != nil {
			logger.Error("Scheduled counter reconciliation failed", err)
		}
	})
	if err != nil {
		logger.Error("Failed to add cron job for counter reconciliation", err, map[string]interface{}{
			"spec": s.spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Counter reconcile scheduler started", map[string]interface{}{
		"spec": s.spec,
	})
	return nil
}

// RunOnce performs one reconciliation pass. Overlapping runs are skipped.
func (s *CounterReconcileScheduler) RunOnce(ctx context.Context) (int64, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		logger.Warn("Counter reconciliation already running, skipping", nil)
		return 0, nil
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	logger.Info("Starting scheduled counter reconciliation", nil)
	fixed, err := s.reconciler.ReconcileCounters(ctx)
	if err != nil {
		return 0, err
	}
	logger.Info("Counter reconciliation finished", map[string]interface{}{
		"fixed": fixed,
	})
	return fixed, nil
}

// Stop waits for a running job to finish.
func (s *CounterReconcileScheduler) Stop() {
	logger.Info("Stopping counter reconcile scheduler...", nil)
	<-s.cron.Stop().Done()
	logger.Info("Counter reconcile scheduler stopped", nil)
}
