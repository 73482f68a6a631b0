// Package cron runs the scheduled bulk sync.
package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/eldorado-p2p/influencer-api/internal/service"
)

// Scheduler runs the nightly bulk sync on a cron spec.
type Scheduler struct {
	cron    *cron.Cron
	syncSvc *service.SyncService
	logger  *slog.Logger
}

// NewScheduler creates a scheduler. An empty spec disables scheduling and
// Start becomes a no-op.
func NewScheduler(syncSvc *service.SyncService, spec string, logger *slog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		syncSvc: syncSvc,
		logger:  logger,
	}
	if spec == "" {
		return s, nil
	}

	c := cron.New()
	_, err := c.AddFunc(spec, s.runBulkSync)
	if err != nil {
		return nil, fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	s.cron = c
	s.logger.Info("bulk sync scheduled", "spec", spec)
	return s, nil
}

// Start begins the schedule. Safe to call when scheduling is disabled.
func (s *Scheduler) Start() {
	if s.cron != nil {
		s.cron.Start()
	}
}

// Stop halts the schedule and waits for a running job to finish.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

func (s *Scheduler) runBulkSync() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	s.logger.Info("scheduled bulk sync starting")
	reports, err := s.syncSvc.SyncAll(ctx)
	if err != nil {
		s.logger.Error("scheduled bulk sync failed", "error", err)
		return
	}

	failed := 0
	for _, report := range reports {
		if !report.Success {
			failed++
		}
	}
	s.logger.Info("scheduled bulk sync finished",
		"influencers", len(reports),
		"failed", failed)
}
