package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/meinhoongagan/clinic-app/config"
	"github.com/meinhoongagan/clinic-app/logger"
	"github.com/meinhoongagan/clinic-app/metrics"
)

// SlotPruner drops slot map dates that sort before cutoff (YYYY-MM-DD).
type SlotPruner interface {
	PruneSlots(ctx context.Context, cutoff string) (int, error)
}

// Invalidator drops cached doctor data once slot maps changed.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Scheduler runs the slot map maintenance job.
type Scheduler struct {
	cron   *cron.Cron
	pruner SlotPruner
	cache  Invalidator
	loc    *time.Location
	now    func() time.Time
	log    *logrus.Entry
}

// New schedules the prune job. cache may be nil.
func New(cfg *config.Config, pruner SlotPruner, cache Invalidator, log *logger.Logger) (*Scheduler, error) {
	loc := cfg.Location()
	s := &Scheduler{
		cron:   cron.New(cron.WithLocation(loc)),
		pruner: pruner,
		cache:  cache,
		loc:    loc,
		now:    time.Now,
		log:    log.WithComponent("cron"),
	}

	_, err := s.cron.AddFunc(cfg.Cron.SlotPruneSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		_ = s.PruneSlots(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add slot prune job %q: %w", cfg.Cron.SlotPruneSchedule, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("Cron job scheduler started for slot map pruning")
}

// Stop waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// PruneSlots removes every date before today, in the clinic's time zone, from the slot maps.
func (s *Scheduler) PruneSlots(ctx context.Context) error {
	cutoff := s.now().In(s.loc).Format("2006-01-02")

	removed, err := s.pruner.PruneSlots(ctx, cutoff)
	if removed > 0 {
		metrics.SlotsPruned.Add(float64(removed))
		if s.cache != nil {
			if cerr := s.cache.Invalidate(ctx); cerr != nil {
				s.log.WithError(cerr).Warn("Failed to invalidate doctor cache after pruning")
			}
		}
	}
	entry := s.log.WithFields(logrus.Fields{"cutoff": cutoff, "removed": removed})
	if err != nil {
		metrics.SlotPruneRuns.WithLabelValues("failed").Inc()
		entry.WithError(err).Error("Slot map pruning failed")
		return err
	}

	metrics.SlotPruneRuns.WithLabelValues("ok").Inc()
	entry.Info("Slot maps pruned")
	return nil
}
