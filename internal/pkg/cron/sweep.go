package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/sweep"
)

const SweepJobName = "attendance_sweep"

type SweepJobs struct {
	sweepService sweep.SweepService
	interval     time.Duration
}

func NewSweepJobs(sweepService sweep.SweepService, interval time.Duration) *SweepJobs {
	return &SweepJobs{sweepService: sweepService, interval: interval}
}

func (j *SweepJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob(SweepJobName, j.interval, j.ForceCloseStaleAttendances)
}

// ForceCloseStaleAttendances runs one cross-tenant sweep. Tenants still inside their
// work window are skipped by the sweep itself, so the job is safe to run at any hour.
func (j *SweepJobs) ForceCloseStaleAttendances(ctx context.Context) error {
	slog.Info("Cron: Starting attendance sweep")

	result, err := j.sweepService.RunAll(ctx)
	if err != nil {
		return fmt.Errorf("attendance sweep failed: %w", err)
	}

	if result.Failed > 0 {
		slog.Warn("Cron: Attendance sweep left rows open",
			"failed", result.Failed,
			"candidates", result.Candidates)
	}
	return nil
}
