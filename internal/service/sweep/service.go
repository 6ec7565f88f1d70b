package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/sweep"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/workwindow"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/pkg/clock"
	attendanceService "github.com/cmlabs-hris/fieldops-backend-go/internal/service/attendance"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultLookbackDays      = 7
	DefaultTenantConcurrency = 4
	DefaultRowConcurrency    = 8
)

type Options struct {
	LookbackDays      int
	TenantConcurrency int
	RowConcurrency    int
}

func (o Options) withDefaults() Options {
	if o.LookbackDays <= 0 {
		o.LookbackDays = DefaultLookbackDays
	}
	if o.TenantConcurrency <= 0 {
		o.TenantConcurrency = DefaultTenantConcurrency
	}
	if o.RowConcurrency <= 0 {
		o.RowConcurrency = DefaultRowConcurrency
	}
	return o
}

type SweepServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	windowRepo     workwindow.Repository
	clock          *clock.Clock
	reconciler     *attendanceService.Reconciler
	opts           Options
}

func NewSweepService(
	attendanceRepo attendance.AttendanceRepository,
	windowRepo workwindow.Repository,
	c *clock.Clock,
	opts Options,
) *SweepServiceImpl {
	return &SweepServiceImpl{
		attendanceRepo: attendanceRepo,
		windowRepo:     windowRepo,
		clock:          c,
		reconciler:     attendanceService.NewReconciler(c),
		opts:           opts.withDefaults(),
	}
}

// counters is shared by the tenant and row workers of one run.
type counters struct {
	tenantsProcessed atomic.Int64
	candidates       atomic.Int64
	autoCheckedOut   atomic.Int64
	skipped          atomic.Int64
	failed           atomic.Int64
}

func (c *counters) result() sweep.Result {
	return sweep.Result{
		TenantsProcessed: int(c.tenantsProcessed.Load()),
		Candidates:       int(c.candidates.Load()),
		AutoCheckedOut:   int(c.autoCheckedOut.Load()),
		Skipped:          int(c.skipped.Load()),
		Failed:           int(c.failed.Load()),
	}
}

// RunAll implements sweep.SweepService.
func (s *SweepServiceImpl) RunAll(ctx context.Context) (sweep.Result, error) {
	settings, err := s.windowRepo.ListAll(ctx)
	if err != nil {
		return sweep.Result{}, fmt.Errorf("failed to load tenant work windows: %w", err)
	}

	return s.Run(ctx, workwindow.ResolveAll(settings))
}

// Run implements sweep.SweepService. Tenants whose end of day has not been reached are
// skipped. Every open row of the others within the lookback is force-closed.
func (s *SweepServiceImpl) Run(ctx context.Context, tenants []workwindow.TenantWindow) (sweep.Result, error) {
	started := time.Now()
	today := s.clock.Today()
	nowMinute := s.clock.NowMinute()
	from := clock.AddDays(today, -s.opts.LookbackDays)

	var c counters
	g := new(errgroup.Group)
	g.SetLimit(s.opts.TenantConcurrency)

	for _, tenant := range tenants {
		if nowMinute < tenant.Window.EndMinute {
			c.skipped.Add(1)
			continue
		}

		tenant := tenant
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c.tenantsProcessed.Add(1)
			s.sweepTenant(ctx, tenant, from, today, &c)
			return nil
		})
	}

	err := g.Wait()
	result := c.result()

	slog.Info("Sweep: finished",
		"tenants_processed", result.TenantsProcessed,
		"tenants_skipped", result.Skipped,
		"candidates", result.Candidates,
		"auto_checked_out", result.AutoCheckedOut,
		"failed", result.Failed,
		"duration", time.Since(started))

	return result, err
}

func (s *SweepServiceImpl) sweepTenant(ctx context.Context, tenant workwindow.TenantWindow, from, to time.Time, c *counters) {
	rows, err := s.attendanceRepo.ListOpenInRange(ctx, tenant.TenantID, from, to)
	if err != nil {
		slog.Error("Sweep: failed to load open attendances",
			"tenant_id", tenant.TenantID,
			"error", err)
		return
	}
	if len(rows) == 0 {
		return
	}

	c.candidates.Add(int64(len(rows)))

	g := new(errgroup.Group)
	g.SetLimit(s.opts.RowConcurrency)

	for _, row := range rows {
		row := row
		g.Go(func() error {
			closed := s.reconciler.ForceClose(row, tenant.Window)

			applied, err := s.attendanceRepo.ForceClose(ctx, closed)
			switch {
			case err != nil:
				c.failed.Add(1)
				slog.Error("Sweep: failed to force-close attendance",
					"tenant_id", tenant.TenantID,
					"attendance_id", row.ID,
					"error", err)
			case !applied:
				c.failed.Add(1)
				slog.Info("Sweep: attendance closed by another writer",
					"tenant_id", tenant.TenantID,
					"attendance_id", row.ID)
			default:
				c.autoCheckedOut.Add(1)
			}
			return nil
		})
	}

	_ = g.Wait()
}
