package sweep

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/sweep"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/technician"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/workwindow"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/fixtures"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/repository/sqlite/sqlitetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func at(date time.Time, hour, minute int) *time.Time {
	t := time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, clock.BusinessLocation)
	return &t
}

// lostRace reports every conditional write as already applied by someone else.
type lostRace struct {
	attendance.AttendanceRepository
}

func (lostRace) ForceClose(context.Context, attendance.Attendance) (bool, error) {
	return false, nil
}

type brokenWrites struct {
	attendance.AttendanceRepository
}

func (brokenWrites) ForceClose(context.Context, attendance.Attendance) (bool, error) {
	return false, errors.New("connection reset")
}

type sweepFixture struct {
	store  *sqlitetest.Store
	seeded fixtures.Seeded
}

func newSweepFixture(t *testing.T) sweepFixture {
	t.Helper()
	store := sqlitetest.New(t)
	return sweepFixture{store: store, seeded: store.SeedTenant(t, fixtures.DefaultDemoTenant())}
}

func (f sweepFixture) tenantID() string { return f.seeded.Tenant.ID }

func (f sweepFixture) open(t *testing.T, tech technician.Technician, date time.Time) {
	t.Helper()
	f.store.Put(t, attendance.Attendance{
		TenantID: f.tenantID(),
		UserID:   tech.UserID,
		Date:     date,
		ClockIn:  at(date, 8, 50),
	})
}

func (f sweepFixture) service(repo attendance.AttendanceRepository, hour, minute int) *SweepServiceImpl {
	c := clock.NewFixed(*at(today, hour, minute))
	return NewSweepService(repo, f.store.Windows, c, Options{TenantConcurrency: 2, RowConcurrency: 2})
}

func (f sweepFixture) tenants() []workwindow.TenantWindow {
	return []workwindow.TenantWindow{{TenantID: f.tenantID(), Window: workwindow.Default()}}
}

func TestRun_ForceClosesOpenRowsWithinLookback(t *testing.T) {
	f := newSweepFixture(t)
	andi, budi, citra := f.seeded.Technicians[0], f.seeded.Technicians[1], f.seeded.Technicians[2]

	f.open(t, andi, clock.AddDays(today, -8))
	f.open(t, andi, clock.AddDays(today, -7))
	f.open(t, budi, clock.AddDays(today, -3))
	f.open(t, citra, today)
	f.store.Put(t, attendance.Attendance{
		TenantID: f.tenantID(),
		UserID:   budi.UserID,
		Date:     today,
		ClockIn:  at(today, 9, 0),
		ClockOut: at(today, 17, 0),
	})

	svc := f.service(f.store.Attendance, 18, 30)

	result, err := svc.Run(context.Background(), f.tenants())
	require.NoError(t, err)
	assert.Equal(t, sweep.Result{TenantsProcessed: 1, Candidates: 3, AutoCheckedOut: 3}, result)

	for _, key := range []struct {
		tech technician.Technician
		date time.Time
	}{
		{andi, clock.AddDays(today, -7)},
		{budi, clock.AddDays(today, -3)},
		{citra, today},
	} {
		got := f.store.Get(t, f.tenantID(), key.tech.UserID, key.date)
		require.NotNil(t, got)
		require.NotNil(t, got.ClockOut)
		assert.True(t, got.ClockOut.Equal(*at(key.date, 18, 0)))
		assert.True(t, got.IsAutoCheckout)
		assert.False(t, got.IsEarlyLeave)
		require.NotNil(t, got.TotalWorkHours)
		assert.Equal(t, 9.17, *got.TotalWorkHours)
	}

	outside := f.store.Get(t, f.tenantID(), andi.UserID, clock.AddDays(today, -8))
	require.NotNil(t, outside)
	assert.Nil(t, outside.ClockOut, "rows older than the lookback are left alone")

	manual := f.store.Get(t, f.tenantID(), budi.UserID, today)
	require.NotNil(t, manual)
	assert.True(t, manual.ClockOut.Equal(*at(today, 17, 0)))
	assert.False(t, manual.IsAutoCheckout)

	again, err := svc.Run(context.Background(), f.tenants())
	require.NoError(t, err)
	assert.Equal(t, sweep.Result{TenantsProcessed: 1}, again)
}

func TestRun_SkipsTenantBeforeEndOfDay(t *testing.T) {
	f := newSweepFixture(t)
	f.open(t, f.seeded.Technicians[0], today)
	f.open(t, f.seeded.Technicians[1], clock.AddDays(today, -1))

	result, err := f.service(f.store.Attendance, 17, 0).Run(context.Background(), f.tenants())
	require.NoError(t, err)

	assert.Equal(t, sweep.Result{Skipped: 1}, result)
	got := f.store.Get(t, f.tenantID(), f.seeded.Technicians[1].UserID, clock.AddDays(today, -1))
	require.NotNil(t, got)
	assert.Nil(t, got.ClockOut)
}

func TestRun_UsesEachTenantsOwnWindow(t *testing.T) {
	f := newSweepFixture(t)
	other := f.store.SeedTenant(t, fixtures.DemoTenant{
		Name:          "Early Shift Co",
		WorkStartTime: "06:00",
		WorkEndTime:   "16:00",
		Technicians:   []fixtures.DemoTechnician{{FullName: "Dewi Anggraini"}},
	})
	f.open(t, f.seeded.Technicians[0], today)
	f.store.Put(t, attendance.Attendance{
		TenantID: other.Tenant.ID,
		UserID:   other.Technicians[0].UserID,
		Date:     today,
		ClockIn:  at(today, 6, 0),
	})

	result, err := f.service(f.store.Attendance, 17, 0).RunAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, sweep.Result{TenantsProcessed: 1, Candidates: 1, AutoCheckedOut: 1, Skipped: 1}, result)

	closed := f.store.Get(t, other.Tenant.ID, other.Technicians[0].UserID, today)
	require.NotNil(t, closed)
	require.NotNil(t, closed.ClockOut)
	assert.True(t, closed.ClockOut.Equal(*at(today, 16, 0)))
	assert.Equal(t, 10.0, *closed.TotalWorkHours)

	stillOpen := f.store.Get(t, f.tenantID(), f.seeded.Technicians[0].UserID, today)
	require.NotNil(t, stillOpen)
	assert.Nil(t, stillOpen.ClockOut)
}

func TestRun_LostRaceCountsAsFailed(t *testing.T) {
	f := newSweepFixture(t)
	f.open(t, f.seeded.Technicians[0], clock.AddDays(today, -1))
	f.open(t, f.seeded.Technicians[1], clock.AddDays(today, -2))

	result, err := f.service(lostRace{f.store.Attendance}, 18, 30).Run(context.Background(), f.tenants())
	require.NoError(t, err)

	assert.Equal(t, sweep.Result{TenantsProcessed: 1, Candidates: 2, Failed: 2}, result)
}

func TestRun_WriteErrorsAreCountedNotReturned(t *testing.T) {
	f := newSweepFixture(t)
	f.open(t, f.seeded.Technicians[0], clock.AddDays(today, -1))

	result, err := f.service(brokenWrites{f.store.Attendance}, 18, 30).Run(context.Background(), f.tenants())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Candidates)
	assert.Equal(t, 0, result.AutoCheckedOut)
	assert.Equal(t, 1, result.Failed)
}

func TestRun_CancelledContext(t *testing.T) {
	f := newSweepFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := f.service(f.store.Attendance, 18, 30).Run(ctx, f.tenants())

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, result.TenantsProcessed)
}

func TestRun_NoTenants(t *testing.T) {
	f := newSweepFixture(t)

	result, err := f.service(f.store.Attendance, 23, 59).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, sweep.Result{}, result)
}

func TestOptions_Defaults(t *testing.T) {
	opts := Options{}.withDefaults()

	assert.Equal(t, Options{LookbackDays: 7, TenantConcurrency: 4, RowConcurrency: 8}, opts)
	assert.Equal(t, Options{LookbackDays: 3, TenantConcurrency: 1, RowConcurrency: 2},
		Options{LookbackDays: 3, TenantConcurrency: 1, RowConcurrency: 2}.withDefaults())
}
