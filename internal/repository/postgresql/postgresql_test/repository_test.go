package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/technician"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/workwindow"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/fixtures"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type repos struct {
	attendance  attendance.AttendanceRepository
	technicians technician.Repository
	windows     workwindow.Repository
	seeder      *fixtures.Seeder
	seeded      fixtures.Seeded
}

func newRepos(t *testing.T) repos {
	setup := NewTestDatabase(t)
	db := setup.DB

	r := repos{
		attendance:  postgresql.NewAttendanceRepository(db),
		technicians: postgresql.NewTechnicianRepository(db),
		windows:     postgresql.NewWorkWindowRepository(db),
	}
	r.seeder = fixtures.NewSeeder(postgresql.NewTransactor(db), postgresql.NewTenantRepository(db), r.windows, r.technicians, r.attendance)

	seeded, err := r.seeder.Seed(context.Background(), fixtures.DefaultDemoTenant())
	require.NoError(t, err)
	r.seeded = seeded
	return r
}

var day = time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) *time.Time {
	t := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, clock.BusinessLocation)
	return &t
}

func (r repos) openRow(t *testing.T) attendance.Attendance {
	t.Helper()
	saved, err := r.attendance.Upsert(context.Background(), attendance.Attendance{
		TenantID: r.seeded.Tenant.ID,
		UserID:   r.seeded.Technicians[0].UserID,
		Date:     day,
		ClockIn:  at(8, 50),
	})
	require.NoError(t, err)
	return saved
}

func TestAttendance_UpsertAndGet(t *testing.T) {
	r := newRepos(t)
	saved := r.openRow(t)
	assert.NotEmpty(t, saved.ID)

	got, err := r.attendance.GetByTechnicianAndDate(context.Background(), r.seeded.Tenant.ID, r.seeded.Technicians[0].UserID, day)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, saved.ID, got.ID)
	assert.True(t, got.ClockIn.Equal(*at(8, 50)))
	assert.Nil(t, got.ClockOut)
	require.NotNil(t, got.TechnicianName)
	assert.Equal(t, "Andi Pratama", *got.TechnicianName)

	missing, err := r.attendance.GetByTechnicianAndDate(context.Background(), r.seeded.Tenant.ID, r.seeded.Technicians[1].UserID, day)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAttendance_ForceCloseIsConditional(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	row := r.openRow(t)

	closed := row
	closed.ClockOut = at(18, 0)
	closed.IsAutoCheckout = true

	applied, err := r.attendance.ForceClose(ctx, closed)
	require.NoError(t, err)
	assert.True(t, applied)

	closed.ClockOut = at(19, 0)
	applied, err = r.attendance.ForceClose(ctx, closed)
	require.NoError(t, err)
	assert.False(t, applied, "a closed row is never overwritten")

	open, err := r.attendance.ListOpenInRange(ctx, r.seeded.Tenant.ID, clock.AddDays(day, -7), day)
	require.NoError(t, err)
	assert.Empty(t, open)
}

func TestAttendance_UpdateDerivedGuardsClockOut(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	row := r.openRow(t)

	stale := row
	stale.IsLate = true
	applied, err := r.attendance.UpdateDerived(ctx, stale)
	require.NoError(t, err)
	assert.True(t, applied)

	concurrent := row
	concurrent.ClockOut = at(17, 0)
	applied, err = r.attendance.ForceClose(ctx, concurrent)
	require.NoError(t, err)
	require.True(t, applied)

	applied, err = r.attendance.UpdateDerived(ctx, stale)
	require.NoError(t, err)
	assert.False(t, applied, "clock_out changed since it was read")
}

func TestAttendance_ListByTechniciansAndRange(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	c := clock.NewFixed(*at(20, 0))
	window, err := r.windows.GetByTenant(ctx, r.seeded.Tenant.ID)
	require.NoError(t, err)

	rows := fixtures.DemoAttendances(c, r.seeded.Technicians, window.Window(), clock.AddDays(day, -2), day)
	require.NoError(t, r.seeder.SeedAttendances(ctx, rows))

	all, err := r.attendance.ListByTechniciansAndRange(ctx, r.seeded.Tenant.ID, nil, clock.AddDays(day, -2), day)
	require.NoError(t, err)
	assert.Len(t, all, len(rows))

	one, err := r.attendance.ListByTechniciansAndRange(ctx, r.seeded.Tenant.ID, []string{r.seeded.Technicians[2].UserID}, clock.AddDays(day, -2), day)
	require.NoError(t, err)
	for _, att := range one {
		assert.Equal(t, r.seeded.Technicians[2].UserID, att.UserID)
	}
}

func TestWorkWindow_ListAllIncludesUnconfiguredTenants(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	bare, err := r.seeder.Seed(ctx, fixtures.DemoTenant{Name: "Unconfigured"})
	require.NoError(t, err)

	settings, err := r.windows.ListAll(ctx)
	require.NoError(t, err)

	byTenant := map[string]workwindow.WorkWindow{}
	for _, tw := range workwindow.ResolveAll(settings) {
		byTenant[tw.TenantID] = tw.Window
	}
	assert.Equal(t, workwindow.Default(), byTenant[bare.Tenant.ID])
	assert.Equal(t, workwindow.WorkWindow{StartMinute: 540, EndMinute: 1080}, byTenant[r.seeded.Tenant.ID])
}

func TestTechnician_GetByUserID(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()

	got, err := r.technicians.GetByUserID(ctx, r.seeded.Tenant.ID, r.seeded.Technicians[1].UserID)
	require.NoError(t, err)
	assert.Equal(t, "Budi Santoso", got.FullName)

	_, err = r.technicians.GetByUserID(ctx, r.seeded.Tenant.ID, "not-a-uuid")
	assert.ErrorIs(t, err, technician.ErrTechnicianNotFound)

	list, err := r.technicians.ListByTenant(ctx, r.seeded.Tenant.ID)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestTransactor_RollsBackSeedOnFailure(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()

	demo := fixtures.DemoTenant{
		Name: "Duplicate Crew",
		Technicians: []fixtures.DemoTechnician{
			{UserID: r.seeded.Technicians[0].UserID, FullName: "One"},
			{UserID: r.seeded.Technicians[0].UserID, FullName: "Two"},
		},
	}

	_, err := r.seeder.Seed(ctx, demo)
	require.Error(t, err)

	settings, err := r.windows.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, settings, 1, "the partially seeded tenant is rolled back")
}
