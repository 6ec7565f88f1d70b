package attendance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/technician"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/fixtures"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/repository/sqlite/sqlitetest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingWrites simulates a storage outage on correction writes only.
type failingWrites struct {
	attendance.AttendanceRepository
}

func (failingWrites) ForceClose(context.Context, attendance.Attendance) (bool, error) {
	return false, errors.New("disk full")
}

func (failingWrites) UpdateDerived(context.Context, attendance.Attendance) (bool, error) {
	return false, errors.New("disk full")
}

type serviceFixture struct {
	store   *sqlitetest.Store
	seeded  fixtures.Seeded
	service *AttendanceServiceImpl
}

// newServiceFixture seeds the demo tenant and freezes the clock at testToday hh:mm.
func newServiceFixture(t *testing.T, hour, minute int) serviceFixture {
	store := sqlitetest.New(t)
	seeded := store.SeedTenant(t, fixtures.DefaultDemoTenant())
	c := clock.NewFixed(*local(testToday, hour, minute))

	return serviceFixture{
		store:   store,
		seeded:  seeded,
		service: NewAttendanceService(store.Attendance, store.Technicians, store.Windows, c),
	}
}

func (f serviceFixture) tenantID() string { return f.seeded.Tenant.ID }

func (f serviceFixture) tech(i int) technician.Technician { return f.seeded.Technicians[i] }

func TestGetToday_ReconcilesAndPersists(t *testing.T) {
	f := newServiceFixture(t, 18, 30)
	andi, budi := f.tech(0), f.tech(1)

	f.store.Put(t, attendance.Attendance{TenantID: f.tenantID(), UserID: andi.UserID, Date: testToday, ClockIn: local(testToday, 8, 50)})
	f.store.Put(t, attendance.Attendance{TenantID: f.tenantID(), UserID: budi.UserID, Date: testToday, ClockIn: local(testToday, 9, 15), ClockOut: local(testToday, 17, 30)})

	resp, err := f.service.GetToday(context.Background(), f.tenantID())
	require.NoError(t, err)

	assert.Equal(t, "2025-03-10", resp.Date)
	assert.Equal(t, "09:00", resp.WorkWindow.StartTime)
	assert.Equal(t, "18:00", resp.WorkWindow.EndTime)
	require.Len(t, resp.Technicians, 3)
	assert.Equal(t, "Andi Pratama", resp.Technicians[0].TechnicianName)
	assert.Nil(t, resp.Technicians[2].Record)

	andiRecord := resp.Technicians[0].Record
	require.NotNil(t, andiRecord)
	assert.True(t, andiRecord.IsAutoCheckout)
	require.NotNil(t, andiRecord.ClockOutTime)
	assert.Equal(t, "2025-03-10T18:00:00+07:00", *andiRecord.ClockOutTime)
	assert.Equal(t, 9.17, *andiRecord.TotalWorkHours)

	budiRecord := resp.Technicians[1].Record
	require.NotNil(t, budiRecord)
	assert.True(t, budiRecord.IsLate)
	assert.True(t, budiRecord.IsEarlyLeave)
	assert.Equal(t, 8.25, *budiRecord.TotalWorkHours)

	storedAndi := f.store.Get(t, f.tenantID(), andi.UserID, testToday)
	assert.True(t, storedAndi.IsAutoCheckout)
	assert.True(t, storedAndi.ClockOut.Equal(*local(testToday, 18, 0)))

	storedBudi := f.store.Get(t, f.tenantID(), budi.UserID, testToday)
	assert.True(t, storedBudi.IsLate)
	assert.True(t, storedBudi.IsEarlyLeave)
}

func TestGetToday_BeforeEndOfDayLeavesRecordOpen(t *testing.T) {
	f := newServiceFixture(t, 17, 0)
	andi := f.tech(0)

	f.store.Put(t, attendance.Attendance{TenantID: f.tenantID(), UserID: andi.UserID, Date: testToday, ClockIn: local(testToday, 9, 0)})

	resp, err := f.service.GetToday(context.Background(), f.tenantID())
	require.NoError(t, err)

	record := resp.Technicians[0].Record
	require.NotNil(t, record)
	assert.Nil(t, record.ClockOutTime)
	assert.Nil(t, record.TotalWorkHours)
	assert.False(t, record.IsLate)

	stored := f.store.Get(t, f.tenantID(), andi.UserID, testToday)
	assert.Nil(t, stored.ClockOut)
}

func TestListRange_ForceClosesPastDays(t *testing.T) {
	f := newServiceFixture(t, 10, 0)
	andi, budi := f.tech(0), f.tech(1)
	past := clock.AddDays(testToday, -5)

	f.store.Put(t, attendance.Attendance{TenantID: f.tenantID(), UserID: andi.UserID, Date: past, ClockIn: local(past, 8, 50)})
	f.store.Put(t, attendance.Attendance{TenantID: f.tenantID(), UserID: budi.UserID, Date: past, ClockIn: local(past, 9, 0), ClockOut: local(past, 18, 0)})

	userID := andi.UserID
	resp, err := f.service.ListRange(context.Background(), f.tenantID(), attendance.RangeFilter{
		UserID:    &userID,
		StartDate: "2025-03-01",
		EndDate:   "2025-03-10",
	})
	require.NoError(t, err)

	require.Equal(t, 1, resp.TotalCount)
	got := resp.Attendances[0]
	assert.Equal(t, "2025-03-05", got.Date)
	assert.True(t, got.IsAutoCheckout)
	assert.Equal(t, "2025-03-05T18:00:00+07:00", *got.ClockOutTime)
	require.NotNil(t, got.TechnicianName)
	assert.Equal(t, "Andi Pratama", *got.TechnicianName)

	all, err := f.service.ListRange(context.Background(), f.tenantID(), attendance.RangeFilter{StartDate: "2025-03-01", EndDate: "2025-03-10"})
	require.NoError(t, err)
	assert.Equal(t, 2, all.TotalCount)
}

func TestListRange_Validation(t *testing.T) {
	f := newServiceFixture(t, 10, 0)
	ctx := context.Background()

	cases := []struct {
		name   string
		filter attendance.RangeFilter
		field  string
	}{
		{"missing start", attendance.RangeFilter{EndDate: "2025-03-10"}, "start_date"},
		{"malformed date", attendance.RangeFilter{StartDate: "2025-3-01", EndDate: "2025-03-10"}, "start_date"},
		{"end before start", attendance.RangeFilter{StartDate: "2025-03-10", EndDate: "2025-03-01"}, "end_date"},
		{"too large", attendance.RangeFilter{StartDate: "2025-01-01", EndDate: "2025-03-10"}, "end_date"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := f.service.ListRange(ctx, f.tenantID(), c.filter)

			var errs validator.ValidationErrors
			require.True(t, errors.As(err, &errs), "got %v", err)
			assert.Contains(t, errs.ToMap(), c.field)
		})
	}
}

func TestListRange_UnknownTechnician(t *testing.T) {
	f := newServiceFixture(t, 10, 0)
	stranger := uuid.NewString()

	_, err := f.service.ListRange(context.Background(), f.tenantID(), attendance.RangeFilter{
		UserID:    &stranger,
		StartDate: "2025-03-01",
		EndDate:   "2025-03-10",
	})
	assert.ErrorIs(t, err, technician.ErrTechnicianNotFound)
}

func TestListRange_FailedCorrectionWriteStillReturnsReconciledValue(t *testing.T) {
	f := newServiceFixture(t, 10, 0)
	andi := f.tech(0)
	past := clock.AddDays(testToday, -1)
	f.store.Put(t, attendance.Attendance{TenantID: f.tenantID(), UserID: andi.UserID, Date: past, ClockIn: local(past, 8, 50)})

	svc := NewAttendanceService(failingWrites{f.store.Attendance}, f.store.Technicians, f.store.Windows, clock.NewFixed(*local(testToday, 10, 0)))

	resp, err := svc.ListRange(context.Background(), f.tenantID(), attendance.RangeFilter{StartDate: "2025-03-09", EndDate: "2025-03-09"})
	require.NoError(t, err)
	require.Len(t, resp.Attendances, 1)
	assert.True(t, resp.Attendances[0].IsAutoCheckout)
	assert.NotNil(t, resp.Attendances[0].ClockOutTime)

	stored := f.store.Get(t, f.tenantID(), andi.UserID, past)
	assert.Nil(t, stored.ClockOut, "the failed write leaves the row for the next read to repair")
}

func TestReconcileRecords_EmptyInput(t *testing.T) {
	f := newServiceFixture(t, 10, 0)

	got, err := f.service.ReconcileRecords(context.Background(), f.tenantID(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWindowFor_UnconfiguredTenantUsesDefaults(t *testing.T) {
	store := sqlitetest.New(t)
	seeded := store.SeedTenant(t, fixtures.DemoTenant{Name: "Bare"})
	svc := NewAttendanceService(store.Attendance, store.Technicians, store.Windows, clock.NewFixed(time.Now()))

	window, err := svc.WindowFor(context.Background(), seeded.Tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, 9*60, window.StartMinute)
	assert.Equal(t, 18*60, window.EndMinute)
}
