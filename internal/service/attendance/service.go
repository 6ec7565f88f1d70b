package attendance

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/technician"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/workwindow"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/pkg/clock"
)

type AttendanceServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	technicianRepo technician.Repository
	windowRepo     workwindow.Repository
	clock          *clock.Clock
	reconciler     *Reconciler
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	technicianRepo technician.Repository,
	windowRepo workwindow.Repository,
	c *clock.Clock,
) *AttendanceServiceImpl {
	return &AttendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		technicianRepo: technicianRepo,
		windowRepo:     windowRepo,
		clock:          c,
		reconciler:     NewReconciler(c),
	}
}

// WindowFor resolves the tenant's effective work window. A missing configuration row
// resolves to the defaults; only storage failures surface.
func (s *AttendanceServiceImpl) WindowFor(ctx context.Context, tenantID string) (workwindow.WorkWindow, error) {
	setting, err := s.windowRepo.GetByTenant(ctx, tenantID)
	if err != nil {
		return workwindow.WorkWindow{}, fmt.Errorf("failed to get work window: %w", err)
	}
	return setting.Window(), nil
}

// GetToday implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetToday(ctx context.Context, tenantID string) (attendance.TodayResponse, error) {
	window, err := s.WindowFor(ctx, tenantID)
	if err != nil {
		return attendance.TodayResponse{}, err
	}

	today := s.clock.Today()
	resp := attendance.TodayResponse{
		Date: clock.FormatDate(today),
		WorkWindow: attendance.WorkWindowResponse{
			StartTime: clock.FormatTimeOfDay(window.StartMinute),
			EndTime:   clock.FormatTimeOfDay(window.EndMinute),
		},
		Technicians: []attendance.TodayEntry{},
	}

	technicians, err := s.technicianRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		return attendance.TodayResponse{}, fmt.Errorf("failed to list technicians: %w", err)
	}
	if len(technicians) == 0 {
		return resp, nil
	}

	userIDs := make([]string, 0, len(technicians))
	for _, tech := range technicians {
		userIDs = append(userIDs, tech.UserID)
	}

	records, err := s.attendanceRepo.ListByTechniciansAndRange(ctx, tenantID, userIDs, today, today)
	if err != nil {
		return attendance.TodayResponse{}, fmt.Errorf("failed to list today's attendance: %w", err)
	}

	reconciled := s.reconcileWith(ctx, window, records)
	byUser := make(map[string]attendance.Attendance, len(reconciled))
	for _, att := range reconciled {
		byUser[att.UserID] = att
	}

	for _, tech := range technicians {
		entry := attendance.TodayEntry{
			UserID:         tech.UserID,
			TechnicianName: tech.FullName,
		}
		if att, ok := byUser[tech.UserID]; ok {
			r := attendance.ToResponse(att)
			entry.Record = &r
		}
		resp.Technicians = append(resp.Technicians, entry)
	}

	return resp, nil
}

// ListRange implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListRange(ctx context.Context, tenantID string, filter attendance.RangeFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	var userIDs []string
	if filter.UserID != nil {
		if _, err := s.technicianRepo.GetByUserID(ctx, tenantID, *filter.UserID); err != nil {
			return attendance.ListAttendanceResponse{}, err
		}
		userIDs = []string{*filter.UserID}
	}

	start, end := filter.Bounds()
	records, err := s.attendanceRepo.ListByTechniciansAndRange(ctx, tenantID, userIDs, start, end)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendances: %w", err)
	}

	reconciled, err := s.ReconcileRecords(ctx, tenantID, records)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	responses := make([]attendance.AttendanceResponse, 0, len(reconciled))
	for _, att := range reconciled {
		responses = append(responses, attendance.ToResponse(att))
	}

	return attendance.ListAttendanceResponse{
		StartDate:   filter.StartDate,
		EndDate:     filter.EndDate,
		TotalCount:  len(responses),
		Attendances: responses,
	}, nil
}

// ReconcileRecords implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ReconcileRecords(ctx context.Context, tenantID string, records []attendance.Attendance) ([]attendance.Attendance, error) {
	if len(records) == 0 {
		return records, nil
	}

	window, err := s.WindowFor(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	return s.reconcileWith(ctx, window, records), nil
}

func (s *AttendanceServiceImpl) reconcileWith(ctx context.Context, window workwindow.WorkWindow, records []attendance.Attendance) []attendance.Attendance {
	today := s.clock.Today()
	nowMinute := s.clock.NowMinute()

	reconciled := make([]attendance.Attendance, 0, len(records))
	for _, stored := range records {
		next, dirty := s.reconciler.ReconcileOne(stored, window, today, nowMinute)
		if dirty {
			s.persistCorrection(ctx, stored, next)
		}
		reconciled = append(reconciled, next)
	}

	return reconciled
}

// persistCorrection writes a reconciled record back. Failures are logged and dropped:
// the caller always gets the freshly computed value.
func (s *AttendanceServiceImpl) persistCorrection(ctx context.Context, stored, next attendance.Attendance) {
	var (
		applied bool
		err     error
	)

	if stored.ClockOut == nil && next.ClockOut != nil {
		applied, err = s.attendanceRepo.ForceClose(ctx, next)
	} else {
		applied, err = s.attendanceRepo.UpdateDerived(ctx, next)
	}

	if err != nil {
		slog.Warn("Failed to persist attendance correction",
			"attendance_id", next.ID,
			"tenant_id", next.TenantID,
			"error", err)
		return
	}
	if !applied {
		slog.Info("Attendance changed concurrently, correction skipped",
			"attendance_id", next.ID,
			"tenant_id", next.TenantID)
	}
}
