package roster

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/roster"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/technician"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/pkg/clock"
)

// RosterServiceImpl loads a month of records, reconciles them through the attendance
// service and folds them into roster views.
type RosterServiceImpl struct {
	attendanceRepo    attendance.AttendanceRepository
	technicianRepo    technician.Repository
	attendanceService attendance.AttendanceService
	clock             *clock.Clock
}

func NewRosterService(
	attendanceRepo attendance.AttendanceRepository,
	technicianRepo technician.Repository,
	attendanceService attendance.AttendanceService,
	c *clock.Clock,
) *RosterServiceImpl {
	return &RosterServiceImpl{
		attendanceRepo:    attendanceRepo,
		technicianRepo:    technicianRepo,
		attendanceService: attendanceService,
		clock:             c,
	}
}

// GetMonthlyRoster implements roster.RosterService.
func (s *RosterServiceImpl) GetMonthlyRoster(ctx context.Context, tenantID string, query roster.MonthQuery) (roster.MonthlyRoster, error) {
	if err := query.Validate(); err != nil {
		return roster.MonthlyRoster{}, err
	}

	monthStart := query.Start(s.clock)
	monthEnd := monthStart.AddDate(0, 1, -1)

	technicians, err := s.technicianRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		return roster.MonthlyRoster{}, fmt.Errorf("failed to list technicians: %w", err)
	}

	var records []attendance.Attendance
	if len(technicians) > 0 {
		records, err = s.loadMonth(ctx, tenantID, technicianUserIDs(technicians), monthStart)
		if err != nil {
			return roster.MonthlyRoster{}, err
		}
	}

	summaries, totals := Aggregate(technicians, records)

	return roster.MonthlyRoster{
		Month:       monthStart.Format(clock.MonthLayout),
		PeriodStart: clock.FormatDate(monthStart),
		PeriodEnd:   clock.FormatDate(monthEnd),
		Technicians: summaries,
		Totals:      totals,
	}, nil
}

// GetTechnicianMonth implements roster.RosterService.
func (s *RosterServiceImpl) GetTechnicianMonth(ctx context.Context, tenantID string, userID string, query roster.MonthQuery) (roster.TechnicianMonth, error) {
	if err := query.Validate(); err != nil {
		return roster.TechnicianMonth{}, err
	}

	tech, err := s.technicianRepo.GetByUserID(ctx, tenantID, userID)
	if err != nil {
		return roster.TechnicianMonth{}, err
	}

	monthStart := query.Start(s.clock)
	records, err := s.loadMonth(ctx, tenantID, []string{tech.UserID}, monthStart)
	if err != nil {
		return roster.TechnicianMonth{}, err
	}

	days, err := DayGrid(monthStart, records)
	if err != nil {
		return roster.TechnicianMonth{}, err
	}

	return roster.TechnicianMonth{
		Month:   monthStart.Format(clock.MonthLayout),
		Summary: Summarize(tech, records),
		Days:    days,
	}, nil
}

// loadMonth reads and reconciles the records of [monthStart, monthStart+1month).
func (s *RosterServiceImpl) loadMonth(ctx context.Context, tenantID string, userIDs []string, monthStart time.Time) ([]attendance.Attendance, error) {
	monthEnd := monthStart.AddDate(0, 1, -1)

	records, err := s.attendanceRepo.ListByTechniciansAndRange(ctx, tenantID, userIDs, monthStart, monthEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to list month attendance: %w", err)
	}

	return s.attendanceService.ReconcileRecords(ctx, tenantID, records)
}

func technicianUserIDs(technicians []technician.Technician) []string {
	ids := make([]string, 0, len(technicians))
	for _, tech := range technicians {
		ids = append(ids, tech.UserID)
	}
	return ids
}
