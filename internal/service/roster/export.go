package roster

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/roster"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/pkg/clock"
	"github.com/xuri/excelize/v2"
)

const (
	rosterSheet = "Roster"
	dailySheet  = "Daily"
)

var (
	rosterHeader = []interface{}{
		"Technician", "Email", "Days Clocked In", "Days Complete", "Missing Clock-Out",
		"Total Hours", "Avg Hours / Complete Day", "Late Days", "Early Leave Days", "Auto Checkout Days",
	}
	dailyHeader = []interface{}{
		"Date", "Technician", "Clock In", "Clock Out", "Late", "Early Leave", "Auto Checkout", "Hours", "Notes",
	}
)

// ExportMonthlyRoster implements roster.RosterService.
func (s *RosterServiceImpl) ExportMonthlyRoster(ctx context.Context, tenantID string, query roster.MonthQuery) (roster.Export, error) {
	if err := query.Validate(); err != nil {
		return roster.Export{}, err
	}

	monthStart := query.Start(s.clock)

	technicians, err := s.technicianRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		return roster.Export{}, fmt.Errorf("failed to list technicians: %w", err)
	}

	var records []attendance.Attendance
	if len(technicians) > 0 {
		records, err = s.loadMonth(ctx, tenantID, technicianUserIDs(technicians), monthStart)
		if err != nil {
			return roster.Export{}, err
		}
	}

	names := make(map[string]string, len(technicians))
	for _, tech := range technicians {
		names[tech.UserID] = tech.FullName
	}

	summaries, totals := Aggregate(technicians, records)
	content, err := renderWorkbook(summaries, totals, records, names)
	if err != nil {
		return roster.Export{}, err
	}

	return roster.Export{
		Filename: fmt.Sprintf("roster-%s.xlsx", monthStart.Format(clock.MonthLayout)),
		Content:  content,
	}, nil
}

func renderWorkbook(summaries []roster.TechnicianSummary, totals roster.Totals, records []attendance.Attendance, names map[string]string) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), rosterSheet); err != nil {
		return nil, fmt.Errorf("failed to name roster sheet: %w", err)
	}
	if _, err := f.NewSheet(dailySheet); err != nil {
		return nil, fmt.Errorf("failed to create daily sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	rows := make([][]interface{}, 0, len(summaries)+2)
	rows = append(rows, rosterHeader)
	for _, s := range summaries {
		email := ""
		if s.Email != nil {
			email = *s.Email
		}
		rows = append(rows, []interface{}{
			s.TechnicianName, email, s.DaysClockedIn, s.DaysComplete, s.MissingClockOut,
			s.TotalHours, s.AvgHoursPerCompleteDay, s.LateDays, s.EarlyLeaveDays, s.AutoCheckoutDays,
		})
	}
	rows = append(rows, []interface{}{
		"TOTAL", fmt.Sprintf("%d technicians", totals.Headcount), totals.DaysClockedIn, totals.DaysComplete, totals.MissingClockOut,
		totals.TotalHours, totals.AvgHoursPerCompleteDay, totals.LateDays, totals.EarlyLeaveDays, totals.AutoCheckoutDays,
	})
	if err := writeRows(f, rosterSheet, rows); err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(rosterSheet, 1, 1, bold); err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(rosterSheet, len(rows), len(rows), bold); err != nil {
		return nil, err
	}

	daily := make([][]interface{}, 0, len(records)+1)
	daily = append(daily, dailyHeader)
	for _, att := range records {
		resp := attendance.ToResponse(att)
		name := names[att.UserID]
		if att.TechnicianName != nil {
			name = *att.TechnicianName
		}
		daily = append(daily, []interface{}{
			resp.Date, name, clockCell(att.ClockIn), clockCell(att.ClockOut),
			yesNo(att.IsLate), yesNo(att.IsEarlyLeave), yesNo(att.IsAutoCheckout),
			hoursCell(att.TotalWorkHours), stringCell(att.Notes),
		})
	}
	if err := writeRows(f, dailySheet, daily); err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(dailySheet, 1, 1, bold); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// clockCell renders an instant as HH:MM in the business timezone.
func clockCell(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.In(clock.BusinessLocation).Format("15:04")
}

func hoursCell(h *float64) interface{} {
	if h == nil {
		return ""
	}
	return *h
}

func stringCell(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
