package roster

import (
	"time"

	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/pkg/validator"
)

// ========================================
// MONTH QUERY
// ========================================

// MonthQuery selects a calendar month. An empty Month means the current business month.
type MonthQuery struct {
	Month string `json:"month" validate:"omitempty,datetime=2006-01"`
}

func (q *MonthQuery) Validate() error {
	if err := validator.Struct(q); err != nil {
		return err
	}

	if q.Month != "" && !validator.IsValidMonth(q.Month) {
		return validator.ValidationErrors{{
			Field:   "month",
			Message: ErrInvalidMonth.Error(),
		}}
	}

	return nil
}

// Start returns the first day of the requested month, falling back to the clock's month.
// Call after Validate.
func (q MonthQuery) Start(c *clock.Clock) time.Time {
	if q.Month == "" {
		return c.MonthStart()
	}
	start, err := clock.ParseMonth(q.Month)
	if err != nil {
		return c.MonthStart()
	}
	return start
}

// ========================================
// MONTHLY ROSTER
// ========================================

type TechnicianSummary struct {
	UserID                 string  `json:"user_id"`
	TechnicianName         string  `json:"technician_name"`
	Email                  *string `json:"email,omitempty"`
	DaysClockedIn          int     `json:"days_clocked_in"`
	DaysComplete           int     `json:"days_complete"`
	MissingClockOut        int     `json:"missing_clock_out"`
	TotalHours             float64 `json:"total_hours"`
	AvgHoursPerCompleteDay float64 `json:"avg_hours_per_complete_day"`
	LateDays               int     `json:"late_days"`
	EarlyLeaveDays         int     `json:"early_leave_days"`
	AutoCheckoutDays       int     `json:"auto_checkout_days"`
}

type Totals struct {
	Headcount              int     `json:"headcount"`
	DaysClockedIn          int     `json:"days_clocked_in"`
	DaysComplete           int     `json:"days_complete"`
	MissingClockOut        int     `json:"missing_clock_out"`
	TotalHours             float64 `json:"total_hours"`
	AvgHoursPerCompleteDay float64 `json:"avg_hours_per_complete_day"`
	LateDays               int     `json:"late_days"`
	EarlyLeaveDays         int     `json:"early_leave_days"`
	AutoCheckoutDays       int     `json:"auto_checkout_days"`
}

type MonthlyRoster struct {
	Month       string              `json:"month"`
	PeriodStart string              `json:"period_start"`
	PeriodEnd   string              `json:"period_end"`
	Technicians []TechnicianSummary `json:"technicians"`
	Totals      Totals              `json:"totals"`
}

// ========================================
// DAY GRID
// ========================================

type DayEntry struct {
	Date      string                         `json:"date"`
	DayOfWeek string                         `json:"day_of_week"`
	Record    *attendance.AttendanceResponse `json:"record"`
}

type TechnicianMonth struct {
	Month   string            `json:"month"`
	Summary TechnicianSummary `json:"summary"`
	Days    []DayEntry        `json:"days"`
}

// Export is a rendered roster workbook.
type Export struct {
	Filename string
	Content  []byte
}
