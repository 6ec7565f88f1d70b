package attendance

import (
	"time"

	"github.com/cmlabs-hris/fieldops-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/pkg/validator"
)

// MaxRangeDays bounds ListRange so a single request cannot reconcile unbounded history.
const MaxRangeDays = 62

// ========================================
// ATTENDANCE DTOs
// ========================================

type AttendanceResponse struct {
	ID             string   `json:"id"`
	UserID         string   `json:"user_id"`
	TechnicianName *string  `json:"technician_name,omitempty"`
	Date           string   `json:"date"`
	ClockInTime    *string  `json:"clock_in_time"`
	ClockOutTime   *string  `json:"clock_out_time"`
	IsLate         bool     `json:"is_late"`
	IsEarlyLeave   bool     `json:"is_early_leave"`
	IsAutoCheckout bool     `json:"is_auto_checkout"`
	TotalWorkHours *float64 `json:"total_work_hours"`
	Notes          *string  `json:"notes,omitempty"`
	WorkStartTime  *string  `json:"work_start_time,omitempty"`
	WorkEndTime    *string  `json:"work_end_time,omitempty"`
}

// timePtrToString renders an instant in the business timezone.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.In(clock.BusinessLocation).Format(time.RFC3339)
	return &format
}

// ToResponse maps a reconciled record to its wire shape.
func ToResponse(att Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:             att.ID,
		UserID:         att.UserID,
		TechnicianName: att.TechnicianName,
		Date:           clock.FormatDate(att.Date),
		ClockInTime:    timePtrToString(att.ClockIn),
		ClockOutTime:   timePtrToString(att.ClockOut),
		IsLate:         att.IsLate,
		IsEarlyLeave:   att.IsEarlyLeave,
		IsAutoCheckout: att.IsAutoCheckout,
		TotalWorkHours: att.TotalWorkHours,
		Notes:          att.Notes,
		WorkStartTime:  timePtrToString(att.WorkStartTime),
		WorkEndTime:    timePtrToString(att.WorkEndTime),
	}
}

type WorkWindowResponse struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type TodayEntry struct {
	UserID         string              `json:"user_id"`
	TechnicianName string              `json:"technician_name"`
	Record         *AttendanceResponse `json:"record"`
}

type TodayResponse struct {
	Date        string             `json:"date"`
	WorkWindow  WorkWindowResponse `json:"work_window"`
	Technicians []TodayEntry       `json:"technicians"`
}

// RangeFilter selects records for ListRange.
type RangeFilter struct {
	UserID    *string `json:"user_id,omitempty" validate:"omitempty,uuid"`
	StartDate string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string  `json:"end_date" validate:"required,datetime=2006-01-02"`
}

func (f *RangeFilter) Validate() error {
	if err := validator.Struct(f); err != nil {
		return err
	}

	var errs validator.ValidationErrors

	start, _ := clock.ParseDate(f.StartDate)
	end, _ := clock.ParseDate(f.EndDate)
	if end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: ErrInvalidDateRange.Error(),
		})
	} else if int(end.Sub(start).Hours()/24) >= MaxRangeDays {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "date range must not exceed 62 days",
		})
	}

	if f.UserID != nil && validator.IsEmpty(*f.UserID) {
		f.UserID = nil
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Bounds returns the parsed range. Call after Validate.
func (f RangeFilter) Bounds() (time.Time, time.Time) {
	start, _ := clock.ParseDate(f.StartDate)
	end, _ := clock.ParseDate(f.EndDate)
	return start, end
}

type ListAttendanceResponse struct {
	StartDate   string               `json:"start_date"`
	EndDate     string               `json:"end_date"`
	TotalCount  int                  `json:"total_count"`
	Attendances []AttendanceResponse `json:"attendances"`
}
