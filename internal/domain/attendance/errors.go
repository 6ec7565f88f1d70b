package attendance

import "errors"

// Attendance domain errors
var (
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrInvalidDateRange   = errors.New("end_date must not be before start_date")
	ErrDateRangeTooLarge  = errors.New("date range is too large")
)
