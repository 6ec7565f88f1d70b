package attendance

import (
	"time"
)

// Attendance is one row per (tenant, technician, business date).
// IsLate, IsEarlyLeave, IsAutoCheckout and TotalWorkHours are derived from
// ClockIn/ClockOut and the tenant work window; persisted values are a cache.
type Attendance struct {
	ID             string
	TenantID       string
	UserID         string
	Date           time.Time
	ClockIn        *time.Time
	ClockOut       *time.Time
	IsLate         bool
	IsEarlyLeave   bool
	IsAutoCheckout bool
	TotalWorkHours *float64
	Notes          *string

	// Legacy mirrors of ClockIn/ClockOut kept for older consumers.
	WorkStartTime *time.Time
	WorkEndTime   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	TechnicianName *string
}

// IsOpen reports whether the technician clocked in but has not clocked out.
func (a Attendance) IsOpen() bool {
	return a.ClockIn != nil && a.ClockOut == nil
}

// IsClosed reports whether both timestamps are present.
func (a Attendance) IsClosed() bool {
	return a.ClockIn != nil && a.ClockOut != nil
}
