package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
// All methods include tenantID to prevent cross-tenant data access.
type AttendanceRepository interface {
	// GetByTechnicianAndDate returns nil, nil when the technician has no row for the date.
	GetByTechnicianAndDate(ctx context.Context, tenantID string, userID string, date time.Time) (*Attendance, error)

	// ListByTechniciansAndRange returns rows with date in [from, to], ordered by date then user.
	// An empty userIDs slice means every technician of the tenant.
	ListByTechniciansAndRange(ctx context.Context, tenantID string, userIDs []string, from, to time.Time) ([]Attendance, error)

	// ListOpenInRange returns rows with clock_in set and clock_out unset, date in [from, to].
	ListOpenInRange(ctx context.Context, tenantID string, from, to time.Time) ([]Attendance, error)

	// ForceClose writes an auto-checkout only if clock_out is still NULL.
	// It reports false when another writer closed the row first.
	ForceClose(ctx context.Context, att Attendance) (bool, error)

	// UpdateDerived writes the derived flags only if clock_out still holds the value
	// the caller read, so a concurrent clock-out is never clobbered.
	UpdateDerived(ctx context.Context, att Attendance) (bool, error)

	// Upsert inserts or replaces the row identified by (tenant, user, date).
	Upsert(ctx context.Context, att Attendance) (Attendance, error)
}
