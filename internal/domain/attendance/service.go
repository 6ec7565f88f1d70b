package attendance

import (
	"context"
)

// AttendanceService defines the interactive read paths. Every path reconciles the
// rows it returns and persists corrections on a best-effort basis.
type AttendanceService interface {
	// GetToday returns every technician of the tenant with today's reconciled record.
	GetToday(ctx context.Context, tenantID string) (TodayResponse, error)

	// ListRange returns reconciled records within a date range.
	ListRange(ctx context.Context, tenantID string, filter RangeFilter) (ListAttendanceResponse, error)

	// ReconcileRecords reconciles rows already loaded by another read path.
	ReconcileRecords(ctx context.Context, tenantID string, records []Attendance) ([]Attendance, error)
}
