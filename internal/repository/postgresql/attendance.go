package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const attendanceColumns = `
	a.id, a.tenant_id, a.user_id, a.date, a.clock_in, a.clock_out,
	a.is_late, a.is_early_leave, a.is_auto_checkout, a.total_work_hours, a.notes,
	a.work_start_time, a.work_end_time, a.created_at, a.updated_at, t.full_name`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	err := row.Scan(
		&att.ID, &att.TenantID, &att.UserID, &att.Date, &att.ClockIn, &att.ClockOut,
		&att.IsLate, &att.IsEarlyLeave, &att.IsAutoCheckout, &att.TotalWorkHours, &att.Notes,
		&att.WorkStartTime, &att.WorkEndTime, &att.CreatedAt, &att.UpdatedAt, &att.TechnicianName,
	)
	return att, err
}

func collectAttendances(rows pgx.Rows) ([]attendance.Attendance, error) {
	defer rows.Close()

	var result []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, att)
	}
	return result, rows.Err()
}

// GetByTechnicianAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByTechnicianAndDate(ctx context.Context, tenantID string, userID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT` + attendanceColumns + `
		FROM attendances a
		LEFT JOIN technicians t ON t.tenant_id = a.tenant_id AND t.user_id = a.user_id
		WHERE a.tenant_id = $1
		  AND a.user_id = $2
		  AND a.date = $3
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, tenantID, userID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance: %w", err)
	}

	return &att, nil
}

// ListByTechniciansAndRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByTechniciansAndRange(ctx context.Context, tenantID string, userIDs []string, from, to time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT` + attendanceColumns + `
		FROM attendances a
		LEFT JOIN technicians t ON t.tenant_id = a.tenant_id AND t.user_id = a.user_id
		WHERE a.tenant_id = $1
		  AND a.date BETWEEN $2 AND $3
		  AND (cardinality($4::uuid[]) = 0 OR a.user_id = ANY($4::uuid[]))
		ORDER BY a.date ASC, t.full_name ASC, a.user_id ASC
	`

	if userIDs == nil {
		userIDs = []string{}
	}

	rows, err := q.Query(ctx, query, tenantID, from, to, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances: %w", err)
	}

	result, err := collectAttendances(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan attendances: %w", err)
	}
	return result, nil
}

// ListOpenInRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListOpenInRange(ctx context.Context, tenantID string, from, to time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT` + attendanceColumns + `
		FROM attendances a
		LEFT JOIN technicians t ON t.tenant_id = a.tenant_id AND t.user_id = a.user_id
		WHERE a.tenant_id = $1
		  AND a.date BETWEEN $2 AND $3
		  AND a.clock_in IS NOT NULL
		  AND a.clock_out IS NULL
		ORDER BY a.date ASC
	`

	rows, err := q.Query(ctx, query, tenantID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list open attendances: %w", err)
	}

	result, err := collectAttendances(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan open attendances: %w", err)
	}
	return result, nil
}

// ForceClose implements attendance.AttendanceRepository.
func (a *attendanceRepository) ForceClose(ctx context.Context, att attendance.Attendance) (bool, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET clock_out = $3,
			is_late = $4,
			is_early_leave = $5,
			is_auto_checkout = $6,
			total_work_hours = $7,
			work_start_time = $8,
			work_end_time = $9,
			updated_at = NOW()
		WHERE id = $1
		  AND tenant_id = $2
		  AND clock_out IS NULL
	`

	tag, err := q.Exec(ctx, query,
		att.ID, att.TenantID, att.ClockOut,
		att.IsLate, att.IsEarlyLeave, att.IsAutoCheckout, att.TotalWorkHours,
		att.WorkStartTime, att.WorkEndTime,
	)
	if err != nil {
		return false, fmt.Errorf("failed to force-close attendance: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// UpdateDerived implements attendance.AttendanceRepository.
func (a *attendanceRepository) UpdateDerived(ctx context.Context, att attendance.Attendance) (bool, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET is_late = $3,
			is_early_leave = $4,
			is_auto_checkout = $5,
			total_work_hours = $6,
			updated_at = NOW()
		WHERE id = $1
		  AND tenant_id = $2
		  AND clock_out IS NOT DISTINCT FROM $7::timestamptz
	`

	tag, err := q.Exec(ctx, query,
		att.ID, att.TenantID,
		att.IsLate, att.IsEarlyLeave, att.IsAutoCheckout, att.TotalWorkHours,
		att.ClockOut,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update attendance: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// Upsert implements attendance.AttendanceRepository.
func (a *attendanceRepository) Upsert(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (
			tenant_id, user_id, date, clock_in, clock_out,
			is_late, is_early_leave, is_auto_checkout, total_work_hours, notes,
			work_start_time, work_end_time
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)
		ON CONFLICT (tenant_id, user_id, date) DO UPDATE SET
			clock_in = EXCLUDED.clock_in,
			clock_out = EXCLUDED.clock_out,
			is_late = EXCLUDED.is_late,
			is_early_leave = EXCLUDED.is_early_leave,
			is_auto_checkout = EXCLUDED.is_auto_checkout,
			total_work_hours = EXCLUDED.total_work_hours,
			notes = EXCLUDED.notes,
			work_start_time = EXCLUDED.work_start_time,
			work_end_time = EXCLUDED.work_end_time,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		att.TenantID, att.UserID, att.Date, att.ClockIn, att.ClockOut,
		att.IsLate, att.IsEarlyLeave, att.IsAutoCheckout, att.TotalWorkHours, att.Notes,
		att.WorkStartTime, att.WorkEndTime,
	).Scan(&att.ID, &att.CreatedAt, &att.UpdatedAt)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to upsert attendance: %w", err)
	}

	return att, nil
}
