package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/pkg/database"
	"github.com/google/uuid"
)

const attendanceColumns = `
	a.id, a.tenant_id, a.user_id, a.date, a.clock_in, a.clock_out,
	a.is_late, a.is_early_leave, a.is_auto_checkout, a.total_work_hours, a.notes,
	a.work_start_time, a.work_end_time, a.created_at, a.updated_at, t.full_name`

const attendanceFrom = `
	FROM attendances a
	LEFT JOIN technicians t ON t.tenant_id = a.tenant_id AND t.user_id = a.user_id`

type attendanceRepository struct {
	db *database.SQLiteDB
}

func NewAttendanceRepository(db *database.SQLiteDB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttendance(row rowScanner) (attendance.Attendance, error) {
	var (
		att                                   attendance.Attendance
		date, createdAt, updatedAt            string
		clockIn, clockOut, workStart, workEnd sql.NullString
		notes, technicianName                 sql.NullString
		hours                                 sql.NullFloat64
	)

	err := row.Scan(
		&att.ID, &att.TenantID, &att.UserID, &date, &clockIn, &clockOut,
		&att.IsLate, &att.IsEarlyLeave, &att.IsAutoCheckout, &hours, &notes,
		&workStart, &workEnd, &createdAt, &updatedAt, &technicianName,
	)
	if err != nil {
		return attendance.Attendance{}, err
	}

	if att.Date, err = clock.ParseDate(date); err != nil {
		return attendance.Attendance{}, fmt.Errorf("invalid stored date %q: %w", date, err)
	}
	if att.ClockIn, err = decodeInstant(clockIn); err != nil {
		return attendance.Attendance{}, err
	}
	if att.ClockOut, err = decodeInstant(clockOut); err != nil {
		return attendance.Attendance{}, err
	}
	if att.WorkStartTime, err = decodeInstant(workStart); err != nil {
		return attendance.Attendance{}, err
	}
	if att.WorkEndTime, err = decodeInstant(workEnd); err != nil {
		return attendance.Attendance{}, err
	}
	if created, err := decodeInstant(sql.NullString{String: createdAt, Valid: true}); err == nil && created != nil {
		att.CreatedAt = *created
	}
	if updated, err := decodeInstant(sql.NullString{String: updatedAt, Valid: true}); err == nil && updated != nil {
		att.UpdatedAt = *updated
	}
	if hours.Valid {
		h := hours.Float64
		att.TotalWorkHours = &h
	}
	att.Notes = nullString(notes)
	att.TechnicianName = nullString(technicianName)

	return att, nil
}

func collectAttendances(rows *sql.Rows) ([]attendance.Attendance, error) {
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
	q := getQuerier(ctx, a.db)

	query := `SELECT` + attendanceColumns + attendanceFrom + `
		WHERE a.tenant_id = ? AND a.user_id = ? AND a.date = ?`

	att, err := scanAttendance(q.QueryRowContext(ctx, query, tenantID, userID, encodeDate(date)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance: %w", err)
	}

	return &att, nil
}

// ListByTechniciansAndRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByTechniciansAndRange(ctx context.Context, tenantID string, userIDs []string, from, to time.Time) ([]attendance.Attendance, error) {
	q := getQuerier(ctx, a.db)

	args := []any{tenantID, encodeDate(from), encodeDate(to)}
	query := `SELECT` + attendanceColumns + attendanceFrom + `
		WHERE a.tenant_id = ? AND a.date BETWEEN ? AND ?`

	if len(userIDs) > 0 {
		placeholders := make([]string, len(userIDs))
		for i, id := range userIDs {
			placeholders[i] = "?"
			args = append(args, id)
		}
		query += ` AND a.user_id IN (` + strings.Join(placeholders, ", ") + `)`
	}
	query += ` ORDER BY a.date ASC, t.full_name ASC, a.user_id ASC`

	rows, err := q.QueryContext(ctx, query, args...)
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
	q := getQuerier(ctx, a.db)

	query := `SELECT` + attendanceColumns + attendanceFrom + `
		WHERE a.tenant_id = ?
		  AND a.date BETWEEN ? AND ?
		  AND a.clock_in IS NOT NULL
		  AND a.clock_out IS NULL
		ORDER BY a.date ASC`

	rows, err := q.QueryContext(ctx, query, tenantID, encodeDate(from), encodeDate(to))
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
	q := getQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET clock_out = ?, is_late = ?, is_early_leave = ?, is_auto_checkout = ?,
			total_work_hours = ?, work_start_time = ?, work_end_time = ?, updated_at = ?
		WHERE id = ? AND tenant_id = ? AND clock_out IS NULL`

	res, err := q.ExecContext(ctx, query,
		encodeInstant(att.ClockOut), att.IsLate, att.IsEarlyLeave, att.IsAutoCheckout,
		att.TotalWorkHours, encodeInstant(att.WorkStartTime), encodeInstant(att.WorkEndTime), now(),
		att.ID, att.TenantID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to force-close attendance: %w", err)
	}

	return affectedOne(res)
}

// UpdateDerived implements attendance.AttendanceRepository.
func (a *attendanceRepository) UpdateDerived(ctx context.Context, att attendance.Attendance) (bool, error) {
	q := getQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET is_late = ?, is_early_leave = ?, is_auto_checkout = ?, total_work_hours = ?, updated_at = ?
		WHERE id = ? AND tenant_id = ? AND clock_out IS ?`

	res, err := q.ExecContext(ctx, query,
		att.IsLate, att.IsEarlyLeave, att.IsAutoCheckout, att.TotalWorkHours, now(),
		att.ID, att.TenantID, encodeInstant(att.ClockOut),
	)
	if err != nil {
		return false, fmt.Errorf("failed to update attendance: %w", err)
	}

	return affectedOne(res)
}

// Upsert implements attendance.AttendanceRepository.
func (a *attendanceRepository) Upsert(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := getQuerier(ctx, a.db)

	if att.ID == "" {
		att.ID = uuid.NewString()
	}
	ts := now()

	query := `
		INSERT INTO attendances (
			id, tenant_id, user_id, date, clock_in, clock_out,
			is_late, is_early_leave, is_auto_checkout, total_work_hours, notes,
			work_start_time, work_end_time, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (tenant_id, user_id, date) DO UPDATE SET
			clock_in = excluded.clock_in,
			clock_out = excluded.clock_out,
			is_late = excluded.is_late,
			is_early_leave = excluded.is_early_leave,
			is_auto_checkout = excluded.is_auto_checkout,
			total_work_hours = excluded.total_work_hours,
			notes = excluded.notes,
			work_start_time = excluded.work_start_time,
			work_end_time = excluded.work_end_time,
			updated_at = excluded.updated_at`

	_, err := q.ExecContext(ctx, query,
		att.ID, att.TenantID, att.UserID, encodeDate(att.Date), encodeInstant(att.ClockIn), encodeInstant(att.ClockOut),
		att.IsLate, att.IsEarlyLeave, att.IsAutoCheckout, att.TotalWorkHours, att.Notes,
		encodeInstant(att.WorkStartTime), encodeInstant(att.WorkEndTime), ts, ts,
	)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to upsert attendance: %w", err)
	}

	var createdAt, updatedAt string
	err = q.QueryRowContext(ctx,
		`SELECT id, created_at, updated_at FROM attendances WHERE tenant_id = ? AND user_id = ? AND date = ?`,
		att.TenantID, att.UserID, encodeDate(att.Date),
	).Scan(&att.ID, &createdAt, &updatedAt)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to read upserted attendance: %w", err)
	}
	att.CreatedAt, _ = time.Parse(instantLayout, createdAt)
	att.UpdatedAt, _ = time.Parse(instantLayout, updatedAt)

	return att, nil
}

func affectedOne(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n == 1, nil
}
