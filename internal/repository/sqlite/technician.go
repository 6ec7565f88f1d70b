package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/technician"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/pkg/database"
	"github.com/google/uuid"
)

type technicianRepository struct {
	db *database.SQLiteDB
}

func NewTechnicianRepository(db *database.SQLiteDB) technician.Repository {
	return &technicianRepository{db: db}
}

func scanTechnician(row rowScanner) (technician.Technician, error) {
	var (
		t     technician.Technician
		email sql.NullString
	)
	if err := row.Scan(&t.ID, &t.TenantID, &t.UserID, &t.FullName, &email, &t.IsActive); err != nil {
		return technician.Technician{}, err
	}
	t.Email = nullString(email)
	return t, nil
}

// ListByTenant implements technician.Repository.
func (r *technicianRepository) ListByTenant(ctx context.Context, tenantID string) ([]technician.Technician, error) {
	q := getQuerier(ctx, r.db)

	rows, err := q.QueryContext(ctx, `
		SELECT id, tenant_id, user_id, full_name, email, is_active
		FROM technicians
		WHERE tenant_id = ? AND is_active = 1
		ORDER BY full_name ASC, user_id ASC`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list technicians: %w", err)
	}
	defer rows.Close()

	var technicians []technician.Technician
	for rows.Next() {
		t, err := scanTechnician(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan technician: %w", err)
		}
		technicians = append(technicians, t)
	}

	return technicians, rows.Err()
}

// GetByUserID implements technician.Repository.
func (r *technicianRepository) GetByUserID(ctx context.Context, tenantID string, userID string) (technician.Technician, error) {
	q := getQuerier(ctx, r.db)

	t, err := scanTechnician(q.QueryRowContext(ctx, `
		SELECT id, tenant_id, user_id, full_name, email, is_active
		FROM technicians
		WHERE tenant_id = ? AND user_id = ?`,
		tenantID, userID,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return technician.Technician{}, technician.ErrTechnicianNotFound
		}
		return technician.Technician{}, fmt.Errorf("failed to get technician: %w", err)
	}

	return t, nil
}

// Create implements technician.Repository.
func (r *technicianRepository) Create(ctx context.Context, t technician.Technician) (technician.Technician, error) {
	q := getQuerier(ctx, r.db)

	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO technicians (id, tenant_id, user_id, full_name, email, is_active)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.TenantID, t.UserID, t.FullName, t.Email, t.IsActive,
	)
	if err != nil {
		return technician.Technician{}, fmt.Errorf("failed to create technician: %w", err)
	}

	return t, nil
}
