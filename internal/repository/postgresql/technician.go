package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/technician"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// invalidTextRepresentation is raised when a malformed UUID is compared to a uuid column.
const invalidTextRepresentation = "22P02"

type technicianRepository struct {
	db *database.DB
}

func NewTechnicianRepository(db *database.DB) technician.Repository {
	return &technicianRepository{db: db}
}

// ListByTenant implements technician.Repository.
func (r *technicianRepository) ListByTenant(ctx context.Context, tenantID string) ([]technician.Technician, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, tenant_id, user_id, full_name, email, is_active
		FROM technicians
		WHERE tenant_id = $1
		  AND is_active = TRUE
		ORDER BY full_name ASC, user_id ASC
	`

	rows, err := q.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list technicians: %w", err)
	}
	defer rows.Close()

	var technicians []technician.Technician
	for rows.Next() {
		var t technician.Technician
		if err := rows.Scan(&t.ID, &t.TenantID, &t.UserID, &t.FullName, &t.Email, &t.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan technician: %w", err)
		}
		technicians = append(technicians, t)
	}

	return technicians, rows.Err()
}

// GetByUserID implements technician.Repository.
func (r *technicianRepository) GetByUserID(ctx context.Context, tenantID string, userID string) (technician.Technician, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, tenant_id, user_id, full_name, email, is_active
		FROM technicians
		WHERE tenant_id = $1
		  AND user_id = $2
	`

	var t technician.Technician
	err := q.QueryRow(ctx, query, tenantID, userID).Scan(&t.ID, &t.TenantID, &t.UserID, &t.FullName, &t.Email, &t.IsActive)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.Is(err, pgx.ErrNoRows) || (errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentation) {
			return technician.Technician{}, technician.ErrTechnicianNotFound
		}
		return technician.Technician{}, fmt.Errorf("failed to get technician: %w", err)
	}

	return t, nil
}

// Create implements technician.Repository.
func (r *technicianRepository) Create(ctx context.Context, t technician.Technician) (technician.Technician, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO technicians (id, tenant_id, user_id, full_name, email, is_active)
		VALUES (COALESCE(NULLIF($1::text, '')::uuid, gen_random_uuid()), $2, $3, $4, $5, $6)
		RETURNING id
	`

	if err := q.QueryRow(ctx, query, t.ID, t.TenantID, t.UserID, t.FullName, t.Email, t.IsActive).Scan(&t.ID); err != nil {
		return technician.Technician{}, fmt.Errorf("failed to create technician: %w", err)
	}

	return t, nil
}
