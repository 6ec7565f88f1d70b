package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/workwindow"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type workWindowRepository struct {
	db *database.DB
}

func NewWorkWindowRepository(db *database.DB) workwindow.Repository {
	return &workWindowRepository{db: db}
}

// GetByTenant implements workwindow.Repository. A tenant without a settings row
// yields an empty Setting, which resolves to the defaults.
func (r *workWindowRepository) GetByTenant(ctx context.Context, tenantID string) (workwindow.Setting, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT tenant_id, work_start_time, work_end_time
		FROM tenant_settings
		WHERE tenant_id = $1
	`

	setting := workwindow.Setting{TenantID: tenantID}
	err := q.QueryRow(ctx, query, tenantID).Scan(&setting.TenantID, &setting.StartTime, &setting.EndTime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return workwindow.Setting{TenantID: tenantID}, nil
		}
		return workwindow.Setting{}, fmt.Errorf("failed to get tenant settings: %w", err)
	}

	return setting, nil
}

// ListAll implements workwindow.Repository.
func (r *workWindowRepository) ListAll(ctx context.Context) ([]workwindow.Setting, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT t.id, s.work_start_time, s.work_end_time
		FROM tenants t
		LEFT JOIN tenant_settings s ON s.tenant_id = t.id
		ORDER BY t.id
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenant settings: %w", err)
	}
	defer rows.Close()

	var settings []workwindow.Setting
	for rows.Next() {
		var s workwindow.Setting
		if err := rows.Scan(&s.TenantID, &s.StartTime, &s.EndTime); err != nil {
			return nil, fmt.Errorf("failed to scan tenant settings: %w", err)
		}
		settings = append(settings, s)
	}

	return settings, rows.Err()
}

// Save implements workwindow.Repository.
func (r *workWindowRepository) Save(ctx context.Context, setting workwindow.Setting) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO tenant_settings (tenant_id, work_start_time, work_end_time)
		VALUES ($1, $2, $3)
		ON CONFLICT (tenant_id) DO UPDATE SET
			work_start_time = EXCLUDED.work_start_time,
			work_end_time = EXCLUDED.work_end_time,
			updated_at = NOW()
	`

	if _, err := q.Exec(ctx, query, setting.TenantID, setting.StartTime, setting.EndTime); err != nil {
		return fmt.Errorf("failed to save tenant settings: %w", err)
	}
	return nil
}
