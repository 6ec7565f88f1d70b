package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/workwindow"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/pkg/database"
)

type workWindowRepository struct {
	db *database.SQLiteDB
}

func NewWorkWindowRepository(db *database.SQLiteDB) workwindow.Repository {
	return &workWindowRepository{db: db}
}

// GetByTenant implements workwindow.Repository.
func (r *workWindowRepository) GetByTenant(ctx context.Context, tenantID string) (workwindow.Setting, error) {
	q := getQuerier(ctx, r.db)

	var start, end sql.NullString
	err := q.QueryRowContext(ctx,
		`SELECT work_start_time, work_end_time FROM tenant_settings WHERE tenant_id = ?`,
		tenantID,
	).Scan(&start, &end)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return workwindow.Setting{TenantID: tenantID}, nil
		}
		return workwindow.Setting{}, fmt.Errorf("failed to get tenant settings: %w", err)
	}

	return workwindow.Setting{
		TenantID:  tenantID,
		StartTime: nullString(start),
		EndTime:   nullString(end),
	}, nil
}

// ListAll implements workwindow.Repository.
func (r *workWindowRepository) ListAll(ctx context.Context) ([]workwindow.Setting, error) {
	q := getQuerier(ctx, r.db)

	rows, err := q.QueryContext(ctx, `
		SELECT t.id, s.work_start_time, s.work_end_time
		FROM tenants t
		LEFT JOIN tenant_settings s ON s.tenant_id = t.id
		ORDER BY t.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenant settings: %w", err)
	}
	defer rows.Close()

	var settings []workwindow.Setting
	for rows.Next() {
		var (
			tenantID   string
			start, end sql.NullString
		)
		if err := rows.Scan(&tenantID, &start, &end); err != nil {
			return nil, fmt.Errorf("failed to scan tenant settings: %w", err)
		}
		settings = append(settings, workwindow.Setting{
			TenantID:  tenantID,
			StartTime: nullString(start),
			EndTime:   nullString(end),
		})
	}

	return settings, rows.Err()
}

// Save implements workwindow.Repository.
func (r *workWindowRepository) Save(ctx context.Context, setting workwindow.Setting) error {
	q := getQuerier(ctx, r.db)

	_, err := q.ExecContext(ctx, `
		INSERT INTO tenant_settings (tenant_id, work_start_time, work_end_time)
		VALUES (?, ?, ?)
		ON CONFLICT (tenant_id) DO UPDATE SET
			work_start_time = excluded.work_start_time,
			work_end_time = excluded.work_end_time`,
		setting.TenantID, setting.StartTime, setting.EndTime,
	)
	if err != nil {
		return fmt.Errorf("failed to save tenant settings: %w", err)
	}
	return nil
}
