package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/tenant"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/pkg/database"
)

type tenantRepository struct {
	db *database.DB
}

func NewTenantRepository(db *database.DB) tenant.Repository {
	return &tenantRepository{db: db}
}

// Create implements tenant.Repository.
func (r *tenantRepository) Create(ctx context.Context, t tenant.Tenant) (tenant.Tenant, error) {
	if t.Name == "" {
		return tenant.Tenant{}, tenant.ErrTenantNameRequired
	}

	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO tenants (id, name)
		VALUES (COALESCE(NULLIF($1::text, '')::uuid, gen_random_uuid()), $2)
		RETURNING id, created_at
	`

	if err := q.QueryRow(ctx, query, t.ID, t.Name).Scan(&t.ID, &t.CreatedAt); err != nil {
		return tenant.Tenant{}, fmt.Errorf("failed to create tenant: %w", err)
	}

	return t, nil
}
