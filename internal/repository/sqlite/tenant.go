package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/tenant"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/pkg/database"
	"github.com/google/uuid"
)

type tenantRepository struct {
	db *database.SQLiteDB
}

func NewTenantRepository(db *database.SQLiteDB) tenant.Repository {
	return &tenantRepository{db: db}
}

// Create implements tenant.Repository.
func (r *tenantRepository) Create(ctx context.Context, t tenant.Tenant) (tenant.Tenant, error) {
	if t.Name == "" {
		return tenant.Tenant{}, tenant.ErrTenantNameRequired
	}

	q := getQuerier(ctx, r.db)

	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.CreatedAt = time.Now().UTC().Truncate(time.Second)

	_, err := q.ExecContext(ctx,
		`INSERT INTO tenants (id, name, created_at) VALUES (?, ?, ?)`,
		t.ID, t.Name, t.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return tenant.Tenant{}, fmt.Errorf("failed to create tenant: %w", err)
	}

	return t, nil
}
