package tenant

import "context"

type Repository interface {
	// Create inserts the tenant, generating an ID when none is set.
	Create(ctx context.Context, t Tenant) (Tenant, error)
}
