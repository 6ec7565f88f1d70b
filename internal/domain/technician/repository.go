package technician

import "context"

type Repository interface {
	// ListByTenant returns the active technicians of a tenant ordered by name.
	ListByTenant(ctx context.Context, tenantID string) ([]Technician, error)

	// GetByUserID returns ErrTechnicianNotFound when the user is not a technician of the tenant.
	GetByUserID(ctx context.Context, tenantID string, userID string) (Technician, error)

	// Create inserts a technician, generating an ID when none is set.
	Create(ctx context.Context, t Technician) (Technician, error)
}
