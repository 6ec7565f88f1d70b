package tenant

import "time"

// Tenant is one customer organisation. Every attendance row is scoped to a tenant.
type Tenant struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
