package workwindow

import "context"

type Repository interface {
	// GetByTenant returns the raw settings row; a missing row yields empty fields.
	GetByTenant(ctx context.Context, tenantID string) (Setting, error)

	// ListAll returns every tenant with its raw window, configured or not.
	ListAll(ctx context.Context) ([]Setting, error)

	// Save inserts or replaces the tenant's settings row.
	Save(ctx context.Context, setting Setting) error
}
