package sweep

import (
	"context"

	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/workwindow"
)

type SweepService interface {
	// Run force-closes stale open records for the given tenants.
	Run(ctx context.Context, tenants []workwindow.TenantWindow) (Result, error)
	// RunAll loads every tenant's work window and runs the sweep over all of them.
	RunAll(ctx context.Context) (Result, error)
}
