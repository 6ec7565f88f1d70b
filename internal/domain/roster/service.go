package roster

import "context"

type RosterService interface {
	GetMonthlyRoster(ctx context.Context, tenantID string, query MonthQuery) (MonthlyRoster, error)
	GetTechnicianMonth(ctx context.Context, tenantID string, userID string, query MonthQuery) (TechnicianMonth, error)
	ExportMonthlyRoster(ctx context.Context, tenantID string, query MonthQuery) (Export, error)
}
