package bootstrap

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/cmlabs-hris/fieldops-backend-go/internal/config"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/roster"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/fixtures"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteConfig(t *testing.T) *config.Config {
	return &config.Config{
		Storage: config.StorageConfig{Driver: config.StorageDriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "app.db")},
		Sweep:   config.SweepConfig{LookbackDays: 7, TenantConcurrency: 2, RowConcurrency: 2},
	}
}

func TestOpen_SQLiteEndToEnd(t *testing.T) {
	c := clock.NewFixed(time.Date(2025, 3, 10, 19, 0, 0, 0, clock.BusinessLocation))
	app, err := Open(context.Background(), sqliteConfig(t), c)
	require.NoError(t, err)
	t.Cleanup(app.Close)

	ctx := context.Background()
	seeded, err := app.Seeder.Seed(ctx, fixtures.DefaultDemoTenant())
	require.NoError(t, err)

	window, err := app.Attendance.WindowFor(ctx, seeded.Tenant.ID)
	require.NoError(t, err)

	rows := fixtures.DemoAttendances(c, seeded.Technicians, window,
		time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, app.Seeder.SeedAttendances(ctx, rows))

	result, err := app.Sweep.RunAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.TenantsProcessed)
	assert.Positive(t, result.Candidates)
	assert.Equal(t, result.Candidates, result.AutoCheckedOut)

	report, err := app.Roster.GetMonthlyRoster(ctx, seeded.Tenant.ID, roster.MonthQuery{Month: "2025-03"})
	require.NoError(t, err)
	assert.Equal(t, 0, report.Totals.MissingClockOut)
	assert.Equal(t, len(rows), report.Totals.DaysComplete)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.Storage.Driver = "mongo"

	_, err := Open(context.Background(), cfg, clock.New())
	assert.ErrorContains(t, err, "unsupported storage driver")
}

