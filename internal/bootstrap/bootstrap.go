// Package bootstrap wires storage, services and fixtures from configuration.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/cmlabs-hris/fieldops-backend-go/internal/config"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/technician"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/tenant"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/workwindow"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/fixtures"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/repository/sqlite"
	attendanceService "github.com/cmlabs-hris/fieldops-backend-go/internal/service/attendance"
	rosterService "github.com/cmlabs-hris/fieldops-backend-go/internal/service/roster"
	sweepService "github.com/cmlabs-hris/fieldops-backend-go/internal/service/sweep"
)

type Repositories struct {
	Attendance  attendance.AttendanceRepository
	Technicians technician.Repository
	Windows     workwindow.Repository
	Tenants     tenant.Repository
	Transactor  database.Transactor
}

type App struct {
	Clock      *clock.Clock
	Repos      Repositories
	Attendance *attendanceService.AttendanceServiceImpl
	Roster     *rosterService.RosterServiceImpl
	Sweep      *sweepService.SweepServiceImpl
	Seeder     *fixtures.Seeder

	close func()
}

func (a *App) Close() {
	if a.close != nil {
		a.close()
	}
}

// Open connects the configured store and builds the services on top of it.
func Open(ctx context.Context, cfg *config.Config, c *clock.Clock) (*App, error) {
	repos, closeFn, err := openRepositories(ctx, cfg)
	if err != nil {
		return nil, err
	}

	attendances := attendanceService.NewAttendanceService(repos.Attendance, repos.Technicians, repos.Windows, c)

	return &App{
		Clock:      c,
		Repos:      repos,
		Attendance: attendances,
		Roster:     rosterService.NewRosterService(repos.Attendance, repos.Technicians, attendances, c),
		Sweep: sweepService.NewSweepService(repos.Attendance, repos.Windows, c, sweepService.Options{
			LookbackDays:      cfg.Sweep.LookbackDays,
			TenantConcurrency: cfg.Sweep.TenantConcurrency,
			RowConcurrency:    cfg.Sweep.RowConcurrency,
		}),
		Seeder: fixtures.NewSeeder(repos.Transactor, repos.Tenants, repos.Windows, repos.Technicians, repos.Attendance),
		close:  closeFn,
	}, nil
}

func openRepositories(ctx context.Context, cfg *config.Config) (Repositories, func(), error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverSQLite:
		db, err := database.NewSQLiteDB(cfg.Storage.SQLitePath)
		if err != nil {
			return Repositories{}, nil, fmt.Errorf("error opening sqlite store: %w", err)
		}
		slog.Info("Storage: sqlite", "path", cfg.Storage.SQLitePath)
		return Repositories{
			Attendance:  sqlite.NewAttendanceRepository(db),
			Technicians: sqlite.NewTechnicianRepository(db),
			Windows:     sqlite.NewWorkWindowRepository(db),
			Tenants:     sqlite.NewTenantRepository(db),
			Transactor:  sqlite.NewTransactor(db),
		}, func() { _ = db.Close() }, nil

	case config.StorageDriverPostgres:
		db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
		if err != nil {
			return Repositories{}, nil, fmt.Errorf("error connecting to database: %w", err)
		}
		if err := db.ApplySchema(ctx); err != nil {
			db.Close()
			return Repositories{}, nil, err
		}
		slog.Info("Storage: postgres", "host", cfg.Database.Host, "database", cfg.Database.Name)
		return Repositories{
			Attendance:  postgresql.NewAttendanceRepository(db),
			Technicians: postgresql.NewTechnicianRepository(db),
			Windows:     postgresql.NewWorkWindowRepository(db),
			Tenants:     postgresql.NewTenantRepository(db),
			Transactor:  postgresql.NewTransactor(db),
		}, db.Close, nil

	default:
		return Repositories{}, nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}

// SetupLogger installs the default slog handler for the configured level.
func SetupLogger(cfg config.AppConfig) {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cfg.Env == "production" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
