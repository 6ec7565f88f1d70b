// Package sqlitetest builds a throwaway sqlite store for integration tests.
package sqlitetest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/technician"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/tenant"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/workwindow"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/fixtures"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/repository/sqlite"
	"github.com/stretchr/testify/require"
)

type Store struct {
	DB          *database.SQLiteDB
	Attendance  attendance.AttendanceRepository
	Technicians technician.Repository
	Windows     workwindow.Repository
	Tenants     tenant.Repository
	Seeder      *fixtures.Seeder
}

// New opens a fresh database under t.TempDir and closes it on cleanup.
func New(t testing.TB) *Store {
	t.Helper()

	db, err := database.NewSQLiteDB(filepath.Join(t.TempDir(), "fieldops_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s := &Store{
		DB:          db,
		Attendance:  sqlite.NewAttendanceRepository(db),
		Technicians: sqlite.NewTechnicianRepository(db),
		Windows:     sqlite.NewWorkWindowRepository(db),
		Tenants:     sqlite.NewTenantRepository(db),
	}
	s.Seeder = fixtures.NewSeeder(sqlite.NewTransactor(db), s.Tenants, s.Windows, s.Technicians, s.Attendance)

	return s
}

// SeedTenant creates the tenant described by demo.
func (s *Store) SeedTenant(t testing.TB, demo fixtures.DemoTenant) fixtures.Seeded {
	t.Helper()
	seeded, err := s.Seeder.Seed(context.Background(), demo)
	require.NoError(t, err)
	return seeded
}

// Put upserts a raw attendance row.
func (s *Store) Put(t testing.TB, att attendance.Attendance) attendance.Attendance {
	t.Helper()
	saved, err := s.Attendance.Upsert(context.Background(), att)
	require.NoError(t, err)
	return saved
}

// Get reads a row back by natural key.
func (s *Store) Get(t testing.TB, tenantID, userID string, date time.Time) *attendance.Attendance {
	t.Helper()
	got, err := s.Attendance.GetByTechnicianAndDate(context.Background(), tenantID, userID, date)
	require.NoError(t, err)
	return got
}
