package fixtures

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/technician"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/tenant"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/workwindow"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/pkg/database"
	"github.com/google/uuid"
)

// ==========================================
// HELPER FUNCTIONS
// ==========================================

func strPtr(s string) *string { return &s }

// ==========================================
// DEMO DATA
// ==========================================

type DemoTechnician struct {
	UserID   string
	FullName string
	Email    string
}

// DemoTenant describes a tenant to seed. Empty window fields leave the tenant unconfigured.
type DemoTenant struct {
	ID            string
	Name          string
	WorkStartTime string
	WorkEndTime   string
	Technicians   []DemoTechnician
}

// DefaultDemoTenant returns a small tenant with the standard 09:00-18:00 window.
func DefaultDemoTenant() DemoTenant {
	return DemoTenant{
		Name:          "Demo Field Services",
		WorkStartTime: workwindow.DefaultStartTime,
		WorkEndTime:   workwindow.DefaultEndTime,
		Technicians: []DemoTechnician{
			{FullName: "Andi Pratama", Email: "andi@demo.test"},
			{FullName: "Budi Santoso", Email: "budi@demo.test"},
			{FullName: "Citra Lestari", Email: "citra@demo.test"},
		},
	}
}

// ==========================================
// SEEDER
// ==========================================

// Seeded holds what Seed created.
type Seeded struct {
	Tenant      tenant.Tenant
	Technicians []technician.Technician
}

type Seeder struct {
	transactor     database.Transactor
	tenantRepo     tenant.Repository
	windowRepo     workwindow.Repository
	technicianRepo technician.Repository
	attendanceRepo attendance.AttendanceRepository
}

func NewSeeder(
	transactor database.Transactor,
	tenantRepo tenant.Repository,
	windowRepo workwindow.Repository,
	technicianRepo technician.Repository,
	attendanceRepo attendance.AttendanceRepository,
) *Seeder {
	return &Seeder{
		transactor:     transactor,
		tenantRepo:     tenantRepo,
		windowRepo:     windowRepo,
		technicianRepo: technicianRepo,
		attendanceRepo: attendanceRepo,
	}
}

// Seed creates the tenant, its work window and technicians in one transaction.
func (s *Seeder) Seed(ctx context.Context, demo DemoTenant) (Seeded, error) {
	var seeded Seeded

	err := s.transactor.InTransaction(ctx, func(txCtx context.Context) error {
		created, err := s.tenantRepo.Create(txCtx, tenant.Tenant{ID: demo.ID, Name: demo.Name})
		if err != nil {
			return err
		}
		seeded.Tenant = created

		if demo.WorkStartTime != "" || demo.WorkEndTime != "" {
			setting := workwindow.Setting{TenantID: created.ID}
			if demo.WorkStartTime != "" {
				setting.StartTime = strPtr(demo.WorkStartTime)
			}
			if demo.WorkEndTime != "" {
				setting.EndTime = strPtr(demo.WorkEndTime)
			}
			if err := s.windowRepo.Save(txCtx, setting); err != nil {
				return err
			}
		}

		for _, t := range demo.Technicians {
			userID := t.UserID
			if userID == "" {
				userID = uuid.NewString()
			}
			var email *string
			if t.Email != "" {
				email = strPtr(t.Email)
			}

			tech, err := s.technicianRepo.Create(txCtx, technician.Technician{
				TenantID: created.ID,
				UserID:   userID,
				FullName: t.FullName,
				Email:    email,
				IsActive: true,
			})
			if err != nil {
				return fmt.Errorf("failed to seed technician %q: %w", t.FullName, err)
			}
			seeded.Technicians = append(seeded.Technicians, tech)
		}

		return nil
	})
	if err != nil {
		return Seeded{}, fmt.Errorf("failed to seed tenant %q: %w", demo.Name, err)
	}

	return seeded, nil
}

// SeedAttendances upserts raw rows for the given days. Derived fields are left for the
// read paths to fill in.
func (s *Seeder) SeedAttendances(ctx context.Context, rows []attendance.Attendance) error {
	return s.transactor.InTransaction(ctx, func(txCtx context.Context) error {
		for _, row := range rows {
			if _, err := s.attendanceRepo.Upsert(txCtx, row); err != nil {
				return err
			}
		}
		return nil
	})
}

// DemoAttendances generates raw clock-in/clock-out rows for every non-Sunday in
// [from, to]. Every fifth technician-day is left open.
func DemoAttendances(c *clock.Clock, technicians []technician.Technician, window workwindow.WorkWindow, from, to time.Time) []attendance.Attendance {
	var rows []attendance.Attendance

	for day, i := from, 0; !day.After(to); day, i = clock.AddDays(day, 1), i+1 {
		if day.Weekday() == time.Sunday {
			continue
		}
		for j, tech := range technicians {
			clockIn := c.Combine(day, window.StartMinute-10+((i+j)%4)*10)
			row := attendance.Attendance{
				TenantID: tech.TenantID,
				UserID:   tech.UserID,
				Date:     day,
				ClockIn:  &clockIn,
			}
			if (i+j)%5 != 0 {
				clockOut := c.Combine(day, window.EndMinute+((i*j)%3-1)*20)
				row.ClockOut = &clockOut
			}
			rows = append(rows, row)
		}
	}

	return rows
}
