package cli

import (
	"fmt"
	"io"

	"github.com/cmlabs-hris/fieldops-backend-go/internal/bootstrap"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/fixtures"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/pkg/clock"
	"github.com/spf13/cobra"
)

type seedOptions struct {
	*RootOptions
	Name string
	Days int
}

type seedTechnician struct {
	UserID   string `json:"user_id"`
	FullName string `json:"full_name"`
}

type seedOutput struct {
	TenantID    string           `json:"tenant_id"`
	Technicians []seedTechnician `json:"technicians"`
	Attendances int              `json:"attendances"`
}

func newSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &seedOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a demo tenant with technicians and recent attendance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "tenant name (default: demo tenant)")
	cmd.Flags().IntVar(&opts.Days, "days", 14, "days of attendance history ending today")

	return cmd
}

func runSeed(cmd *cobra.Command, opts *seedOptions) error {
	if opts.Days < 1 {
		return fmt.Errorf("--days must be at least 1")
	}

	cfg, err := opts.LoadConfig()
	if err != nil {
		return err
	}

	app, err := bootstrap.Open(cmd.Context(), cfg, opts.Clock)
	if err != nil {
		return err
	}
	defer app.Close()

	demo := fixtures.DefaultDemoTenant()
	if opts.Name != "" {
		demo.Name = opts.Name
	}

	seeded, err := app.Seeder.Seed(cmd.Context(), demo)
	if err != nil {
		return err
	}

	window, err := app.Attendance.WindowFor(cmd.Context(), seeded.Tenant.ID)
	if err != nil {
		return err
	}

	today := opts.Clock.Today()
	rows := fixtures.DemoAttendances(opts.Clock, seeded.Technicians, window, clock.AddDays(today, -(opts.Days-1)), today)
	if err := app.Seeder.SeedAttendances(cmd.Context(), rows); err != nil {
		return err
	}

	out := seedOutput{TenantID: seeded.Tenant.ID, Attendances: len(rows)}
	for _, tech := range seeded.Technicians {
		out.Technicians = append(out.Technicians, seedTechnician{UserID: tech.UserID, FullName: tech.FullName})
	}

	return opts.print(cmd.OutOrStdout(), out, func(w io.Writer) error {
		if _, err := fmt.Fprintf(w, "tenant %s (%s)\n", out.TenantID, seeded.Tenant.Name); err != nil {
			return err
		}
		for _, tech := range out.Technicians {
			if _, err := fmt.Fprintf(w, "  technician %s %s\n", tech.UserID, tech.FullName); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w, "%d attendance rows\n", out.Attendances)
		return err
	})
}
