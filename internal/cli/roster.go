package cli

import (
	"bytes"
	"fmt"
	"io"

	"github.com/cmlabs-hris/fieldops-backend-go/internal/bootstrap"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/roster"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/pkg/storage"
	"github.com/spf13/cobra"
)

type rosterExportOptions struct {
	*RootOptions
	TenantID string
	Month    string
	OutDir   string
}

func newRosterCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Monthly roster reports",
	}
	cmd.AddCommand(newRosterExportCommand(rootOpts))
	return cmd
}

func newRosterExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &rosterExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a tenant's monthly roster as an .xlsx workbook",
		Long: `Write the monthly roster of one tenant to roster-YYYY-MM.xlsx.

Example:
  fieldopsctl roster export --tenant 3f0c... --month 2025-02 --out ./reports`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRosterExport(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.TenantID, "tenant", "", "tenant id (required)")
	cmd.Flags().StringVar(&opts.Month, "month", "", "month as YYYY-MM (default: current month)")
	cmd.Flags().StringVarP(&opts.OutDir, "out", "o", ".", "output directory")
	_ = cmd.MarkFlagRequired("tenant")

	return cmd
}

func runRosterExport(cmd *cobra.Command, opts *rosterExportOptions) error {
	cfg, err := opts.LoadConfig()
	if err != nil {
		return err
	}

	app, err := bootstrap.Open(cmd.Context(), cfg, opts.Clock)
	if err != nil {
		return err
	}
	defer app.Close()

	export, err := app.Roster.ExportMonthlyRoster(cmd.Context(), opts.TenantID, roster.MonthQuery{Month: opts.Month})
	if err != nil {
		return err
	}

	store, err := storage.NewLocalStorage(opts.OutDir)
	if err != nil {
		return err
	}
	path, err := store.Save(cmd.Context(), export.Filename, bytes.NewReader(export.Content))
	if err != nil {
		return err
	}

	out := map[string]interface{}{"path": path, "bytes": len(export.Content)}
	return opts.print(cmd.OutOrStdout(), out, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "wrote %s (%d bytes)\n", path, len(export.Content))
		return err
	})
}
