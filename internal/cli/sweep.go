package cli

import (
	"fmt"
	"io"

	"github.com/cmlabs-hris/fieldops-backend-go/internal/bootstrap"
	"github.com/spf13/cobra"
)

func newSweepCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Force-close stale open attendance across every tenant",
		Long: `Run one cross-tenant sweep. Tenants whose work window has not ended yet are
skipped; every open record of the others within the lookback is auto-checked-out.

Example:
  fieldopsctl sweep --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.LoadConfig()
			if err != nil {
				return err
			}

			app, err := bootstrap.Open(cmd.Context(), cfg, opts.Clock)
			if err != nil {
				return err
			}
			defer app.Close()

			result, err := app.Sweep.RunAll(cmd.Context())
			if err != nil {
				return err
			}

			return opts.print(cmd.OutOrStdout(), result, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "tenants processed: %d (skipped %d)\ncandidates: %d\nauto checked out: %d\nfailed: %d\n",
					result.TenantsProcessed, result.Skipped, result.Candidates, result.AutoCheckedOut, result.Failed)
				return err
			})
		},
	}
}
