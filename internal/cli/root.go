// Package cli implements the fieldopsctl operator commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/cmlabs-hris/fieldops-backend-go/internal/config"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/pkg/clock"
	"github.com/spf13/cobra"
)

var ValidFormats = []string{"text", "json"}

// RootOptions holds global flags and the collaborators shared by every command.
type RootOptions struct {
	Format string

	LoadConfig func() (*config.Config, error)
	Clock      *clock.Clock
}

func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{LoadConfig: config.Load, Clock: clock.New()})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fieldopsctl",
		Short: "Operate the field-ops attendance engine",
		Long:  "Operator tooling for the attendance reconciliation engine: sweeps, roster exports, demo data and dev tokens.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(newSweepCommand(opts))
	cmd.AddCommand(newRosterCommand(opts))
	cmd.AddCommand(newSeedCommand(opts))
	cmd.AddCommand(newTokenCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// print writes v as indented JSON, or calls text for the human format.
func (o *RootOptions) print(w io.Writer, v interface{}, text func(io.Writer) error) error {
	if o.Format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	return text(w)
}
