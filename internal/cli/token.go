package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/cmlabs-hris/fieldops-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/fieldops-backend-go/internal/pkg/jwt"
	"github.com/spf13/cobra"
)

type tokenOptions struct {
	*RootOptions
	TenantID string
	UserID   string
	Role     string
}

func newTokenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &tokenOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development access token",
		Long: `Mint an access token signed with JWT_SECRET_KEY for local testing.

Example:
  fieldopsctl token --tenant 3f0c... --user 9a1b... --role dispatcher`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToken(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.TenantID, "tenant", "", "tenant id (required)")
	cmd.Flags().StringVar(&opts.UserID, "user", "", "user id (required)")
	cmd.Flags().StringVar(&opts.Role, "role", string(user.RoleAdmin), "owner|admin|dispatcher|technician")
	_ = cmd.MarkFlagRequired("tenant")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runToken(cmd *cobra.Command, opts *tokenOptions) error {
	role := user.Role(opts.Role)
	if !role.IsValid() {
		return fmt.Errorf("%w: %q", user.ErrInvalidRole, opts.Role)
	}

	cfg, err := opts.LoadConfig()
	if err != nil {
		return err
	}

	svc := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	token, expiresAt, err := svc.GenerateAccessToken(user.Identity{
		UserID:   opts.UserID,
		TenantID: opts.TenantID,
		Role:     role,
	})
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}

	out := map[string]interface{}{
		"access_token": token,
		"expires_at":   time.Unix(expiresAt, 0).UTC().Format(time.RFC3339),
	}
	return opts.print(cmd.OutOrStdout(), out, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, token)
		return err
	})
}
