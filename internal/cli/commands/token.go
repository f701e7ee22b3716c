package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/chandas-creator/chandas/internal/cli/config"
	"github.com/chandas-creator/chandas/internal/cli/ui"
	"github.com/chandas-creator/chandas/internal/web/auth"
)

var (
	tokenSubject string
	tokenTTL     time.Duration
)

// NewTokenCommand creates the token command
func NewTokenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the admin API routes",
		Long: `Sign a bearer token with auth.secret for routes such as POST /reload-db.

Example:
  curl -X POST -H "Authorization: Bearer $(chandas token)" localhost:8000/reload-db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ttl := cfg.Auth.TokenTTL
			if cmd.Flags().Changed("ttl") {
				ttl = tokenTTL
			}

			token, err := auth.NewAuthService(cfg.Auth.Secret, ttl).GenerateToken(tokenSubject)
			if errors.Is(err, auth.ErrNoSecret) {
				fmt.Fprint(cmd.ErrOrStderr(), ui.ConfigError("auth.secret is not set, so there is nothing to sign tokens with.", noColor))
				return err
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&tokenSubject, "subject", "admin", "Token subject")
	cmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "Token lifetime (default auth.token_ttl; 0 for no expiry)")

	return cmd
}
