package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"cost-seer/config"
	"cost-seer/identity"
)

func newTokenCommand(opts *Options) *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for --user, signed with COSTSEER_JWT_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.User == "" {
				return fmt.Errorf("--user is required")
			}
			cfg, err := config.Load(opts.EnvFile)
			if err != nil {
				return err
			}
			verifier, err := identity.NewTokenVerifier(cfg.JWTSecret, cfg.JWTIssuer, nil)
			if err != nil {
				return err
			}
			token, err := verifier.Issue(identity.User{ID: opts.User, Email: opts.Email}, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	return cmd
}
