package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/inspector/internal/server"
)

func newTokenCommand(g *globals) *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the HTTP API",
		Long: `Sign a token with server.jwt_secret. Pass it as "Authorization: Bearer
<token>", or as ?token=<token> on websocket URLs.`,
		Example: `  inspector token --subject alice
  inspector token --ttl 24h`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if g.cfg.Server.JWTSecret == "" {
				return &configError{err: errors.New("server.jwt_secret is not set")}
			}
			if subject == "" {
				return &inputError{msg: "--subject must not be empty"}
			}
			if !cmd.Flags().Changed("ttl") {
				ttl = g.cfg.Server.TokenTTL
			}

			token, err := server.NewTokenService(g.cfg.Server.JWTSecret, ttl).Issue(subject)
			if err != nil {
				return fmt.Errorf("failed to sign token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "inspector", "Token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime (default from server.token_ttl)")
	return cmd
}
