package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conduit-lang/inspector/internal/cli/ui"
	"github.com/conduit-lang/inspector/internal/metrics"
	"github.com/conduit-lang/inspector/internal/server"
)

func newServeCommand(g *globals) *cobra.Command {
	var (
		host string
		port int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the inspector HTTP API",
		Long: `Start the HTTP API. Every catalog type gets a live instance named after
it; clients edit instances with POST /api/instances/{id}/edits or over
the websocket at /ws/instances/{id}, and every connected client receives
the new frame.

Setting server.jwt_secret requires a bearer token on /api and /ws. Issue
one with "inspector token".`,
		Example: `  inspector serve
  inspector serve --port 8080
  INSPECTOR_SERVER_JWT_SECRET=s3cret inspector serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := g.cfg.Server
			if cmd.Flags().Changed("host") {
				cfg.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			st, err := g.openStore(ctx, g.cfg.Store)
			if err != nil {
				return &storeError{err: fmt.Errorf("failed to open %s store: %w", g.cfg.Store.Driver, err)}
			}
			defer st.Close()

			m := metrics.New()
			m.Install()

			srvCfg := server.DefaultConfig()
			srvCfg.Addr = cfg.Addr()
			srvCfg.JWTSecret = cfg.JWTSecret
			srvCfg.TokenTTL = cfg.TokenTTL
			srvCfg.Style = g.style()

			srv, err := server.New(srvCfg, st, m, g.logger)
			if err != nil {
				return err
			}

			ui.WriteSuccess(cmd.ErrOrStderr(), fmt.Sprintf("serving on http://%s (store: %s)", srvCfg.Addr, g.cfg.Store.Driver), g.colorless())
			if err := srv.Run(ctx); err != nil {
				return err
			}
			g.logger.Info("server stopped", zap.String("addr", srvCfg.Addr))
			return nil
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "Listen host (default from server.host)")
	cmd.Flags().IntVar(&port, "port", 0, "Listen port (default from server.port)")
	return cmd
}
