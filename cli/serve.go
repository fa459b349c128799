package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	httpLayer "cost-seer/http"
	"cost-seer/identity"
)

func newServeCommand(opts *Options) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the estimate HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, opts, identity.ContextProvider{})
			if err != nil {
				return err
			}
			defer a.Close()
			logger := a.logger

			var verifier *identity.TokenVerifier
			if a.cfg.JWTSecret != "" {
				verifier, err = identity.NewTokenVerifier(a.cfg.JWTSecret, a.cfg.JWTIssuer, nil)
				if err != nil {
					return err
				}
			} else {
				logger.Warn("COSTSEER_JWT_SECRET not set, all requests are anonymous")
			}

			rateLimiter := httpLayer.NewRateLimiter(a.cfg.RateLimit, a.cfg.RateWindow)
			defer rateLimiter.Stop()

			handler := httpLayer.NewEstimateHandler(a.engine, a.store, logger)

			if cmd.Flags().Changed("addr") {
				a.cfg.HTTPAddr = addr
			}
			server := &http.Server{
				Addr:         a.cfg.HTTPAddr,
				Handler:      httpLayer.NewRouter(handler, rateLimiter, verifier, logger),
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 15 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			serverErr := make(chan error, 1)
			go func() {
				logger.Info("API listening", "addr", server.Addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			select {
			case err := <-serverErr:
				return err
			case <-ctx.Done():
				logger.Info("shutting down server")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return err
			}
			logger.Info("server exited")
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address (overrides COSTSEER_HTTP_ADDR)")
	return cmd
}
