package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/joestump/tool-advisor/internal/advisor"
	"github.com/joestump/tool-advisor/internal/db"
	"github.com/joestump/tool-advisor/internal/handler"
	"github.com/joestump/tool-advisor/internal/i18n"
	"github.com/joestump/tool-advisor/internal/session"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if err := cfg.RequireUpstream(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			var database *sqlx.DB
			if cfg.UsesDatabase() {
				database, err = db.New(ctx, cfg.DB.Driver, cfg.DB.DSN)
				if err != nil {
					return err
				}
				defer func() { _ = database.Close() }()

				if err := db.Migrate(database, cfg.DB.Driver); err != nil {
					return err
				}
			}

			sessionManager := session.NewManager(database, cfg.DB.Driver, cfg.SessionLifetime, !cfg.InsecureCookies)

			router := handler.NewRouter(handler.Deps{
				SessionManager: sessionManager,
				Advisor:        advisor.NewClient(cfg.Upstream.URL, cfg.Upstream.Timeout),
				Catalog:        i18n.Lookup(cfg.Locale),
				Logger:         logger,
				SecureCookies:  !cfg.InsecureCookies,
			})

			srv := &http.Server{
				Addr:              cfg.HTTP.Addr,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("listening",
					zap.String("addr", cfg.HTTP.Addr),
					zap.String("upstream", cfg.Upstream.URL),
					zap.String("db_driver", cfg.DB.Driver),
				)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}
