package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/joestump/sitegen/internal/build"
	"github.com/joestump/sitegen/internal/config"
	"github.com/joestump/sitegen/internal/db"
	"github.com/joestump/sitegen/internal/generator"
	"github.com/joestump/sitegen/internal/handler"
	"github.com/joestump/sitegen/internal/llm"
	"github.com/joestump/sitegen/internal/logger"
	"github.com/joestump/sitegen/internal/metrics"
	"github.com/joestump/sitegen/internal/objectstore"
	"github.com/joestump/sitegen/internal/projects"
	"github.com/joestump/sitegen/internal/session"
	"github.com/joestump/sitegen/internal/store"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log, err := logger.New(cfg.LogMode)
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			if err := db.Migrate(database, cfg.DB.Driver); err != nil {
				return err
			}

			objects, err := objectstore.New(ctx, cfg.Storage, log)
			if err != nil {
				return err
			}
			if c, ok := objects.(interface{ Close() error }); ok {
				defer func() { _ = c.Close() }()
			}

			sessionManager := session.NewManager(database, cfg.DB.Driver, cfg.SessionLifetime, !cfg.InsecureCookies)

			projectStore := store.NewProjectStore(database)
			fileStore := store.NewFileStore(database)
			if n, err := projectStore.Count(ctx); err == nil {
				metrics.ProjectsTotal.Set(float64(n))
			}

			dispatcher := llm.NewDispatcher(cfg.LLM, log)
			gen := generator.New(dispatcher, log)
			svc := projects.NewService(projectStore, fileStore, objects, gen, cfg.HTTP.BaseURL, log)

			router := handler.NewRouter(handler.Deps{
				SessionManager: sessionManager,
				Projects:       svc,
				Log:            log,
			})

			// WriteTimeout must outlast a provider call.
			srv := &http.Server{
				Addr:              cfg.HTTP.Addr,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
				WriteTimeout:      cfg.LLM.Timeout + 30*time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info("listening", "addr", cfg.HTTP.Addr, "build", build.String(), "storage", cfg.Storage.Driver)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}
