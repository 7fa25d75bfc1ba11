package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/maxviazov/member-search-service/internal/handler"
	"github.com/maxviazov/member-search-service/internal/migrations"
	"github.com/maxviazov/member-search-service/internal/repository"
	"github.com/maxviazov/member-search-service/internal/repository/postgres"
	"github.com/maxviazov/member-search-service/internal/service"
)

var serveMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "apply pending migrations before serving")
}

func serve(ctx context.Context) error {
	pool, err := repository.Connect(ctx, cfg.Postgres, appLog)
	if err != nil {
		return err
	}
	defer pool.Close()

	if serveMigrate {
		if err := migrations.Run(ctx, pool, migrations.Up, appLog); err != nil {
			return err
		}
	}

	teams := postgres.NewTeamRepository(pool)
	members := postgres.NewMemberRepository(pool)

	if cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := handler.NewEngine(appLog, cfg.App.CORSOrigins)
	handler.Register(r,
		postgres.NewPinger(pool),
		service.NewTeamService(teams, appLog),
		service.NewMemberService(members, teams, postgres.NewTxManager(pool), appLog),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.App.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.App.WriteTimeout) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info().Str("addr", srv.Addr).Str("version", cfg.App.Version).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	appLog.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.App.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	appLog.Info().Msg("server stopped")
	return nil
}
