package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"atelier/cmd"
	"atelier/internal/adapters/out/postgres"
	"atelier/internal/adapters/out/postgres/feed"
	"atelier/internal/adapters/out/postgres/orderrepo"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(ctx *commandContext) *cobra.Command {
	var migrate bool

	command := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the order change feed and the scheduled jobs",
		RunE: func(command *cobra.Command, _ []string) error {
			runCtx, stop := signal.NotifyContext(command.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(runCtx, ctx, migrate)
		},
	}
	command.Flags().BoolVar(&migrate, "migrate", true, "Migrate the schema before serving")
	return command
}

func serve(ctx context.Context, cc *commandContext, migrate bool) error {
	cfg, err := cc.ensureConfig()
	if err != nil {
		return err
	}
	logger := cc.logger()

	db, err := cc.openDB()
	if err != nil {
		return err
	}
	if migrate {
		if err = postgres.Migrate(ctx, db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	app := cmd.NewCompositionRoot(cfg, db, logger)
	defer func() {
		if closeErr := app.Close(); closeErr != nil {
			logger.Warn("closing connections", "error", closeErr)
		}
	}()

	hub, err := feed.NewHub(cfg.DSN(), orderrepo.ChangeChannel, logger)
	if err != nil {
		return fmt.Errorf("listen for order changes: %w", err)
	}

	router, err := app.CreateRouter(hub)
	if err != nil {
		return err
	}

	jobManager := app.CreateJobManager(hub)
	if err = jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return hub.Run(gctx)
	})
	g.Go(func() error {
		logger.Info("listening", "port", cfg.HTTPPort)
		if startErr := router.Start(fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort)); !errors.Is(startErr, http.ErrServerClosed) {
			return startErr
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return router.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
