package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cedrobank/accounts-service/internal/adapter/http/controller"
	"github.com/cedrobank/accounts-service/internal/adapter/http/router"
	"github.com/cedrobank/accounts-service/internal/adapter/repository/postgres"
	"github.com/cedrobank/accounts-service/internal/config"
	"github.com/cedrobank/accounts-service/internal/usecase/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := postgres.RunMigrations(startupCtx, cfg.DatabaseDSN, cfg.MigrationsDir); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	db, err := postgres.Open(startupCtx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	accountRepository := postgres.NewAccountRepository(db)
	accountService := services.NewAccountService(accountRepository)
	internalQueryService := services.NewInternalQueryService(services.InternalQueryConfig{
		BaseURL:       cfg.InternalQueryBaseURL,
		Timeout:       cfg.InternalQueryTimeout,
		RetryAttempts: cfg.InternalQueryRetryAttempts,
	})

	mux := router.New(
		controller.NewAccountController(accountService),
		controller.NewInternalQueryController(internalQueryService),
	)

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Printf("listening on %s", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Fatalf("server stopped: %v", err)
	}

	log.Println("server stopped cleanly")
}
