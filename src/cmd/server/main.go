package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/api-sage/upi-payment-processor/src/internal/adapter/http/controller"
	"github.com/api-sage/upi-payment-processor/src/internal/adapter/http/middleware"
	"github.com/api-sage/upi-payment-processor/src/internal/adapter/http/router"
	"github.com/api-sage/upi-payment-processor/src/internal/adapter/repository/memory"
	"github.com/api-sage/upi-payment-processor/src/internal/adapter/repository/postgres"
	"github.com/api-sage/upi-payment-processor/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/upi-payment-processor/src/internal/config"
	"github.com/api-sage/upi-payment-processor/src/internal/logger"
	"github.com/api-sage/upi-payment-processor/src/internal/usecase/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	accountRepo, transferRepo, upiRepo, err := buildRepositories(ctx, cfg)
	if err != nil {
		log.Fatalf("build repositories: %v", err)
	}

	accountService := services.NewAccountService(accountRepo)
	transferService := services.NewTransferService(transferRepo, accountRepo)
	upiService := services.NewUPIPaymentService(upiRepo, accountRepo)

	mux := router.New(
		controller.NewAccountController(accountService),
		controller.NewTransferController(transferService),
		controller.NewUPIController(upiService),
		middleware.BasicAuth(cfg.ChannelID, cfg.ChannelKey),
	)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info("http server starting", logger.Fields{
			"addr":   cfg.HTTPAddr,
			"driver": cfg.StorageDriver,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		logger.Info("http server shutting down", nil)
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func buildRepositories(ctx context.Context, cfg config.Config) (
	repo_interfaces.AccountRepository,
	repo_interfaces.TransferRepository,
	repo_interfaces.UPITransactionRepository,
	error,
) {
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		accounts := memory.NewAccountRepository()
		return accounts, memory.NewTransferRepository(), memory.NewUPITransactionRepository(accounts), nil
	case config.StorageDriverPostgres:
		migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := postgres.RunMigrations(migrateCtx, cfg.DatabaseDSN, cfg.MigrationsDir); err != nil {
			return nil, nil, nil, err
		}
		db, err := postgres.Open(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, nil, err
		}
		return postgres.NewAccountRepository(db), postgres.NewTransferRepository(db), postgres.NewUPITransactionRepository(db), nil
	default:
		return nil, nil, nil, config.ErrUnknownStorageDriver
	}
}
