package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"marketplace/internal/db"
	"marketplace/internal/handlers"
	"marketplace/internal/logger"
	"marketplace/internal/services"
	"marketplace/internal/store"
	"marketplace/internal/websocket"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	database, err := db.Connect(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to connect database", "driver", cfg.DatabaseDriver, "error", err)
		return err
	}
	defer database.Close()

	profiles := store.NewProfileStore(database)
	contracts := store.NewContractStore(database)
	jobs := store.NewJobStore(database)
	reports := store.NewReportStore(database)
	ledger := store.NewLedgerStore(database)
	audit := store.NewAuditStore(database)
	txRunner := db.NewTxRunner(database)
	hub := websocket.NewHub()

	engine := services.NewTransferEngine(profiles, ledger)
	payments := services.NewPaymentService(txRunner, profiles, jobs, engine, audit, hub, log.With("component", "payments"), cfg.PaymentMaxAttempts)
	deposits := services.NewDepositService(txRunner, profiles, jobs, ledger, audit, hub, log.With("component", "deposits"), cfg.PaymentMaxAttempts)

	handler := handlers.New(cfg, profiles, contracts, jobs, reports, ledger, payments, deposits, hub, log.With("component", "http"))
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("marketplace API listening", "addr", server.Addr, "env", cfg.AppEnv)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	if err := group.Wait(); err != nil {
		log.Error("server stopped with error", "error", err)
		return err
	}
	return nil
}
