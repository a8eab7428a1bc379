package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/georgemunganga/warehouse/internal/config"
	"github.com/georgemunganga/warehouse/internal/logger"
	"github.com/georgemunganga/warehouse/internal/modules/auth"
	"github.com/georgemunganga/warehouse/internal/modules/catalog"
	"github.com/georgemunganga/warehouse/internal/modules/inventory"
	"github.com/georgemunganga/warehouse/internal/modules/partner"
	"github.com/georgemunganga/warehouse/internal/modules/transaction"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logr, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("setting up logger: %v", err)
	}

	ladder, err := partner.LadderFromConfig(cfg.Ranks)
	if err != nil {
		log.Fatalf("building rank ladder: %v", err)
	}

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)

	// ── Operator auth ───────────────────────────────────────
	authService := auth.NewService(cfg.Auth, logr)
	auth.NewHandler(authService).RegisterRoutes(router)
	guard := authService.Guard
	if !cfg.Auth.Enabled() {
		logr.Warn("OPERATOR_PASSWORD_HASH not set, mutating routes are open")
	}

	// ── Catalog & stock ─────────────────────────────────────
	catalogService := catalog.NewService(catalog.NewMemoryRepository())
	catalog.NewHandler(catalogService).RegisterRoutes(router, guard)

	inventoryService := inventory.NewService(inventory.NewMemoryRepository(), logr)
	inventory.NewHandler(inventoryService).RegisterRoutes(router)

	// ── Ledger & partners ───────────────────────────────────
	ledger := transaction.NewMemoryRepository()
	transaction.NewHandler(transaction.NewService(ledger)).RegisterRoutes(router)

	partnerService := partner.NewService(partner.NewMemoryRepository(), ladder, catalogService, inventoryService, ledger, logr)
	partner.NewHandler(partnerService).RegisterRoutes(router, guard)

	// ── Start Server ─────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Info("warehouse API server starting", slog.String("addr", srv.Addr), slog.Int("ranks", len(ladder.Ranks())))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Error("server stopped", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
		os.Exit(1)
	}
	logr.Info("warehouse API server stopped")
}
