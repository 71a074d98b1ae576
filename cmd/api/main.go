package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/tally/internal/auth"
	authStore "github.com/MrJamesThe3rd/tally/internal/auth/store"
	"github.com/MrJamesThe3rd/tally/internal/config"
	"github.com/MrJamesThe3rd/tally/internal/database"
	"github.com/MrJamesThe3rd/tally/internal/expense"
	expenseStore "github.com/MrJamesThe3rd/tally/internal/expense/store"
	"github.com/MrJamesThe3rd/tally/internal/export"
	tallyHttp "github.com/MrJamesThe3rd/tally/internal/http"
	accountHandler "github.com/MrJamesThe3rd/tally/internal/http/account"
	expenseHandler "github.com/MrJamesThe3rd/tally/internal/http/expense"
	exportHandler "github.com/MrJamesThe3rd/tally/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/tally/internal/http/importcsv"
	matchingHandler "github.com/MrJamesThe3rd/tally/internal/http/matching"
	statsHandler "github.com/MrJamesThe3rd/tally/internal/http/stats"
	"github.com/MrJamesThe3rd/tally/internal/importer"
	"github.com/MrJamesThe3rd/tally/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/tally/internal/matching/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	var (
		tokens          = auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.App.Name)
		authService     = auth.NewService(authStore.New(db), tokens)
		expenseService  = expense.NewService(expenseStore.New(db), cfg.Import.WriteConcurrency)
		matchingService = matching.NewService(matchingStore.New(db))
		importService   = importer.NewService()
		exportService   = export.NewService(expenseService)
	)

	var (
		accountH  = accountHandler.NewHandler(authService)
		expenseH  = expenseHandler.NewHandler(expenseService)
		importH   = importHandler.NewHandler(importService, expenseService, matchingService, cfg.Import.MaxUploadBytes)
		statsH    = statsHandler.NewHandler(expenseService)
		matchingH = matchingHandler.NewHandler(matchingService)
		exportH   = exportHandler.NewHandler(exportService)
	)

	router := tallyHttp.New(tallyHttp.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AuthRateLimit:  cfg.Server.AuthRateLimit,
		AuthRateBurst:  cfg.Server.AuthRateBurst,
		Timeout:        cfg.Server.Timeout,
	}, authService, accountH, expenseH, importH, statsH, matchingH, exportH)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout + 5*time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("starting server", "addr", srv.Addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
}
