package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/bivo/internal/auth"
	"github.com/MrJamesThe3rd/bivo/internal/category"
	categoryStore "github.com/MrJamesThe3rd/bivo/internal/category/store"
	"github.com/MrJamesThe3rd/bivo/internal/config"
	"github.com/MrJamesThe3rd/bivo/internal/dashboard"
	dashboardStore "github.com/MrJamesThe3rd/bivo/internal/dashboard/store"
	"github.com/MrJamesThe3rd/bivo/internal/database"
	"github.com/MrJamesThe3rd/bivo/internal/events"
	"github.com/MrJamesThe3rd/bivo/internal/export"
	bivoHttp "github.com/MrJamesThe3rd/bivo/internal/http"
	authHandler "github.com/MrJamesThe3rd/bivo/internal/http/auth"
	categoryHandler "github.com/MrJamesThe3rd/bivo/internal/http/category"
	dashboardHandler "github.com/MrJamesThe3rd/bivo/internal/http/dashboard"
	exportHandler "github.com/MrJamesThe3rd/bivo/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/bivo/internal/http/importcsv"
	rulesHandler "github.com/MrJamesThe3rd/bivo/internal/http/rules"
	"github.com/MrJamesThe3rd/bivo/internal/http/session"
	txHandler "github.com/MrJamesThe3rd/bivo/internal/http/transaction"
	userHandler "github.com/MrJamesThe3rd/bivo/internal/http/user"
	"github.com/MrJamesThe3rd/bivo/internal/importer"
	"github.com/MrJamesThe3rd/bivo/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/bivo/internal/matching/store"
	"github.com/MrJamesThe3rd/bivo/internal/transaction"
	txStore "github.com/MrJamesThe3rd/bivo/internal/transaction/store"
	"github.com/MrJamesThe3rd/bivo/internal/user"
	userStore "github.com/MrJamesThe3rd/bivo/internal/user/store"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.Auth.JWTSecret == "" {
		slog.Error("JWT_SECRET must be set")
		os.Exit(1)
	}

	loc, err := cfg.Location()
	if err != nil {
		slog.Error("invalid timezone", "error", err)
		os.Exit(1)
	}

	// Amounts are JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.DB.Migrate {
		if err := database.Migrate(db); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
	}

	var publisher events.Publisher = events.Nop{}

	if cfg.AMQP.URL != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			slog.Error("failed to connect to message broker", "error", err)
			os.Exit(1)
		}
		defer amqpPublisher.Close()

		publisher = amqpPublisher
	}

	var (
		categoryService    = category.NewService(categoryStore.New(db))
		userService        = user.NewService(userStore.New(db), categoryService)
		transactionService = transaction.NewService(txStore.New(db), categoryService, publisher)
		matchingService    = matching.NewService(matchingStore.New(db), categoryService)
		importService      = importer.NewService(loc, categoryService, matchingService)
		exportService      = export.NewService(transactionService, loc)
		dashboardService   = dashboard.NewService(dashboardStore.New(db), loc)
	)

	tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)
	cookies := &session.Cookies{Tokens: tokens, Secure: cfg.IsProduction()}

	router := bivoHttp.New(
		bivoHttp.Options{
			Tokens:         tokens,
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			Timeout:        cfg.Server.Timeout,
		},
		bivoHttp.Handlers{
			Auth:         authHandler.NewHandler(userService, cookies),
			Users:        userHandler.NewHandler(userService),
			Categories:   categoryHandler.NewHandler(categoryService),
			Transactions: txHandler.NewHandler(transactionService, loc),
			Dashboard:    dashboardHandler.NewHandler(dashboardService),
			Import:       importHandler.NewHandler(importService, transactionService),
			Rules:        rulesHandler.NewHandler(matchingService),
			Export:       exportHandler.NewHandler(exportService, loc),
		},
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "app", cfg.App.Name, "port", port, "timezone", loc.String())

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
