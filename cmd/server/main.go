// Package main initializes and starts the task API server, setting up
// configuration, logging, the database, repositories, services and handlers.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/atinyakov/taskkeeper/internal/auth"
	"github.com/atinyakov/taskkeeper/internal/config"
	"github.com/atinyakov/taskkeeper/internal/db"
	"github.com/atinyakov/taskkeeper/internal/logger"
	"github.com/atinyakov/taskkeeper/internal/middleware"
	"github.com/atinyakov/taskkeeper/internal/repository"
	"github.com/atinyakov/taskkeeper/internal/server/handler/http"
	"github.com/atinyakov/taskkeeper/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

// shutdownTimeout bounds how long in-flight requests may drain.
const shutdownTimeout = 10 * time.Second

func main() {
	// Parse command-line, config file and environment configuration.
	// A missing JWT secret stops the server here.
	options, err := config.Parse()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(2)
	}

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(2)
	}
	zapLogger := log.Log

	transport, err := auth.ParseTransport(options.TokenTransport)
	if err != nil {
		zapLogger.Fatal("invalid token transport", zap.Error(err))
	}
	tokens, err := auth.NewTokens(options.JWTSecret, options.TokenTTL)
	if err != nil {
		zapLogger.Fatal("cannot init token issuer", zap.Error(err))
	}

	// Initialize PostgreSQL connection.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Metrics: Go runtime, connection pool and per-route request counters.
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	db.StartPoolStatsReporter(ctx, postgresDB, db.NewPoolStats(reg), 15*time.Second, zapLogger)

	// Initialize repositories.
	userRepo := repository.NewPostgresUserRepository(postgresDB)
	taskRepo := repository.NewPostgresTaskRepository(postgresDB)
	itemRepo := repository.NewPostgresItemRepository(postgresDB)

	// Initialize business-logic services.
	owner := service.NewOwnership(taskRepo, itemRepo)
	authService := service.NewAuthService(userRepo, tokens)
	userService := service.NewUserService(userRepo)
	taskService := service.NewTaskService(taskRepo, itemRepo, owner)
	itemService := service.NewItemService(itemRepo, owner)

	// Build the router with middleware and routes.
	router := http.NewRouter(http.Handlers{
		Auth: &http.AuthHandler{
			AuthService:  authService,
			Transport:    transport,
			CookieSecure: options.CookieSecure,
			Log:          zapLogger,
		},
		Tasks:          &http.TaskHandler{TaskService: taskService, Log: zapLogger},
		Items:          &http.ItemHandler{ItemService: itemService, Log: zapLogger},
		Users:          &http.UserHandler{UserService: userService, Log: zapLogger},
		Health:         &http.HealthHandler{DB: postgresDB, Log: zapLogger},
		Gate:           middleware.Authenticate(tokens, transport, zapLogger),
		Metrics:        middleware.NewMetrics(reg),
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	}, zapLogger)

	server := &nethttp.Server{
		Addr:              options.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		zapLogger.Info("starting HTTP server",
			zap.String("addr", options.Addr),
			zap.String("token_transport", options.TokenTransport),
			zap.Duration("token_ttl", options.TokenTTL),
		)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, nethttp.ErrServerClosed) {
			zapLogger.Error("HTTP server failed", zap.Error(err))
		}
	case <-ctx.Done():
		zapLogger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err = multierr.Append(server.Shutdown(shutdownCtx), postgresDB.Close())
	if err != nil {
		zapLogger.Error("shutdown incomplete", zap.Error(err))
		return
	}
	zapLogger.Info("server stopped")
}
