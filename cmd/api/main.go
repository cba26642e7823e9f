package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/outpost-labs/outpost-backend/internal/config"
	"github.com/outpost-labs/outpost-backend/internal/domain"
	"github.com/outpost-labs/outpost-backend/internal/handler"
	"github.com/outpost-labs/outpost-backend/internal/logging"
	"github.com/outpost-labs/outpost-backend/internal/middleware"
	"github.com/outpost-labs/outpost-backend/internal/repository"
	"github.com/outpost-labs/outpost-backend/internal/routing"
	"github.com/outpost-labs/outpost-backend/internal/service"
)

func main() {
	// Local development convenience; the file is absent in production.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("outpost-api", cfg.LogLevel, cfg.AppEnv)

	ctx := context.Background()
	db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	users := repository.NewUserRepository(db)
	lockers := repository.NewLockerRepository(db)
	packages := repository.NewPackageRepository(db)
	reports := repository.NewIssueReportRepository(db)

	osrm := routing.NewClient(cfg.OSRMBaseURL, cfg.OSRMTimeout())
	packageSvc := service.NewPackageService(packages, lockers, users, osrm)
	courierSvc := service.NewCourierService(users, packages)

	authHandler := handler.NewAuthHandler(users, cfg.JWTSecret, cfg.JWTExpiry())
	userHandler := handler.NewUserHandler(users)
	lockerHandler := handler.NewLockerHandler(lockers)
	packageHandler := handler.NewPackageHandler(packageSvc)
	courierHandler := handler.NewCourierHandler(courierSvc)
	reportHandler := handler.NewReportHandler(reports)
	healthHandler := handler.NewHealthHandler(db)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", healthHandler.Liveness)
	mux.HandleFunc("GET /health/ready", healthHandler.Readiness)

	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)

	authed := middleware.Auth(cfg.JWTSecret)
	client := func(h http.HandlerFunc) http.Handler {
		return authed(middleware.RequireRole(domain.RoleClient)(h))
	}
	courier := func(h http.HandlerFunc) http.Handler {
		return authed(middleware.RequireRole(domain.RoleCourier)(h))
	}

	mux.Handle("GET /api/v1/users/{id}", authed(http.HandlerFunc(userHandler.GetByID)))
	mux.Handle("PATCH /api/v1/users/{id}", authed(http.HandlerFunc(userHandler.Update)))
	mux.Handle("GET /api/v1/users/exists", authed(http.HandlerFunc(userHandler.Exists)))

	mux.Handle("GET /api/v1/lockers", authed(http.HandlerFunc(lockerHandler.List)))

	mux.Handle("POST /api/v1/packages", client(packageHandler.Create))
	mux.Handle("POST /api/v1/packages/quote", authed(http.HandlerFunc(packageHandler.Quote)))
	mux.Handle("GET /api/v1/packages", authed(http.HandlerFunc(packageHandler.List)))
	mux.Handle("GET /api/v1/packages/track", authed(http.HandlerFunc(packageHandler.Track)))
	mux.Handle("POST /api/v1/packages/collect", client(packageHandler.Collect))
	mux.Handle("POST /api/v1/packages/{id}/advance", courier(packageHandler.Advance))
	mux.Handle("GET /api/v1/packages/{id}/route", courier(packageHandler.Route))

	mux.Handle("GET /api/v1/couriers/stats", courier(courierHandler.Stats))
	mux.Handle("GET /api/v1/couriers/leaderboard", courier(courierHandler.Leaderboard))

	mux.Handle("POST /api/v1/reports", authed(http.HandlerFunc(reportHandler.Create)))

	root := middleware.Tracing(middleware.Logging(middleware.Recovery(mux)))

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           root,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
