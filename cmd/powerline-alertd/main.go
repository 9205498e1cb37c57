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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/villagegrid/powerline-alerts/internal/alerts"
	"github.com/villagegrid/powerline-alerts/internal/api"
	"github.com/villagegrid/powerline-alerts/internal/config"
	"github.com/villagegrid/powerline-alerts/internal/geolocation"
	"github.com/villagegrid/powerline-alerts/internal/logging"
	"github.com/villagegrid/powerline-alerts/internal/observability"
	"github.com/villagegrid/powerline-alerts/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port, "store", cfg.Store.Backend)

	clock := clockwork.NewRealClock()
	seed := repository.DefaultSeed(clock.Now())

	// The user directory is always memory-backed; there is no user CRUD.
	directory := repository.NewMemoryStore(clock)

	var (
		alertStore repository.AlertStore
		noteStore  repository.NotificationStore
	)
	if cfg.Store.Backend == "sqlite" {
		db, err := repository.NewSQLiteStore(cfg.Store.SQLiteDSN, clock)
		if err != nil {
			logging.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()
		if err := db.LoadSeed(context.Background(), seed); err != nil {
			logging.Fatalf("Failed to seed database: %v", err)
		}
		directory.LoadSeed(repository.Seed{Users: seed.Users})
		alertStore, noteStore = db, db
	} else {
		directory.LoadSeed(seed)
		alertStore, noteStore = directory, directory
	}

	metrics := observability.NewMetrics()
	svc := alerts.NewService(alertStore, noteStore, directory, metrics, cfg.Alerts.NotificationRadiusKm)

	location := geolocation.NewClient(geolocation.Config{
		Enabled:      cfg.Geolocation.Enabled,
		ProviderURL:  cfg.Geolocation.ProviderURL,
		Timeout:      cfg.Geolocation.Timeout,
		HighAccuracy: cfg.Geolocation.HighAccuracy,
	})

	// Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", api.ActorHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false, // Set to false when using wildcard origins
	}))
	router.Use(api.RateLimitMiddleware(cfg.API.RateLimitRPS))

	handler := api.NewHandler(svc, alertStore, noteStore, directory, location)
	handler.RegisterRoutes(router)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
}
