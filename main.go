package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joy095/gowafly/clients"
	"github.com/joy095/gowafly/config"
	"github.com/joy095/gowafly/config/db"
	redisclient "github.com/joy095/gowafly/config/redis"
	"github.com/joy095/gowafly/logger"
	"github.com/joy095/gowafly/metrics"
	"github.com/joy095/gowafly/models/booking_models"
	"github.com/joy095/gowafly/models/flight_models"
	"github.com/joy095/gowafly/models/user_models"
	"github.com/joy095/gowafly/routes"
	"github.com/joy095/gowafly/services/booking_service"
	"github.com/joy095/gowafly/services/flight_service"
	"github.com/joy095/gowafly/utils"
	"github.com/joy095/gowafly/utils/mail"
)

func init() {
	config.LoadEnv()
}

func main() {
	cfg := config.Load()
	logger.InitLoggers(cfg.LogFile)
	utils.SetJWTSecret(cfg.JWTSecret)
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.ErrorLogger.Fatalf("Database unavailable: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		logger.ErrorLogger.Fatalf("Schema migration failed: %v", err)
	}

	m := metrics.NewMetrics("gowafly")

	// Redis is optional: without it the price cache and rate limits stay in process.
	var prices flight_service.PriceCache
	rdb, err := redisclient.GetRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		logger.WarnLogger.Warnf("Redis unavailable, using in-memory price cache and rate limits: %v", err)
		prices = flight_service.NewMemoryPriceCache(cfg.PriceCacheTTL)
	} else {
		defer redisclient.CloseRedis()
		prices = flight_service.NewRedisPriceCache(rdb, cfg.PriceCacheTTL)
	}

	mailer := mail.NewMailer(cfg.Mail)

	users := user_models.NewRepository(pool)
	provider := clients.NewAviationClient(cfg.Provider, m)
	flights := flight_service.NewService(provider, flight_models.NewRepository(pool), prices, m)

	var notifier booking_service.Notifier
	if mailer != nil {
		notifier = mailer
	}
	bookings := booking_service.NewService(booking_models.NewRepository(pool), notifier, m)

	r := routes.NewRouter(routes.Dependencies{
		Redis:          rdb,
		Users:          users,
		Flights:        flights,
		Bookings:       bookings,
		Metrics:        m,
		TokenTTL:       cfg.TokenTTL,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.InfoLogger.Infof("Server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorLogger.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.InfoLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorLogger.Errorf("Server forced to shutdown: %v", err)
	}
	mailer.Wait()
	logger.InfoLogger.Info("Server exited")
}
