package main // Entry point package

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/tropictalks/classhub/internal/config"
	"github.com/tropictalks/classhub/internal/database"
	"github.com/tropictalks/classhub/internal/handler"
	"github.com/tropictalks/classhub/internal/middleware"
	"github.com/tropictalks/classhub/internal/payment"
	"github.com/tropictalks/classhub/internal/queue"
	"github.com/tropictalks/classhub/internal/repository"
	"github.com/tropictalks/classhub/internal/router"
	queue_publisher "github.com/tropictalks/classhub/internal/service"
	"github.com/tropictalks/classhub/internal/settlement"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional; a nil client disables caching and rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	classes := repository.NewClassRepo(db)
	selections := repository.NewSelectionRepo(db)
	enrollments := repository.NewEnrollmentRepo(db)
	payments := repository.NewPaymentRepo(db)

	engine := settlement.NewEngine(payments, selections, enrollments, classes)

	var gateway payment.IntentCreator
	if cfg.GatewayURL != "" {
		gateway = payment.NewClient(cfg.GatewayURL, cfg.GatewayKey)
	}

	h := router.Handlers{
		Auth:       handler.NewAuthHandler(cfg),
		Classes:    handler.NewClassHandler(classes),
		Selections: handler.NewSelectionHandler(selections),
		Enrollment: handler.NewEnrollmentHandler(enrollments),
		Payments:   handler.NewPaymentHandler(cfg, gateway, engine, payments, queue_publisher.PublishEnrollmentSettled),
		Users:      handler.NewUserHandler(users),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RateLimit(config.LoadRateLimitConfig(), rdb))
	cacheClasses := middleware.CatalogCache(config.LoadCatalogCacheConfig(), rdb)
	router.Register(e, h, users, cfg.JWTSecret, cacheClasses)

	// The settlement consumer runs for the life of the process and
	// reconnects on its own; it never takes the server down.
	go func() {
		if err := queue.StartSettlementConsumer(); err != nil {
			log.Printf("settlement consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := e.Start(addr); err != nil {
			log.Printf("server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()

	// Drain in-flight requests before closing the DB pool so that a
	// settlement mid-transition is not cut off between steps.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
