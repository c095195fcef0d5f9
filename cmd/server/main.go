package main // Entry point for the facility management API server

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/campusfms/fms-server/internal/config"
	"github.com/campusfms/fms-server/internal/database"
	"github.com/campusfms/fms-server/internal/handler"
	"github.com/campusfms/fms-server/internal/middleware"
	"github.com/campusfms/fms-server/internal/queue"
	"github.com/campusfms/fms-server/internal/repository"
	"github.com/campusfms/fms-server/internal/router"
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

	// Repositories own all SQL; handlers only see the store interfaces.
	facilityRepo := repository.NewFacilityRepo(db)
	bookingRepo := repository.NewBookingRepo(db, facilityRepo)
	issueRepo := repository.NewIssueRepo(db, facilityRepo)
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)

	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	facilityHandler := handler.NewFacilityHandler(facilityRepo)
	bookingHandler := handler.NewBookingHandler(bookingRepo, facilityRepo, cfg.AMQPURL)
	issueHandler := handler.NewIssueHandler(issueRepo)

	// Redis is optional: a nil client turns the cache and rate limiter
	// into pass-through middleware.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; response cache and rate limiting disabled")
	}
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	e := echo.New()
	router.RegisterRoutes(e, facilityHandler, cache)
	router.RegisterAuth(e, authHandler)
	router.RegisterAPI(e, cfg.JWTSecret, facilityHandler, bookingHandler, issueHandler, authHandler, limit)

	// Audit-log consumer for booking decisions; runs for the life of the
	// process and reconnects on broker failure.
	go func() {
		if err := queue.StartDecisionConsumer(cfg.AMQPURL); err != nil {
			log.Printf("decision consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
