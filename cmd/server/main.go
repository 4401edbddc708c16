package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/attraction-reservation/internal/config"
	"github.com/iliyamo/attraction-reservation/internal/database"
	"github.com/iliyamo/attraction-reservation/internal/handler"
	"github.com/iliyamo/attraction-reservation/internal/middleware"
	"github.com/iliyamo/attraction-reservation/internal/queue"
	"github.com/iliyamo/attraction-reservation/internal/repository"
	"github.com/iliyamo/attraction-reservation/internal/router"
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

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	attractions := repository.NewAttractionRepo(db)
	bookings := repository.NewBookingRepo(db)
	purchases := repository.NewPurchaseRepo(db)
	instruments := repository.NewGiftInstrumentRepo(db)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	catalogH := handler.NewCatalogHandler(attractions)
	attractionH := handler.NewAttractionHandler(attractions)
	bookingH := handler.NewBookingHandler(attractions, bookings)
	counterSaleH := handler.NewCounterSaleHandler(attractions, purchases)
	instrumentH := handler.NewGiftInstrumentHandler(instruments)

	e := echo.New()
	e.HideBanner = true

	// Redis is optional; without it the limiter and cache pass through.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and response cache disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, catalogH, bookingH)
	router.RegisterAdmin(e, cfg.JWTSecret, attractionH)
	router.RegisterStaff(e, cfg.JWTSecret, bookingH, counterSaleH, instrumentH)

	// The commerce consumer drains the event queues into the audit log
	// and reconnects on broker failures.
	go func() {
		if err := queue.StartCommerceConsumer(); err != nil {
			log.Printf("commerce consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
