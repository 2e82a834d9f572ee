package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/ziad540/Order-Processing-System-sub000/internal/config"
	"github.com/ziad540/Order-Processing-System-sub000/internal/database"
	"github.com/ziad540/Order-Processing-System-sub000/internal/handler"
	"github.com/ziad540/Order-Processing-System-sub000/internal/middleware"
	"github.com/ziad540/Order-Processing-System-sub000/internal/queue"
	"github.com/ziad540/Order-Processing-System-sub000/internal/repository"
	"github.com/ziad540/Order-Processing-System-sub000/internal/router"
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	// Repositories share the one pool; checkout opens its transaction
	// through it so order, stock and cart writes commit together.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	books := repository.NewBookRepo(db)
	carts := repository.NewCartRepo(db)
	orders := repository.NewOrderRepo(db)
	cards := repository.NewCardRepo(db)

	authH := handler.NewAuthHandler(cfg, users, tokens, carts)
	cartH := handler.NewCartHandler(carts, books)
	checkoutH := handler.NewCheckoutHandler(carts, books, orders, cards, cfg.TaxPercent)
	orderH := handler.NewOrderHandler(orders)
	catalogH := handler.NewCatalogHandler(books)
	adminH := handler.NewAdminHandler(books, orders)

	e := echo.New()
	e.HideBanner = true

	// Redis is optional: without it the catalog cache and rate limiter
	// turn into pass-throughs. Cart, order and auth state never lives
	// in Redis, so losing it costs performance, not correctness.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache and rate limiting disabled")
	}
	rl := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	e.Use(rl)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret, tokens)
	router.RegisterPublic(e, catalogH, cache)
	router.RegisterCustomer(e, cartH, checkoutH, orderH, cfg.JWTSecret, tokens, users)
	router.RegisterAdmin(e, adminH, cfg.JWTSecret, tokens, users)

	// Background consumer keeps its own broker connection with a
	// reconnect loop; it never blocks request handling.
	go func() {
		if err := queue.StartOrderConsumer(); err != nil {
			log.Printf("order-consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
