package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-store/internal/config"
	"github.com/iliyamo/movie-store/internal/database"
	"github.com/iliyamo/movie-store/internal/handler"
	"github.com/iliyamo/movie-store/internal/middleware"
	"github.com/iliyamo/movie-store/internal/queue"
	"github.com/iliyamo/movie-store/internal/repository"
	"github.com/iliyamo/movie-store/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client disables response caching and
	// rate limiting without affecting the store itself.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache and rate limiting disabled")
	}

	movieRepo := repository.NewMovieRepo(db)
	clientRepo := repository.NewClientRepo(db)
	cartRepo := repository.NewCartRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	purgeRepo := repository.NewPurgeRepo(db)

	movieHandler := handler.NewMovieHandler(movieRepo)
	cartHandler := handler.NewCartHandler(cartRepo, queue.PublishOrderPaid)
	userHandler := handler.NewUserHandler(cfg, clientRepo)
	adminHandler := handler.NewAdminHandler(saleRepo, clientRepo, purgeRepo)

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterCatalog(e, movieHandler, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	router.RegisterCart(e, cartHandler)
	router.RegisterUser(e, userHandler, cfg.JWTSecret)
	router.RegisterAdmin(e, adminHandler)

	// Background consumer mirrors paid orders into logs/orders.log.
	go func() {
		if err := queue.StartOrderConsumer(); err != nil {
			log.Printf("order consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
