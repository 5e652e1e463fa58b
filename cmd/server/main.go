package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/room-rental-management/internal/config"
	"github.com/iliyamo/room-rental-management/internal/database"
	"github.com/iliyamo/room-rental-management/internal/handler"
	"github.com/iliyamo/room-rental-management/internal/middleware"
	"github.com/iliyamo/room-rental-management/internal/queue"
	"github.com/iliyamo/room-rental-management/internal/repository"
	"github.com/iliyamo/room-rental-management/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable: rate limiting and response caching disabled")
	}

	// Repositories.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	rooms := repository.NewRoomRepo(db)
	furniture := repository.NewFurnitureRepo(db)
	rentals := repository.NewRentalRepo(db)

	// Handlers.
	authH := handler.NewAuthHandler(cfg, users, tokens, handler.DefaultRoleMapping())
	publicH := handler.NewPublicRoomHandler(rooms, rentals)
	customerH := handler.NewCustomerRentingHandler(users, rentals)
	staffRentH := handler.NewStaffRentingHandler(rentals)
	staffRoomH := handler.NewStaffRoomHandler(rooms, rentals)
	staffFurnH := handler.NewStaffFurnitureHandler(furniture)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	auth := middleware.JWTAuth(cfg.JWTSecret)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuthRoutes(e, authH, auth)
	router.RegisterPublicRoutes(e, publicH, cache)
	router.RegisterCustomerRoutes(e, customerH, auth)
	router.RegisterStaffRoutes(e, staffRoomH, staffFurnH, staffRentH, auth)

	// Background consumer logging rental activations.
	go func() {
		if err := queue.StartRentalConsumer(); err != nil {
			log.Printf("rental consumer stopped: %v", err)
		}
	}()

	// Optional periodic sweep; expired contracts are also swept lazily on
	// reads, so this only bounds how stale an idle system can get.
	if cfg.SweepEveryMin > 0 {
		go func() {
			ticker := time.NewTicker(time.Duration(cfg.SweepEveryMin) * time.Minute)
			defer ticker.Stop()
			for range ticker.C {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				if ids, err := rentals.SweepExpired(ctx, time.Now()); err != nil {
					log.Printf("periodic sweep failed: %v", err)
				} else if len(ids) > 0 {
					log.Printf("periodic sweep completed %d contract(s)", len(ids))
				}
				cancel()
			}
		}()
	}

	log.Printf("room rental service listening on :%s (env=%s)", cfg.Port, cfg.Env)
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
